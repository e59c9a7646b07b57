package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/versegraph/versegraph/pkg/graph"
	"github.com/versegraph/versegraph/pkg/source"
)

// ingestCommand creates the ingest command for loading payload files into
// the MongoDB store.
func (c *CLI) ingestCommand() *cobra.Command {
	var uri string

	cmd := &cobra.Command{
		Use:   "ingest [file-or-dir]...",
		Short: "Load payload files into the MongoDB store",
		Long: `Load payload files into the MongoDB store.

Each argument is a payload JSON file or a directory of them. Existing
documents for the same verse are replaced. The connection settings come
from the config file unless --uri is given.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if uri != "" {
				cfg.Source.MongoURI = uri
			}

			ctx := cmd.Context()
			store, err := source.NewMongoSource(ctx, cfg.Source.MongoURI, cfg.Source.MongoDB, cfg.Source.MongoCollection)
			if err != nil {
				return err
			}
			defer store.Close(ctx)

			p := newProgress(c.Logger)
			count := 0
			for _, arg := range args {
				files, err := payloadFiles(arg)
				if err != nil {
					return err
				}
				for _, file := range files {
					payload, err := graph.ReadPayloadFile(file)
					if err != nil {
						printWarning("Skipping %s: %v", file, err)
						continue
					}
					if err := store.Put(ctx, payload); err != nil {
						return fmt.Errorf("ingest %s: %w", file, err)
					}
					c.Logger.Debug("stored payload", "osis", payload.OSIS, "file", file)
					count++
				}
			}

			p.done(fmt.Sprintf("Stored %d payloads", count))
			printSuccess("Ingested %d payloads", count)
			return nil
		},
	}

	cmd.Flags().StringVar(&uri, "uri", "", "MongoDB connection URI (overrides config)")

	return cmd
}

// payloadFiles expands an argument into payload file paths. A directory
// yields its .json entries (non-recursive); anything else is taken as-is.
func payloadFiles(arg string) ([]string, error) {
	info, err := os.Stat(arg)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", arg, err)
	}
	if !info.IsDir() {
		return []string{arg}, nil
	}

	entries, err := os.ReadDir(arg)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", arg, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		files = append(files, filepath.Join(arg, e.Name()))
	}
	return files, nil
}
