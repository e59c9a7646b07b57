package source

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/versegraph/versegraph/pkg/errors"
	"github.com/versegraph/versegraph/pkg/graph"
)

// FileSource serves payloads from a directory of JSON files, one file per
// verse named {osis}.json. Useful for local corpora and offline work.
type FileSource struct {
	dir string
}

// NewFileSource creates a source over dir. The directory must exist.
func NewFileSource(dir string) (*FileSource, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "payload directory %s", dir)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s is not a directory", dir)
	}
	return &FileSource{dir: dir}, nil
}

// Fetch reads {dir}/{osis}.json. A missing file means the verse has no graph
// data; a file that exists but fails to parse is an INVALID_FORMAT error.
func (s *FileSource) Fetch(ctx context.Context, osis string) (graph.Payload, error) {
	var p graph.Payload
	// ValidateOSIS rejects path separators and "..", so the join below can
	// never escape the payload directory.
	if err := errors.ValidateOSIS(osis); err != nil {
		return p, err
	}

	path := filepath.Join(s.dir, osis+".json")
	p, err := graph.ReadPayloadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return graph.Payload{}, errors.New(errors.ErrCodeNoGraphData, "no graph data for %s", osis)
	}
	if err != nil {
		return graph.Payload{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read payload %s", path)
	}
	return p, nil
}

// Ensure FileSource implements Source.
var _ Source = (*FileSource)(nil)
