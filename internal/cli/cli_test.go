package cli

import (
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/versegraph/versegraph/pkg/cache"
	"github.com/versegraph/versegraph/pkg/config"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single", "png", []string{"png"}},
		{"multiple", "svg,dot,json", []string{"svg", "dot", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFormats(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir error: %v", err)
	}
	want := filepath.Join("/tmp/xdg-cache", appName)
	if dir != want {
		t.Errorf("cacheDir = %q, want %q", dir, want)
	}
}

func TestNewPayloadCache(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Backend = "file"
	cfg.Cache.Dir = t.TempDir()

	c, err := newPayloadCache(t.Context(), cfg, false)
	if err != nil {
		t.Fatalf("newPayloadCache error: %v", err)
	}
	defer c.Close()
	if _, ok := c.(*cache.FileCache); !ok {
		t.Errorf("backend = %T, want *cache.FileCache", c)
	}

	// no-cache overrides the configured backend
	c, err = newPayloadCache(t.Context(), cfg, true)
	if err != nil {
		t.Fatalf("newPayloadCache error: %v", err)
	}
	if _, ok := c.(*cache.NullCache); !ok {
		t.Errorf("no-cache backend = %T, want *cache.NullCache", c)
	}

	cfg.Cache.Backend = "bogus"
	if _, err := newPayloadCache(t.Context(), cfg, false); err == nil {
		t.Error("expected error for unknown cache backend")
	}
}

func TestNewSourceOverride(t *testing.T) {
	cfg := config.Default()

	src, err := newSource(t.Context(), cfg, t.TempDir())
	if err != nil {
		t.Fatalf("dir override: %v", err)
	}
	if src == nil {
		t.Fatal("dir override returned nil source")
	}

	if _, err := newSource(t.Context(), cfg, "https://graph.example.com/api"); err != nil {
		t.Fatalf("url override: %v", err)
	}

	cfg.Source.Backend = "bogus"
	if _, err := newSource(t.Context(), cfg, ""); err == nil {
		t.Error("expected error for unknown source backend")
	}
}

func TestClearCacheDir(t *testing.T) {
	dir := t.TempDir()
	c, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := t.Context()
	if err := c.Set(ctx, "payload:John.3.16", []byte("a"), time.Hour); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "nodata:Gen.1.1", []byte("1"), time.Hour); err != nil {
		t.Fatal(err)
	}

	count, err := clearCacheDir(dir)
	if err != nil {
		t.Fatalf("clearCacheDir error: %v", err)
	}
	if count != 2 {
		t.Errorf("cleared %d entries, want 2", count)
	}

	// Entries and their fanout subdirectories are gone; the root stays.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("cache dir not empty after clear: %v", entries)
	}
}

func TestRootCommandWiring(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	for _, name := range []string{"view", "serve", "explore", "ingest", "cache", "completion"} {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}
