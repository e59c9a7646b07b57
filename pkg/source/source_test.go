package source

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/versegraph/versegraph/pkg/cache"
	"github.com/versegraph/versegraph/pkg/errors"
	"github.com/versegraph/versegraph/pkg/graph"
)

var testPayload = graph.Payload{
	OSIS: "John.3.16",
	Nodes: []graph.Node{
		{ID: "v1", Kind: graph.NodeKindVerse, Label: "John 3:16"},
		{ID: "m1", Kind: graph.NodeKindMention, Label: "Commentary A"},
	},
	Edges: []graph.Edge{
		{ID: "e1", SourceID: "v1", TargetID: "m1", Kind: graph.EdgeKindMention, SourceType: "commentary"},
	},
	Facets: graph.Facets{SourceTypes: []string{"commentary"}},
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	if err := graph.WritePayloadFile(testPayload, filepath.Join(dir, "John.3.16.json")); err != nil {
		t.Fatalf("WritePayloadFile error: %v", err)
	}

	src, err := NewFileSource(dir)
	if err != nil {
		t.Fatalf("NewFileSource error: %v", err)
	}

	p, err := src.Fetch(context.Background(), "John.3.16")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if p.OSIS != "John.3.16" {
		t.Errorf("OSIS = %q, want John.3.16", p.OSIS)
	}
	if len(p.Nodes) != 2 || len(p.Edges) != 1 {
		t.Errorf("payload shape = %d nodes / %d edges, want 2/1", len(p.Nodes), len(p.Edges))
	}
}

func TestFileSourceNoGraphData(t *testing.T) {
	src, err := NewFileSource(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSource error: %v", err)
	}

	_, err = src.Fetch(context.Background(), "Gen.1.1")
	if !errors.Is(err, errors.ErrCodeNoGraphData) {
		t.Errorf("Fetch error = %v, want NO_GRAPH_DATA", err)
	}
}

func TestFileSourceMalformedPayload(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Gen.1.1.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	src, _ := NewFileSource(dir)
	_, err := src.Fetch(context.Background(), "Gen.1.1")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Fetch error = %v, want INVALID_FORMAT", err)
	}
}

func TestFileSourceRejectsPathEscapes(t *testing.T) {
	src, _ := NewFileSource(t.TempDir())

	for _, osis := range []string{"../etc/passwd", "a/b", ""} {
		if _, err := src.Fetch(context.Background(), osis); err == nil {
			t.Errorf("Fetch(%q) should fail validation", osis)
		}
	}
}

func TestFileSourceMissingDir(t *testing.T) {
	if _, err := NewFileSource("/does/not/exist"); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("NewFileSource error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestHTTPSourceFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/graph/John.3.16" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = graph.WritePayload(testPayload, w)
	}))
	defer server.Close()

	src, err := NewHTTPSource(server.URL, nil)
	if err != nil {
		t.Fatalf("NewHTTPSource error: %v", err)
	}

	p, err := src.Fetch(context.Background(), "John.3.16")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if p.OSIS != testPayload.OSIS {
		t.Errorf("OSIS = %q, want %q", p.OSIS, testPayload.OSIS)
	}
}

func TestHTTPSourceNoGraphData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	src, _ := NewHTTPSource(server.URL, nil)
	_, err := src.Fetch(context.Background(), "Gen.1.1")
	if !errors.Is(err, errors.ErrCodeNoGraphData) {
		t.Errorf("Fetch error = %v, want NO_GRAPH_DATA", err)
	}
}

func TestHTTPSourceClientError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	src, _ := NewHTTPSource(server.URL, nil)
	_, err := src.Fetch(context.Background(), "Gen.1.1")
	if !errors.Is(err, errors.ErrCodeFetchFailed) {
		t.Errorf("Fetch error = %v, want FETCH_FAILED", err)
	}
}

func TestHTTPSourceServerErrorIsRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	src, _ := NewHTTPSource(server.URL, nil)

	// Single request without the retry loop: 5xx must surface as retryable.
	var p graph.Payload
	err := src.get(context.Background(), server.URL+"/graph/Gen.1.1", &p)
	var retryErr *cache.RetryableError
	if !stderrors.As(err, &retryErr) {
		t.Errorf("get error should be RetryableError, got %T", err)
	}
}

func TestHTTPSourceSendsHeaders(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_ = graph.WritePayload(testPayload, w)
	}))
	defer server.Close()

	src, _ := NewHTTPSource(server.URL, map[string]string{"Authorization": "Bearer token"})
	if _, err := src.Fetch(context.Background(), "John.3.16"); err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if got != "Bearer token" {
		t.Errorf("Authorization header = %q, want bearer token", got)
	}
}

func TestNewHTTPSourceInvalidURL(t *testing.T) {
	for _, u := range []string{"", "not a url", "example.org/no-scheme"} {
		if _, err := NewHTTPSource(u, nil); err == nil {
			t.Errorf("NewHTTPSource(%q) should fail", u)
		}
	}
}
