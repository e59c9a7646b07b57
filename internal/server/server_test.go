package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/versegraph/versegraph/pkg/errors"
	"github.com/versegraph/versegraph/pkg/graph"
	"github.com/versegraph/versegraph/pkg/pipeline"
	"github.com/versegraph/versegraph/pkg/render"
)

type stubSource struct {
	payloads map[string]graph.Payload
	err      error
}

func (s *stubSource) Fetch(ctx context.Context, osis string) (graph.Payload, error) {
	if s.err != nil {
		return graph.Payload{}, s.err
	}
	p, ok := s.payloads[osis]
	if !ok {
		return graph.Payload{}, errors.New(errors.ErrCodeNoGraphData, "no graph data for %s", osis)
	}
	return p, nil
}

func testServer(t *testing.T, src *stubSource) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(src, nil, nil, logger)
	srv := New(runner, logger, ":0")
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func testPayload() graph.Payload {
	return graph.Payload{
		OSIS: "John.3.16",
		Nodes: []graph.Node{
			{ID: "v1", Kind: graph.NodeKindVerse, Label: "John 3:16"},
			{ID: "m1", Kind: graph.NodeKindMention, Label: "Sermon"},
			{ID: "m2", Kind: graph.NodeKindMention, Label: "Commentary"},
		},
		Edges: []graph.Edge{
			{ID: "e1", SourceID: "v1", TargetID: "m1", Kind: graph.EdgeKindMention, SourceType: "sermon"},
			{ID: "e2", SourceID: "v1", TargetID: "m2", Kind: graph.EdgeKindMention, SourceType: "commentary"},
		},
		Facets: graph.Facets{SourceTypes: []string{"sermon", "commentary"}},
	}
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}

func TestHealthz(t *testing.T) {
	ts := testServer(t, &stubSource{})
	resp, _ := get(t, ts.URL+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestGraphEndpoint(t *testing.T) {
	ts := testServer(t, &stubSource{payloads: map[string]graph.Payload{"John.3.16": testPayload()}})

	resp, body := get(t, ts.URL+"/api/graph/John.3.16")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}
	if resp.Header.Get("X-Request-Id") == "" {
		t.Error("response should carry a request id")
	}

	var got positionedResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.OSIS != "John.3.16" {
		t.Errorf("osis = %q", got.OSIS)
	}
	if len(got.Nodes) != 3 || len(got.Edges) != 2 {
		t.Errorf("shape = %d nodes / %d edges, want 3/2", len(got.Nodes), len(got.Edges))
	}
	for _, n := range got.Nodes {
		if n.X == 0 && n.Y == 0 {
			t.Errorf("node %s has no coordinates", n.ID)
		}
	}
	if len(got.Facets.SourceTypes) != 2 {
		t.Errorf("facets = %+v", got.Facets)
	}
}

func TestViewEndpoint(t *testing.T) {
	ts := testServer(t, &stubSource{payloads: map[string]graph.Payload{"John.3.16": testPayload()}})

	// No params: everything selected.
	resp, body := get(t, ts.URL+"/api/graph/John.3.16/view")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}
	var full render.Scene
	if err := json.Unmarshal(body, &full); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if full.VisibleEdgeCount != 2 || full.TotalEdgeCount != 2 {
		t.Errorf("counters = %d/%d, want 2/2", full.VisibleEdgeCount, full.TotalEdgeCount)
	}

	// Narrowed selection hides the other source type.
	_, body = get(t, ts.URL+"/api/graph/John.3.16/view?source_type=sermon")
	var narrowed render.Scene
	if err := json.Unmarshal(body, &narrowed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if narrowed.VisibleEdgeCount != 1 || narrowed.TotalEdgeCount != 2 {
		t.Errorf("counters = %d/%d, want 1/2", narrowed.VisibleEdgeCount, narrowed.TotalEdgeCount)
	}

	// Filtering must not move nodes: the surviving nodes keep their
	// full-view coordinates.
	fullPos := make(map[string][2]float64)
	for _, n := range full.Nodes {
		fullPos[n.ID] = [2]float64{n.X, n.Y}
	}
	for _, n := range narrowed.Nodes {
		if pos, ok := fullPos[n.ID]; ok && (pos[0] != n.X || pos[1] != n.Y) {
			t.Errorf("node %s moved when filtered: %v vs (%g,%g)", n.ID, pos, n.X, n.Y)
		}
	}
}

func TestNoGraphDataIs404(t *testing.T) {
	ts := testServer(t, &stubSource{payloads: map[string]graph.Payload{}})

	resp, body := get(t, ts.URL+"/api/graph/Gen.1.1")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if eb.Error.Code != string(errors.ErrCodeNoGraphData) {
		t.Errorf("code = %q, want NO_GRAPH_DATA", eb.Error.Code)
	}
}

func TestEmptyPayloadIs404(t *testing.T) {
	// A fetchable payload with zero nodes is still "no graph data": the API
	// must not answer 200 with empty node/edge arrays.
	ts := testServer(t, &stubSource{payloads: map[string]graph.Payload{
		"Gen.1.1": {OSIS: "Gen.1.1"},
	}})

	resp, body := get(t, ts.URL+"/api/graph/Gen.1.1")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, body = %s, want 404", resp.StatusCode, body)
	}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if eb.Error.Code != string(errors.ErrCodeNoGraphData) {
		t.Errorf("code = %q, want NO_GRAPH_DATA", eb.Error.Code)
	}
}

func TestFetchFailureIs502(t *testing.T) {
	ts := testServer(t, &stubSource{err: errors.New(errors.ErrCodeFetchFailed, "backend down")})

	resp, body := get(t, ts.URL+"/api/graph/John.3.16")
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", resp.StatusCode)
	}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if eb.Error.Code != string(errors.ErrCodeFetchFailed) {
		t.Errorf("code = %q, want FETCH_FAILED", eb.Error.Code)
	}
}

func TestInvalidOSISIs400(t *testing.T) {
	ts := testServer(t, &stubSource{})

	resp, _ := get(t, ts.URL+"/api/graph/John%203.16")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}
