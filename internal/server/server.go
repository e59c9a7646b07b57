// Package server exposes the graph engine over HTTP.
//
// The API serves the positioned graph and facet-filtered views of it. The
// structural layout is computed per request from the cached payload (layouts
// are never persisted); the view endpoint re-filters without re-running the
// simulation, so facet params only ever change which edges are reported.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/versegraph/versegraph/pkg/errors"
	"github.com/versegraph/versegraph/pkg/graph"
	"github.com/versegraph/versegraph/pkg/pipeline"
	"github.com/versegraph/versegraph/pkg/render"
	"github.com/versegraph/versegraph/pkg/view"
)

const shutdownTimeout = 10 * time.Second

// Server is the HTTP API over a pipeline runner.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	http   *http.Server
}

// New creates a server listening on addr.
func New(runner *pipeline.Runner, logger *log.Logger, addr string) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, logger: logger}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler builds the route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/graph/{osis}", func(r chi.Router) {
		r.Get("/", s.handleGraph)
		r.Get("/view", s.handleView)
	})
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.http.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// positionedNode and positionedEdge shape the /api/graph response.
type positionedNode struct {
	ID    string  `json:"id"`
	Kind  string  `json:"kind"`
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

type positionedEdge struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Source      string `json:"source"`
	Target      string `json:"target"`
	Perspective string `json:"perspective,omitempty"`
	SourceType  string `json:"source_type,omitempty"`
	Summary     string `json:"summary,omitempty"`
}

type positionedResponse struct {
	OSIS   string           `json:"osis"`
	Width  float64          `json:"width"`
	Height float64          `json:"height"`
	Nodes  []positionedNode `json:"nodes"`
	Edges  []positionedEdge `json:"edges"`
	Facets graph.Facets     `json:"filters"`
}

// handleGraph returns the full positioned graph: every node with settled
// coordinates, every edge, and the available facet values.
func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	p, err := s.runner.Compute(r.Context(), pipeline.Options{
		OSIS:    chi.URLParam(r, "osis"),
		Refresh: r.URL.Query().Get("refresh") == "true",
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := positionedResponse{
		OSIS:   p.OSIS,
		Width:  p.Width,
		Height: p.Height,
		Nodes:  make([]positionedNode, 0, len(p.Nodes)),
		Edges:  make([]positionedEdge, 0, len(p.Edges)),
		Facets: p.Facets,
	}
	for _, n := range p.Nodes {
		resp.Nodes = append(resp.Nodes, positionedNode{
			ID: n.ID, Kind: n.Kind, Label: n.DisplayLabel(), X: n.X, Y: n.Y,
		})
	}
	for _, e := range p.Edges {
		resp.Edges = append(resp.Edges, positionedEdge{
			ID:          e.ID,
			Kind:        e.Kind,
			Source:      p.Nodes[e.Source].ID,
			Target:      p.Nodes[e.Target].ID,
			Perspective: e.Perspective,
			SourceType:  e.SourceType,
			Summary:     e.Summary,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleView returns the styled scene for a facet selection. Omitted facet
// params mean "everything selected": the axis is not narrowed.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	p, err := s.runner.Compute(r.Context(), pipeline.Options{
		OSIS:    chi.URLParam(r, "osis"),
		Refresh: r.URL.Query().Get("refresh") == "true",
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	sel := view.Selection{
		Perspectives: q["perspective"],
		SourceTypes:  q["source_type"],
	}
	v := view.Compute(p, sel)
	writeJSON(w, http.StatusOK, render.BuildScene(p, v))
}

// =============================================================================
// Error Mapping
// =============================================================================

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// writeError maps structured error codes to HTTP statuses. NO_GRAPH_DATA is a
// definitive 404; FETCH_FAILED and TIMEOUT mean the upstream is unhealthy and
// map to 502 so clients can tell the two apart.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeNoGraphData:
		status = http.StatusNotFound
	case errors.ErrCodeFetchFailed, errors.ErrCodeTimeout:
		status = http.StatusBadGateway
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidOSIS,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidFacet:
		status = http.StatusBadRequest
	case "":
		code = errors.ErrCodeInternal
	}

	if status >= 500 {
		s.logger.Error("request failed",
			"request_id", requestIDFrom(r.Context()),
			"path", r.URL.Path,
			"err", err)
	}

	var body errorBody
	body.Error.Code = string(code)
	body.Error.Message = errors.UserMessage(err)
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// =============================================================================
// Middleware
// =============================================================================

type ctxKey int

const requestIDKey ctxKey = 0

// requestID assigns each request a uuid, exposed in the response header and
// the request context for log correlation.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// logRequests emits one structured line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"request_id", requestIDFrom(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}
