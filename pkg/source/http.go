package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/versegraph/versegraph/pkg/cache"
	"github.com/versegraph/versegraph/pkg/errors"
	"github.com/versegraph/versegraph/pkg/graph"
	"github.com/versegraph/versegraph/pkg/observability"
)

const httpTimeout = 10 * time.Second

// HTTPSource fetches payloads from the annotation backend's REST API.
// It retries transient failures (network errors, 5xx) with exponential
// backoff; a 404 is a definitive NO_GRAPH_DATA answer and is never retried.
type HTTPSource struct {
	base    string
	http    *http.Client
	headers map[string]string
}

// NewHTTPSource creates a source for the backend at baseURL.
// Pass nil for headers if no default headers are needed.
func NewHTTPSource(baseURL string, headers map[string]string) (*HTTPSource, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid source URL: %s", baseURL)
	}
	return &HTTPSource{
		base:    strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: httpTimeout},
		headers: headers,
	}, nil
}

// Fetch retrieves the payload for osis from GET {base}/graph/{osis}.
func (s *HTTPSource) Fetch(ctx context.Context, osis string) (graph.Payload, error) {
	var p graph.Payload
	if err := errors.ValidateOSIS(osis); err != nil {
		return p, err
	}

	endpoint := s.base + "/graph/" + url.PathEscape(osis)
	err := cache.RetryWithBackoff(ctx, func() error {
		return s.get(ctx, endpoint, &p)
	})
	if err != nil {
		if errors.Is(err, errors.ErrCodeNoGraphData) {
			return p, err
		}
		return p, errors.Wrap(errors.ErrCodeFetchFailed, err, "fetch graph for %s", osis)
	}
	return p, nil
}

func (s *HTTPSource) get(ctx context.Context, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	for k, val := range s.headers {
		req.Header.Set(k, val)
	}

	observability.HTTP().OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)
	start := time.Now()

	resp, err := s.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
		return cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode payload")
		}
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return errors.New(errors.ErrCodeNoGraphData, "no graph data for this reference")
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return cache.Retryable(fmt.Errorf("%w: status %d", cache.ErrNetwork, resp.StatusCode))
	default:
		return fmt.Errorf("%w: status %d", cache.ErrNetwork, resp.StatusCode)
	}
}

// Ensure HTTPSource implements Source.
var _ Source = (*HTTPSource)(nil)
