package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ErrUpstreamUnavailable marks any failure to get an answer out of the RAG
// service: connection refused, non-2xx status, or an unusable body.
var ErrUpstreamUnavailable = errors.New("rag upstream unavailable")

// RAGClient talks to the inference service over its /callLLM endpoint.
// The status query parameter doubles as a presence signal: "on" while a
// client is asking, "off" when it disconnects.
type RAGClient struct {
	log     *slog.Logger
	baseURL string
	http    *http.Client
}

// NewRAGClient constructs a client for the given base URL (no /callLLM
// suffix, no trailing slash).
func NewRAGClient(log *slog.Logger, cfg Config) (*RAGClient, error) {
	if log == nil {
		log = slog.Default()
	}
	if cfg.RAGBaseURL == "" {
		return nil, errors.New("relay: RAG base URL not configured")
	}
	timeout := cfg.UpstreamTimeout
	if timeout <= 0 {
		timeout = defaultUpstreamTimeout
	}
	return &RAGClient{
		log:     log,
		baseURL: cfg.RAGBaseURL,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

type ragQuery struct {
	Query string `json:"query"`
}

type ragAnswer struct {
	Response json.RawMessage `json:"response"`
}

// Query forwards one query and returns the raw JSON value of the answer's
// "response" field. The payload passes through untouched so the client sees
// exactly what the model produced.
func (c *RAGClient) Query(ctx context.Context, query string) (json.RawMessage, error) {
	body, err := c.post(ctx, "on", query)
	if err != nil {
		return nil, err
	}

	var answer ragAnswer
	if err := json.Unmarshal(body, &answer); err != nil {
		c.log.Error("rag: unusable response body", "err", err)
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	if len(answer.Response) == 0 {
		return nil, fmt.Errorf("%w: missing response field", ErrUpstreamUnavailable)
	}
	return answer.Response, nil
}

// NotifyDisconnect tells the inference service the client went away. Best
// effort: failures are logged and swallowed, a dead upstream must not block
// connection teardown.
func (c *RAGClient) NotifyDisconnect(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := c.post(ctx, "off", " "); err != nil {
		c.log.Warn("rag: disconnect notification failed", "err", err)
	}
}

func (c *RAGClient) post(ctx context.Context, status, query string) ([]byte, error) {
	payload, err := json.Marshal(ragQuery{Query: query})
	if err != nil {
		return nil, err
	}

	url := c.baseURL + "/callLLM?status=" + status
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 4<<10))
		return nil, fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, res.StatusCode)
	}

	return io.ReadAll(io.LimitReader(res.Body, 4<<20))
}
