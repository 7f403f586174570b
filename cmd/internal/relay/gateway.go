package relay

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/oklog/ulid/v2"
)

const (
	envelopeTypeRAGResponse = "ragResponse"

	statusSuccess = "success"
	statusFailed  = "failed"
)

// ragEnvelope is the frame shape written back to the client. Data is absent
// on failure.
type ragEnvelope struct {
	Type   string          `json:"type"`
	Data   json.RawMessage `json:"data,omitempty"`
	Status string          `json:"status"`
}

// Gateway is the WebSocket entrypoint of the relay.
//
// Each connection gets a sequential loop: one query in flight at a time, in
// arrival order. Concurrency across connections comes from the HTTP server
// running each upgrade in its own goroutine.
type Gateway struct {
	log *slog.Logger
	cfg Config
	rag *RAGClient
}

// NewGateway constructs a relay gateway over the given RAG client.
func NewGateway(log *slog.Logger, cfg Config, rag *RAGClient) (*Gateway, error) {
	if log == nil {
		log = slog.Default()
	}
	if rag == nil {
		return nil, errors.New("relay: nil RAG client")
	}
	if cfg.ReadLimit <= 0 {
		cfg.ReadLimit = defaultReadLimit
	}
	if cfg.ReadIdleTimeout <= 0 {
		cfg.ReadIdleTimeout = defaultReadIdleTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}
	if cfg.UpstreamTimeout <= 0 {
		cfg.UpstreamTimeout = defaultUpstreamTimeout
	}
	return &Gateway{log: log, cfg: cfg, rag: rag}, nil
}

// ServeHTTP adapter so the gateway can be mounted as http.Handler.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.HandleWS(w, r)
}

// HandleWS upgrades the request and runs the relay loop until the client
// goes away or the connection idles out.
func (g *Gateway) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns:     g.cfg.OriginPatterns,
		InsecureSkipVerify: g.cfg.InsecureSkipVerify,
	})
	if err != nil {
		g.log.Error("ws accept failed", "err", err)
		return
	}
	conn.SetReadLimit(g.cfg.ReadLimit)

	connID := ulid.Make().String()
	connectionsTotal.Inc()
	log := g.log.With("conn_id", connID)
	log.Info("client connected", "remote", r.RemoteAddr)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	var closeOnce sync.Once
	shutdown := func(code websocket.StatusCode, reason string) {
		closeOnce.Do(func() {
			_ = conn.Close(code, reason)
			cancel()

			// The request context is gone once the handler unwinds, so the
			// presence signal gets its own detached context.
			notifyCtx, notifyCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer notifyCancel()
			g.rag.NotifyDisconnect(notifyCtx)

			log.Info("client disconnected", "remote", r.RemoteAddr)
		})
	}
	defer shutdown(websocket.StatusNormalClosure, "bye")

	for {
		readCtx, readCancel := context.WithTimeout(ctx, g.cfg.ReadIdleTimeout)
		query, err := readQuery(readCtx, conn)
		readCancel()

		if err != nil {
			switch classifyReadErr(err) {
			case readErrClose:
				shutdown(websocket.StatusNormalClosure, "peer closed")
			case readErrCtxDone:
				shutdown(websocket.StatusGoingAway, "idle timeout")
			case readErrConnClosed:
				shutdown(websocket.StatusAbnormalClosure, "conn closed")
			default:
				log.Info("ws read failed", "err", err)
				shutdown(websocket.StatusAbnormalClosure, "read failed")
			}
			return
		}

		env := g.relayQuery(ctx, log, query)
		if err := g.writeEnvelope(ctx, conn, env); err != nil {
			log.Info("ws write failed", "err", err)
			shutdown(websocket.StatusAbnormalClosure, "write failed")
			return
		}
	}
}

// relayQuery forwards one query and shapes the reply envelope. Upstream
// failures degrade to a failed envelope instead of dropping the connection.
func (g *Gateway) relayQuery(ctx context.Context, log *slog.Logger, query string) ragEnvelope {
	upstreamCtx, cancel := context.WithTimeout(ctx, g.cfg.UpstreamTimeout)
	defer cancel()

	data, err := g.rag.Query(upstreamCtx, query)
	if err != nil {
		messagesTotal.WithLabelValues("failed").Inc()
		log.Error("relay query failed", "err", err)
		return ragEnvelope{Type: envelopeTypeRAGResponse, Status: statusFailed}
	}

	messagesTotal.WithLabelValues("success").Inc()
	return ragEnvelope{Type: envelopeTypeRAGResponse, Data: data, Status: statusSuccess}
}

func readQuery(ctx context.Context, conn *websocket.Conn) (string, error) {
	// Frames are raw query text, not JSON. Binary frames are tolerated and
	// treated as UTF-8 text.
	_, data, err := conn.Read(ctx)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (g *Gateway) writeEnvelope(parent context.Context, conn *websocket.Conn, env ragEnvelope) error {
	ctx, cancel := context.WithTimeout(parent, g.cfg.WriteTimeout)
	defer cancel()

	b, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return conn.Write(ctx, websocket.MessageText, b)
}

type readErrKind uint8

const (
	readErrUnknown readErrKind = iota
	readErrClose
	readErrCtxDone
	readErrConnClosed
)

func classifyReadErr(err error) readErrKind {
	if websocket.CloseStatus(err) != -1 {
		return readErrClose
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return readErrCtxDone
	}
	if errors.Is(err, net.ErrClosed) || errors.Is(err, io.EOF) {
		return readErrConnClosed
	}
	return readErrUnknown
}
