package relay

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultReadLimit       = 64 << 10 // 64 KiB per frame
	defaultReadIdleTimeout = 5 * time.Minute
	defaultWriteTimeout    = 5 * time.Second
	defaultUpstreamTimeout = 60 * time.Second
)

// Config controls WebSocket session behavior and the upstream RAG endpoint.
type Config struct {
	// RAGBaseURL is the base URL of the inference service, without the
	// /callLLM suffix.
	RAGBaseURL string

	// UpstreamTimeout bounds a single forwarded query. Inference can be
	// slow, so this is deliberately generous.
	UpstreamTimeout time.Duration

	ReadLimit       int64
	ReadIdleTimeout time.Duration
	WriteTimeout    time.Duration

	// OriginPatterns are host patterns authorized for cross-origin
	// upgrades, passed through to websocket.Accept.
	OriginPatterns []string

	// InsecureSkipVerify disables origin checking entirely. Dev only.
	InsecureSkipVerify bool
}

// LoadConfigFromEnv loads relay config from environment variables with safe
// defaults. RAGGATE_RAG_BASE_URL has no default; the gateway refuses to
// start without a downstream target.
func LoadConfigFromEnv() Config {
	return Config{
		RAGBaseURL:         strings.TrimRight(strings.TrimSpace(os.Getenv("RAGGATE_RAG_BASE_URL")), "/"),
		UpstreamTimeout:    envDuration("RAGGATE_RAG_TIMEOUT", defaultUpstreamTimeout),
		ReadLimit:          envInt64("RAGGATE_WS_READ_LIMIT", defaultReadLimit),
		ReadIdleTimeout:    envDuration("RAGGATE_WS_READ_IDLE_TIMEOUT", defaultReadIdleTimeout),
		WriteTimeout:       envDuration("RAGGATE_WS_WRITE_TIMEOUT", defaultWriteTimeout),
		OriginPatterns:     envCSV("RAGGATE_WS_ORIGIN_PATTERNS"),
		InsecureSkipVerify: envBool("RAGGATE_WS_DEV_INSECURE", false),
	}
}

func envDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func envInt64(key string, def int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envCSV(key string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
