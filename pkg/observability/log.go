package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. It implements
// all hook interfaces.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks logging to l.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{logger: l.WithPrefix("hooks")}
}

// Register installs h in every registry.
func (h *LogHooks) Register() {
	SetLayoutHooks(h)
	SetExportHooks(h)
	SetStoreHooks(h)
	SetCacheHooks(h)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, tokens int) {
	h.logger.Debug("layout start", "tokens", tokens)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, words, fallbacks int, d time.Duration, err error) {
	h.logger.Debug("layout complete", "words", words, "fallbacks", fallbacks, "took", d, "err", err)
}

func (h *LogHooks) OnFallback(_ context.Context, index int, text string) {
	h.logger.Debug("word centered without free position", "index", index, "text", text)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("render complete", "formats", formats, "took", d, "err", err)
}

func (h *LogHooks) OnUnresolved(_ context.Context, count int) {
	h.logger.Debug("words still colliding on page", "count", count)
}

func (h *LogHooks) OnLoad(_ context.Context, backend, key string, found bool, err error) {
	h.logger.Debug("store load", "backend", backend, "key", key, "found", found, "err", err)
}

func (h *LogHooks) OnSave(_ context.Context, backend, key string, size int, d time.Duration, err error) {
	h.logger.Debug("store save", "backend", backend, "key", key, "bytes", size, "took", d, "err", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}
