package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. Failed stages and
// 5xx responses are logged as warnings.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log through logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger}
}

// Register installs h for every hook category.
func (h *LogHooks) Register() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnStageStart(_ context.Context, stage, subject string) {
	h.logger.Debug("stage started", "stage", stage, "subject", subject)
}

func (h *LogHooks) OnStageComplete(_ context.Context, stage, subject string, nodeCount int, duration time.Duration, err error) {
	if err != nil {
		h.logger.Warn("stage failed", "stage", stage, "subject", subject, "duration", duration, "err", err)
		return
	}
	h.logger.Debug("stage complete", "stage", stage, "subject", subject, "nodes", nodeCount, "duration", duration)
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

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, duration time.Duration) {
	if status >= 500 {
		h.logger.Warn("response", "method", method, "route", route, "status", status, "duration", duration)
		return
	}
	h.logger.Debug("response", "method", method, "route", route, "status", status, "duration", duration)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
