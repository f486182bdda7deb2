package cli

import (
	"context"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "printed 1 tree (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() if none
// is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

// cliHooks reports pipeline progress as debug logs. When stderr is set it
// also shows a spinner while metadata is being resolved; the spinner is
// stopped before anything is rendered.
type cliHooks struct {
	logger *log.Logger
	stderr io.Writer

	mu      sync.Mutex
	spinner *Spinner
}

func (h *cliHooks) OnMetadataStart(ctx context.Context, provider string) {
	h.logger.Debug("resolving", "provider", provider)
	if h.stderr == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.spinner = newSpinnerWithContext(ctx, h.stderr, "Resolving dependencies...")
	h.spinner.Start()
}

func (h *cliHooks) OnMetadataComplete(ctx context.Context, provider string, packageCount int, dur time.Duration, err error) {
	h.mu.Lock()
	if h.spinner != nil {
		h.spinner.Stop()
		h.spinner = nil
	}
	h.mu.Unlock()
	if err != nil {
		h.logger.Debug("resolve failed", "provider", provider, "err", err)
		return
	}
	h.logger.Debug("resolved", "provider", provider, "packages", packageCount, "duration", dur.Round(time.Millisecond))
}

func (h *cliHooks) OnBuildComplete(ctx context.Context, nodes, edges int, dur time.Duration, err error) {
	if err == nil {
		h.logger.Debug("graph ready", "nodes", nodes, "edges", edges)
	}
}

func (h *cliHooks) OnRenderStart(ctx context.Context, mode string) {}

func (h *cliHooks) OnRenderComplete(ctx context.Context, mode string, dur time.Duration, err error) {
	if err == nil {
		h.logger.Debug("render complete", "mode", mode, "duration", dur.Round(time.Millisecond))
	}
}

// OnCommandStart is a no-op; the provider logs the full command line itself.
func (h *cliHooks) OnCommandStart(ctx context.Context, name string, args []string) {}

func (h *cliHooks) OnCommandComplete(ctx context.Context, name string, dur time.Duration, err error) {
	if err != nil {
		h.logger.Debug("exec failed", "cmd", filepath.Base(name), "err", err)
		return
	}
	h.logger.Debug("exec done", "cmd", filepath.Base(name), "duration", dur.Round(time.Millisecond))
}
