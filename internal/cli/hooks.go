package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/autoinstall/pkg/errors"
	"github.com/matzehuels/autoinstall/pkg/observability"
)

// logHooks traces install and history events at debug level.
type logHooks struct {
	logger *log.Logger
}

func newLogHooks(l *log.Logger) *logHooks {
	return &logHooks{logger: l.WithPrefix("trace")}
}

func (h *logHooks) OnQueued(_ context.Context, command, dir string) {
	h.logger.Debug("queued", "command", command, "dir", dir)
}

func (h *logHooks) OnInstallStart(_ context.Context, command, dir string) {
	h.logger.Debug("spawn", "command", command, "dir", dir)
}

func (h *logHooks) OnInstallComplete(_ context.Context, command, dir string, duration time.Duration, err error) {
	if err != nil {
		h.logger.Debug("exit", "command", command, "duration", duration.Round(time.Millisecond), "status", errors.ExitCode(err), "err", err)
		return
	}
	h.logger.Debug("exit", "command", command, "duration", duration.Round(time.Millisecond), "status", 0)
}

func (h *logHooks) OnSkipped(_ context.Context, commands []string) {
	h.logger.Debug("skipped", "count", len(commands))
}

func (h *logHooks) OnRunSaved(_ context.Context, backend, runID string, err error) {
	if err != nil {
		h.logger.Debug("history write failed", "backend", backend, "id", runID, "err", err)
		return
	}
	h.logger.Debug("history write", "backend", backend, "id", runID)
}

// registerHooks installs the tracing hooks for verbose runs and the
// no-op hooks otherwise.
func registerHooks(l *log.Logger, verbose bool) {
	observability.Reset()
	if !verbose {
		return
	}
	h := newLogHooks(l)
	observability.SetInstallHooks(h)
	observability.SetHistoryHooks(h)
}

var (
	_ observability.InstallHooks = (*logHooks)(nil)
	_ observability.HistoryHooks = (*logHooks)(nil)
)
