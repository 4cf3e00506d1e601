// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about installer execution and run-history writes.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetInstallHooks(&myInstallHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Install().OnInstallStart(ctx, "npm install", dir)
//	// ... run installer ...
//	observability.Install().OnInstallComplete(ctx, "npm install", dir, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Install Hooks
// =============================================================================

// InstallHooks receives events from the installer stage.
type InstallHooks interface {
	// OnQueued records a manifest that resolved to an installer command.
	OnQueued(ctx context.Context, command, dir string)

	// OnInstallStart records the spawn of an installer process.
	OnInstallStart(ctx context.Context, command, dir string)

	// OnInstallComplete records the end of an installer process.
	OnInstallComplete(ctx context.Context, command, dir string, duration time.Duration, err error)

	// OnSkipped records a flush that was skipped by policy.
	OnSkipped(ctx context.Context, commands []string)
}

// =============================================================================
// History Hooks
// =============================================================================

// HistoryHooks receives events from run-history backends.
type HistoryHooks interface {
	// OnRunSaved records a run-history write.
	OnRunSaved(ctx context.Context, backend, runID string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopInstallHooks is a no-op implementation of InstallHooks.
type NoopInstallHooks struct{}

func (NoopInstallHooks) OnQueued(context.Context, string, string)       {}
func (NoopInstallHooks) OnInstallStart(context.Context, string, string) {}
func (NoopInstallHooks) OnInstallComplete(context.Context, string, string, time.Duration, error) {
}
func (NoopInstallHooks) OnSkipped(context.Context, []string) {}

// NoopHistoryHooks is a no-op implementation of HistoryHooks.
type NoopHistoryHooks struct{}

func (NoopHistoryHooks) OnRunSaved(context.Context, string, string, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	installHooks InstallHooks = NoopInstallHooks{}
	historyHooks HistoryHooks = NoopHistoryHooks{}
	hooksMu      sync.RWMutex
)

// SetInstallHooks registers custom install hooks.
// This should be called once at application startup before any stage is flushed.
func SetInstallHooks(h InstallHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		installHooks = h
	}
}

// SetHistoryHooks registers custom history hooks.
func SetHistoryHooks(h HistoryHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		historyHooks = h
	}
}

// Install returns the registered install hooks.
func Install() InstallHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return installHooks
}

// History returns the registered history hooks.
func History() HistoryHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return historyHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	installHooks = NoopInstallHooks{}
	historyHooks = NoopHistoryHooks{}
}
