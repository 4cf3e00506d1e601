// Package history records what each autoinstall run did.
//
// A [Run] is written once, after a pipeline invocation has flushed, and is
// never consulted to decide whether an installer should run: history is an
// audit trail, not a cache.
//
// Backends:
//   - file: JSON documents in a directory (default for the CLI)
//   - redis: one key per run plus a sorted-set index, for shared build agents
//   - mongo: one document per run in a collection
//   - none: discards everything
//
// # Usage
//
//	store, err := history.Open(ctx, history.Config{Backend: history.BackendFile})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	run := history.NewRun(paths)
//	run.Finish(stage.Report())
//	err = store.Save(ctx, run)
package history

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/autoinstall/pkg/errors"
	"github.com/matzehuels/autoinstall/pkg/install"
)

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 20

// Run is the recorded outcome of one pipeline invocation.
type Run struct {
	ID         string          `json:"id" bson:"_id"`
	Paths      []string        `json:"paths" bson:"paths"`
	StartedAt  time.Time       `json:"started_at" bson:"started_at"`
	FinishedAt time.Time       `json:"finished_at" bson:"finished_at"`
	Outcome    install.Outcome `json:"outcome" bson:"outcome"`
	Commands   []Entry         `json:"commands" bson:"commands"`
	Error      string          `json:"error,omitempty" bson:"error,omitempty"`
}

// Entry is one queued installer command and, if it ran, how it went.
type Entry struct {
	Command  string `json:"command" bson:"command"`
	Dir      string `json:"dir" bson:"dir"`
	Ran      bool   `json:"ran" bson:"ran"`
	Duration int64  `json:"duration_ms" bson:"duration_ms"`
	ExitCode int    `json:"exit_code" bson:"exit_code"`
	Error    string `json:"error,omitempty" bson:"error,omitempty"`
}

// NewRun starts a run record for the given input paths.
func NewRun(paths []string) *Run {
	return &Run{
		ID:        uuid.NewString(),
		Paths:     append([]string(nil), paths...),
		StartedAt: time.Now().UTC(),
	}
}

// Finish fills the run from a flushed stage's report.
func (r *Run) Finish(rep install.Report) {
	r.FinishedAt = time.Now().UTC()
	r.Outcome = rep.Outcome
	if rep.Err != nil {
		r.Error = errors.UserMessage(rep.Err)
	}

	r.Commands = make([]Entry, len(rep.Queued))
	for i, c := range rep.Queued {
		r.Commands[i] = Entry{Command: c.String(), Dir: c.Dir}
	}
	for i, res := range rep.Results {
		if i >= len(r.Commands) {
			break
		}
		e := &r.Commands[i]
		e.Ran = true
		e.Duration = res.Duration.Milliseconds()
		e.ExitCode = errors.ExitCode(res.Err)
		if res.Err != nil {
			e.Error = res.Err.Error()
		}
	}
}

// Duration returns how long the run took.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Store is the interface for run-history backends.
type Store interface {
	// Save writes a run, replacing any run with the same ID.
	Save(ctx context.Context, run *Run) error

	// Get retrieves a run by ID.
	// Returns an ErrCodeNotFound error if the run does not exist.
	Get(ctx context.Context, id string) (*Run, error)

	// List returns up to limit runs, newest first.
	List(ctx context.Context, limit int) ([]*Run, error)

	// Close releases backend resources.
	Close() error
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "run %s not found", id)
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
