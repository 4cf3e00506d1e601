package install

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/autoinstall/pkg/errors"
	"github.com/matzehuels/autoinstall/pkg/observability"
	"github.com/matzehuels/autoinstall/pkg/stream"
)

// State is a Stage's position in its one-way lifecycle.
// How a flush ended (nothing queued, skipped, installed, failed) is
// recorded separately as the Report's [Outcome].
type State int

const (
	// StateCollecting accepts records and grows the queue.
	StateCollecting State = iota
	// StateRunning executes the queue.
	StateRunning
	// StateDone is reached after an empty, skipped or successful flush.
	StateDone
	// StateFailed is reached when a queued command fails.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateCollecting:
		return "collecting"
	case StateRunning:
		return "running"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome describes how a flush ended.
type Outcome string

const (
	OutcomeIdle      Outcome = "idle"      // nothing was queued
	OutcomeSkipped   Outcome = "skipped"   // SkipInstall was set
	OutcomeInstalled Outcome = "installed" // every command succeeded
	OutcomeFailed    Outcome = "failed"    // a command failed
)

// Result records one executed command.
type Result struct {
	Command  Command
	Duration time.Duration
	Err      error
}

// Report summarises a flushed stage.
type Report struct {
	Queued  []Command
	Results []Result
	Outcome Outcome
	Err     error
}

// Stage queues installer commands for manifests in a record stream and
// runs them on flush. A Stage serves a single pipeline invocation.
type Stage struct {
	opts   Options
	logger *log.Logger
	queue  []Command
	state  State
	report Report
}

// NewStage creates a stage for one pipeline invocation.
func NewStage(opts Options) *Stage {
	opts.SetDefaults()
	return &Stage{opts: opts, logger: opts.Logger}
}

// State returns the stage's current lifecycle state.
func (s *Stage) State() State { return s.state }

// Queue returns a copy of the commands queued so far.
func (s *Stage) Queue() []Command {
	out := make([]Command, len(s.queue))
	copy(out, s.queue)
	return out
}

// Report returns the flush summary. It is meaningful once State is
// StateDone or StateFailed.
func (s *Stage) Report() Report { return s.report }

// Process forwards f unchanged and queues an installer command if f is a
// recognised manifest.
func (s *Stage) Process(ctx context.Context, f *stream.File, emit stream.Emit) error {
	if s.state != StateCollecting {
		return errors.New(errors.ErrCodeInvalidState, "record received after flush (state %s)", s.state)
	}
	defer emit(f)

	if f == nil || f.Path == "" {
		return nil
	}

	cmd, ok := Resolve(f.Base(), s.opts.Yarn)
	if !ok {
		return nil
	}
	cmd.Args = append(cmd.Args, s.opts.flags(cmd.Name, NormalizeArgs(s.opts.Args, s.logger))...)
	cmd.Dir = f.Dir()

	s.queue = append(s.queue, cmd)
	s.logger.Debug("queued installer", "command", cmd.String(), "dir", cmd.Dir)
	observability.Install().OnQueued(ctx, cmd.String(), cmd.Dir)
	return nil
}

// Flush runs the queued commands in order, or reports them when
// SkipInstall is set. It may be called once.
func (s *Stage) Flush(ctx context.Context) error {
	if s.state != StateCollecting {
		return errors.New(errors.ErrCodeInvalidState, "stage already flushed (state %s)", s.state)
	}
	s.report.Queued = s.Queue()

	if len(s.queue) == 0 {
		s.report.Outcome = OutcomeIdle
		s.state = StateDone
		return nil
	}

	if s.opts.SkipInstall {
		s.logger.Infof("Skipping install. Run `%s` manually", FormatCommands(s.queue))
		lines := make([]string, len(s.queue))
		for i, c := range s.queue {
			lines[i] = c.String()
		}
		observability.Install().OnSkipped(ctx, lines)
		s.report.Outcome = OutcomeSkipped
		s.state = StateDone
		return nil
	}

	s.state = StateRunning
	for _, cmd := range s.queue {
		if err := s.run(ctx, cmd); err != nil {
			s.logger.Errorf("%s, run `%s` manually", errors.UserMessage(err), cmd)
			s.report.Outcome = OutcomeFailed
			s.report.Err = errors.Wrap(errors.ErrCodeInstallFailed, err, "run `%s` manually", cmd)
			s.state = StateFailed
			return s.report.Err
		}
	}

	s.report.Outcome = OutcomeInstalled
	s.state = StateDone
	return nil
}

func (s *Stage) run(ctx context.Context, cmd Command) error {
	line := cmd.String()
	s.logger.Info("running installer", "command", line, "dir", cmd.Dir)
	observability.Install().OnInstallStart(ctx, line, cmd.Dir)

	start := time.Now()
	err := s.opts.Runner.Run(ctx, cmd)
	elapsed := time.Since(start)

	observability.Install().OnInstallComplete(ctx, line, cmd.Dir, elapsed, err)
	s.report.Results = append(s.report.Results, Result{Command: cmd, Duration: elapsed, Err: err})
	if err == nil {
		s.logger.Debug("installer finished", "command", line, "duration", elapsed.Round(time.Millisecond))
	}
	return err
}

var _ stream.Stage = (*Stage)(nil)
