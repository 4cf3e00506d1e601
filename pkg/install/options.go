package install

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/autoinstall/pkg/errors"
)

// Options is the per-pipeline configuration snapshot of a Stage.
type Options struct {
	// Yarn resolves package.json to yarn instead of npm.
	Yarn bool

	// Production appends --production.
	Production bool

	// IgnoreScripts appends --ignore-scripts.
	IgnoreScripts bool

	// Args holds extra raw flags: a string, a []string, or a []any whose
	// elements are all strings. Any other value is logged and ignored.
	Args any

	// AllowRoot appends --allow-root to bower commands.
	AllowRoot bool

	// NoOptional appends --no-optional to npm commands.
	NoOptional bool

	// SkipInstall reports queued commands at flush time instead of running them.
	SkipInstall bool

	// Runner executes commands. Defaults to an ExecRunner on the host's stdio.
	Runner Runner

	// Logger receives stage output. Defaults to a discarding logger.
	Logger *log.Logger
}

// SetDefaults fills the runtime fields left nil.
func (o *Options) SetDefaults() {
	if o.Runner == nil {
		o.Runner = NewExecRunner(nil, nil)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// flags returns the option-derived flags for a command named name,
// in their fixed order.
func (o *Options) flags(name string, extra []string) []string {
	var out []string
	if o.Production {
		out = append(out, FlagProduction)
	}
	if o.IgnoreScripts {
		out = append(out, FlagIgnoreScripts)
	}
	out = append(out, extra...)
	if name == CmdBower && o.AllowRoot {
		out = append(out, FlagAllowRoot)
	}
	if name == CmdNPM && o.NoOptional {
		out = append(out, FlagNoOptional)
	}
	return out
}

// FlagForm prefixes arg with hyphens until it starts with "--".
func FlagForm(arg string) string {
	for !strings.HasPrefix(arg, "--") {
		arg = "-" + arg
	}
	return arg
}

// ParseArgs converts a raw Args value into a list of strings.
// nil and "" yield no arguments.
func ParseArgs(v any) ([]string, error) {
	var raw []string
	switch a := v.(type) {
	case nil:
		return nil, nil
	case string:
		if a == "" {
			return nil, nil
		}
		raw = []string{a}
	case []string:
		raw = a
	case []any:
		raw = make([]string, 0, len(a))
		for i, e := range a {
			s, ok := e.(string)
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidArgs, "args[%d] is %T, want string", i, e)
			}
			raw = append(raw, s)
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidArgs, "arguments are not passed in a valid format: %s", describe(v))
	}
	for _, s := range raw {
		if err := errors.ValidateArg(s); err != nil {
			return nil, err
		}
	}
	return raw, nil
}

// NormalizeArgs parses v and puts every element in flag form.
// A malformed value is logged as a warning and yields no arguments.
func NormalizeArgs(v any, logger *log.Logger) []string {
	raw, err := ParseArgs(v)
	if err != nil {
		if logger != nil {
			logger.Warn(errors.UserMessage(err))
		}
		return nil
	}
	out := make([]string, len(raw))
	for i, s := range raw {
		out[i] = FlagForm(s)
	}
	return out
}

func describe(v any) string {
	return fmt.Sprintf("%v (%T)", v, v)
}
