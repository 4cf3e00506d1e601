package stream

import (
	"context"
	"iter"
	"os"
	"path/filepath"

	"github.com/matzehuels/autoinstall/pkg/errors"
)

// File is a single record flowing through a pipeline.
type File struct {
	// Path is the filesystem path of the file. Records with an empty
	// path are legal and are passed through by well-behaved stages.
	Path string

	// Info is the stat result captured by the source, if any.
	Info os.FileInfo
}

// Base returns the final element of the record's path, or "" for a
// record without one.
func (f *File) Base() string {
	if f == nil || f.Path == "" {
		return ""
	}
	return filepath.Base(f.Path)
}

// Dir returns the directory containing the record's path.
func (f *File) Dir() string {
	if f == nil || f.Path == "" {
		return ""
	}
	return filepath.Dir(f.Path)
}

// Emit forwards a record to the next stage.
type Emit func(*File)

// Stage is a pass-through transform.
//
// Process is called once per input record, in order, and never
// concurrently. Flush is called exactly once after the input has been
// drained; an error from Flush is terminal for the pipeline.
type Stage interface {
	Process(ctx context.Context, f *File, emit Emit) error
	Flush(ctx context.Context) error
}

// Source yields records, or an error that aborts the pipeline.
type Source = iter.Seq2[*File, error]

// Slice returns a source that yields the given records in order.
func Slice(files ...*File) Source {
	return func(yield func(*File, error) bool) {
		for _, f := range files {
			if !yield(f, nil) {
				return
			}
		}
	}
}

// Pipe drains src through stages and flushes them in order.
// It returns the records emitted by the last stage.
func Pipe(ctx context.Context, src Source, stages ...Stage) ([]*File, error) {
	var out []*File

	var push func(i int, f *File) error
	push = func(i int, f *File) error {
		if i == len(stages) {
			out = append(out, f)
			return nil
		}
		var emitted []*File
		if err := stages[i].Process(ctx, f, func(g *File) {
			emitted = append(emitted, g)
		}); err != nil {
			return err
		}
		for _, g := range emitted {
			if err := push(i+1, g); err != nil {
				return err
			}
		}
		return nil
	}

	for f, err := range src {
		if err != nil {
			return out, err
		}
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if err := push(0, f); err != nil {
			return out, err
		}
	}

	for _, s := range stages {
		if err := s.Flush(ctx); err != nil {
			return out, err
		}
	}
	return out, nil
}

// Collect drains src into a slice without running any stage.
func Collect(src Source) ([]*File, error) {
	var files []*File
	for f, err := range src {
		if err != nil {
			return files, err
		}
		files = append(files, f)
	}
	return files, nil
}

func statError(path string, err error) error {
	if os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "%s does not exist", path)
	}
	return errors.Wrap(errors.ErrCodeInvalidPath, err, "stat %s", path)
}
