package stream

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/matzehuels/autoinstall/pkg/errors"
)

// DefaultExcludes are directory names never descended into by Walk.
var DefaultExcludes = []string{"node_modules", "bower_components", ".git", ".hg", ".svn"}

// WalkOptions configures directory traversal.
type WalkOptions struct {
	// Exclude lists extra base-name glob patterns (filepath.Match syntax).
	// Matching directories are skipped entirely, matching files are not
	// yielded. DefaultExcludes always apply.
	Exclude []string
}

// Validate checks that every exclude pattern is well formed.
func (o WalkOptions) Validate() error {
	for _, p := range o.Exclude {
		if err := errors.ValidatePattern(p); err != nil {
			return err
		}
	}
	return nil
}

func (o WalkOptions) excluded(name string) bool {
	for _, p := range DefaultExcludes {
		if name == p {
			return true
		}
	}
	for _, p := range o.Exclude {
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
	}
	return false
}

// Walk yields every regular file under root in lexical order.
func Walk(root string, opts WalkOptions) Source {
	return func(yield func(*File, error) bool) {
		if err := opts.Validate(); err != nil {
			yield(nil, err)
			return
		}
		stop := false
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && opts.excluded(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() || opts.excluded(d.Name()) {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			if !yield(&File{Path: path, Info: info}, nil) {
				stop = true
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil && !stop {
			yield(nil, statError(root, err))
		}
	}
}

// Paths yields a record for each file path and walks each directory path.
func Paths(paths []string, opts WalkOptions) Source {
	return func(yield func(*File, error) bool) {
		for _, p := range paths {
			if err := errors.ValidatePath(p); err != nil {
				yield(nil, err)
				return
			}
			info, err := os.Stat(p)
			if err != nil {
				yield(nil, statError(p, err))
				return
			}
			if !info.IsDir() {
				if !yield(&File{Path: p, Info: info}, nil) {
					return
				}
				continue
			}
			for f, err := range Walk(p, opts) {
				if !yield(f, err) || err != nil {
					return
				}
			}
		}
	}
}
