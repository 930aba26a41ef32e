package sync

import (
	"context"
	"path"
	"path/filepath"

	"github.com/sdejongh/copyjob/pkg/logging"
	"github.com/sdejongh/copyjob/pkg/storage"
)

// WalkOptions controls how a directory tree is traversed
type WalkOptions struct {
	Recursive      bool
	FollowSymlinks bool
}

// Enumerator lists the files of a directory tree that pass a job's
// filters
type Enumerator struct {
	backend storage.Backend
	logger  logging.Logger
}

// NewEnumerator creates an enumerator reading through backend
func NewEnumerator(backend storage.Backend, logger logging.Logger) *Enumerator {
	if logger == nil {
		logger = logging.Discard
	}
	return &Enumerator{backend: backend, logger: logger}
}

// Enumerate returns the absolute paths of the matching files under root,
// in traversal order
func (e *Enumerator) Enumerate(ctx context.Context, root string, m Matchers, opts WalkOptions) []string {
	var files []string
	e.Walk(ctx, root, m, opts, func(p string) error {
		files = append(files, p)
		return nil
	})
	return files
}

// Walk calls fn for every matching file under root. Directories are never
// passed to fn, and symbolic links only when opts.FollowSymlinks is set.
// Entries that cannot be read are skipped. The walk stops at the first
// error returned by fn or when ctx is done.
func (e *Enumerator) Walk(ctx context.Context, root string, m Matchers, opts WalkOptions, fn func(path string) error) error {
	root = filepath.Clean(root)
	w := &walker{
		Enumerator: e,
		root:       root,
		matchers:   m,
		opts:       opts,
		fn:         fn,
		ancestors:  make(map[string]bool),
	}
	if canonical, err := e.backend.Canonical(ctx, root); err == nil {
		w.ancestors[canonical] = true
	}

	return w.walkDir(ctx, root, "")
}

type walker struct {
	*Enumerator
	root     string
	matchers Matchers
	opts     WalkOptions
	fn       func(path string) error
	// canonical paths of the directories between the root and the one
	// being listed
	ancestors map[string]bool
}

// walkDir lists dir, whose path relative to the root is relDir in
// forward-slash form
func (w *walker) walkDir(ctx context.Context, dir, relDir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := w.backend.ReadDir(ctx, dir)
	if err != nil {
		w.logger.Debug(ctx, "Skipping unreadable directory", logging.Fields{
			"path":  dir,
			"error": err.Error(),
		})
		return nil
	}

	for _, entry := range entries {
		name := filepath.Base(entry.Path)
		info := entry

		if entry.IsSymlink {
			if !w.opts.FollowSymlinks {
				continue
			}
			target, err := w.backend.Stat(ctx, entry.Path)
			if err != nil {
				// Dangling link
				continue
			}
			info = *target
		}

		if info.IsDir {
			if !w.opts.Recursive {
				continue
			}
			childRel := path.Join(relDir, name)
			if w.matchers.ExcludesDir(childRel) {
				w.logger.Debug(ctx, "Pruning excluded directory", logging.Fields{
					"path": entry.Path,
				})
				continue
			}
			canonical, ok := w.enter(ctx, entry.Path)
			if !ok {
				continue
			}
			err := w.walkDir(ctx, entry.Path, childRel)
			delete(w.ancestors, canonical)
			if err != nil {
				return err
			}
			continue
		}

		if !w.matchers.MatchName(name) {
			continue
		}
		if err := w.fn(entry.Path); err != nil {
			return err
		}
	}

	return nil
}

// enter marks dir as being walked and reports whether it is new on the
// current branch. Directories are identified by their canonical path, so
// a link back to an ancestor ends the branch while links to siblings are
// walked like any other directory.
func (w *walker) enter(ctx context.Context, dir string) (string, bool) {
	canonical, err := w.backend.Canonical(ctx, dir)
	if err != nil {
		return "", false
	}
	if w.ancestors[canonical] {
		return "", false
	}
	w.ancestors[canonical] = true
	return canonical, true
}
