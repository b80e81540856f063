package sources

import (
	"context"

	"github.com/fsnotify/fsnotify"

	"github.com/odvcencio/dispatch/pkg/errors"
)

// FileChange is one filesystem notification.
type FileChange struct {
	Path string
	Op   fsnotify.Op
}

// Removed reports whether the path was removed or renamed away.
func (c FileChange) Removed() bool {
	return c.Op.Has(fsnotify.Remove) || c.Op.Has(fsnotify.Rename)
}

// FileChanges watches path, a file or a directory, and maps each change
// through toAction. Watcher errors are reported through onError and the
// watch continues.
func FileChanges[A any](path string, toAction func(FileChange) (A, bool), onError ErrorFunc[A], opts ...Option) Connect[A] {
	o := buildOptions(opts)
	logger := o.logger.With("source", "files", "path", path)

	return func(ctx context.Context) <-chan A {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return failed(errors.Wrap(err, errors.ErrCodeSourceConnect, "creating watcher"), onError, logger)
		}
		if err := watcher.Add(path); err != nil {
			watcher.Close()
			return failed(errors.Wrap(err, errors.ErrCodeSourceConnect, "watching path").WithContext("path", path), onError, logger)
		}

		out := make(chan A, o.buffer)
		go func() {
			defer close(out)
			defer watcher.Close()
			for {
				select {
				case <-ctx.Done():
					return
				case ev, ok := <-watcher.Events:
					if !ok {
						return
					}
					a, ok := toAction(FileChange{Path: ev.Name, Op: ev.Op})
					if !ok {
						continue
					}
					if !send(ctx, out, a) {
						return
					}
				case err, ok := <-watcher.Errors:
					if !ok {
						return
					}
					report(ctx, out, errors.Wrap(err, errors.ErrCodeSourceRead, "watch error").WithContext("path", path), onError, logger)
				}
			}
		}()
		return out
	}
}
