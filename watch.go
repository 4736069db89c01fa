// Copyright (c) 2025 HelixDB and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package driverconf

import (
	"context"

	"github.com/helixdb/driverconf/slogfield"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
)

// Watch blocks watching the given files and triggers a reload whenever
// one of them changes. Reload failures do not stop the watch; they are
// reported to the observer registered with [OnReloadError].
//
// Watch returns when ctx is cancelled, or with an error if the
// underlying file watcher cannot be started.
func (l *Loader) Watch(ctx context.Context, paths ...string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, path := range paths {
		err = watcher.Add(path)
		if err != nil {
			return err
		}
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		for {
			select {
			case <-egCtx.Done():
				return nil
			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				l.log.InfoContext(egCtx, "config file changed", slogfield.String("file", ev.Name))
				err := l.Reload(egCtx)
				if err != nil {
					l.reportReloadError(err)
				}
			}
		}
	})
	eg.Go(func() error {
		for {
			select {
			case <-egCtx.Done():
				return nil
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				l.reportReloadError(err)
			}
		}
	})
	return eg.Wait()
}
