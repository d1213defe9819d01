// Package watch reports field values of a save file whenever something rewrites it.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"savedit/editor"
	"savedit/tables"
	"savedit/types"
)

// Snapshot is the state of a save file after a change.
type Snapshot struct {
	Path    string
	Values  map[string]string
	Changed []string // fields whose value differs from the previous snapshot, in layout order
}

type Watcher struct {
	// Settle is how long to wait after a change before reading the file,
	// so that whoever is writing it has a chance to finish.
	Settle time.Duration

	path    string
	layout  *tables.Layout
	log     zerolog.Logger
	watcher *fsnotify.Watcher
	last    map[string]string
}

func New(path string, layout *tables.Layout, log zerolog.Logger) *Watcher {
	return &Watcher{
		Settle: time.Second,
		path:   filepath.Clean(path),
		layout: layout,
		log:    log,
	}
}

// Start begins watching.  Snapshots are sent to out until ctx is done or Stop is called.
// A file that doesn't exist yet is fine; it will be picked up once it is created.
func (w *Watcher) Start(ctx context.Context, out chan<- Snapshot) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = watcher

	w.last = map[string]string{}
	if values, err := w.read(); err == nil {
		w.last = values
	} else if !errors.Is(err, types.ErrNotFound) {
		w.log.Warn().Err(err).Str("path", w.path).Msg("Could not read initial values")
	}

	// The directory is watched rather than the file, because saving (ours included)
	// replaces the file rather than writing into it.
	err = watcher.Add(filepath.Dir(w.path))
	if err != nil {
		watcher.Close()
		return err
	}

	go w.loop(ctx, out)
	return nil
}

func (w *Watcher) Stop() {
	if w.watcher != nil {
		w.watcher.Close()
	}
}

func (w *Watcher) loop(ctx context.Context, out chan<- Snapshot) {
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.log.Debug().Str("event", event.Op.String()).Str("path", event.Name).Msg("Save file touched")

			select {
			case <-ctx.Done():
				return
			case <-time.After(w.Settle):
			}

			snap, ok := w.handle_file()
			if !ok {
				continue
			}
			select {
			case out <- snap:
			case <-ctx.Done():
				return
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error().Err(err).Msg("Watcher error")
		}
	}
}

func (w *Watcher) read() (map[string]string, error) {
	session, err := editor.Open(w.path, w.layout, editor.Options{Logger: w.log})
	if err != nil {
		return nil, err
	}
	if session.Size() < w.layout.MinSize() {
		return nil, fmt.Errorf("%w: %v bytes, layout %v needs %v", errShort, session.Size(), w.layout.Name, w.layout.MinSize())
	}
	return session.Values(), nil
}

// The file is still being written, or was truncated.  Wait for the next event.
var errShort = errors.New("file too short")

// handle_file rereads the file and works out what changed.  ok is false if there is nothing to report.
func (w *Watcher) handle_file() (Snapshot, bool) {
	values, err := w.read()
	if errors.Is(err, errShort) {
		w.log.Debug().Err(err).Str("path", w.path).Msg("Skipping short file")
		return Snapshot{}, false
	}
	if err != nil {
		w.log.Error().Err(err).Str("path", w.path).Msg("Failed to load file")
		return Snapshot{}, false
	}

	changed := []string{}
	for _, name := range w.layout.Names() {
		old, had := w.last[name]
		cur, has := values[name]
		if had != has || old != cur {
			changed = append(changed, name)
		}
	}
	w.last = values
	if len(changed) == 0 {
		return Snapshot{}, false
	}

	return Snapshot{Path: w.path, Values: values, Changed: changed}, true
}
