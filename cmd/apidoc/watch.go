package main

import (
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceTime = 100 * time.Millisecond

// watcher reports writes to a file, debounced. A nil value on Updates means
// the file changed.
type watcher struct {
	fs    *fsnotify.Watcher
	timer *time.Timer

	updates chan error
}

func watchFile(file string) (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(file); err != nil {
		_ = fw.Close()
		return nil, err
	}
	w := &watcher{fs: fw, updates: make(chan error, 1)}
	go w.run()
	return w, nil
}

// Updates receives one value per burst of writes, or a watch error.
func (w *watcher) Updates() <-chan error {
	return w.updates
}

func (w *watcher) Close() error {
	return w.fs.Close()
}

func (w *watcher) run() {
	for {
		select {
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.send(err)
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			// Editors often replace the file instead of writing it.
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				w.debounce()
			}
		}
	}
}

func (w *watcher) debounce() {
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(debounceTime, func() { w.send(nil) })
}

func (w *watcher) send(err error) {
	select {
	case w.updates <- err:
	default:
	}
}
