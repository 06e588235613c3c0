package http

import (
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/turtacn/textselect/internal/engine"
	"github.com/turtacn/textselect/internal/monitoring/logging"
)

// retireDelay is how long a replaced container stays alive after a swap so
// that requests which grabbed it just before the swap can finish.
const retireDelay = 5 * time.Second

// ReloadingProvider serves the current container and rebuilds it whenever
// the model image file changes on disk.  The watch covers the image's
// directory, not the file itself, because deploy tooling typically replaces
// the file by rename.
//
// A rebuild that yields a not-initialized container is discarded: the last
// good model keeps serving, and the failure surfaces in logs and the load
// metric.
type ReloadingProvider struct {
	path     string
	debounce time.Duration
	opts     []engine.Option
	log      logging.Logger

	current atomic.Pointer[engine.Container]
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewReloadingProvider loads the initial container and starts watching path.
func NewReloadingProvider(path string, debounce time.Duration, log logging.Logger, opts ...engine.Option) (*ReloadingProvider, error) {
	if log == nil {
		log = logging.NewNop()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	p := &ReloadingProvider{
		path:     path,
		debounce: debounce,
		opts:     opts,
		log:      log.Named("reload"),
		watcher:  watcher,
		done:     make(chan struct{}),
	}
	p.current.Store(engine.NewFromPath(path, opts...))
	go p.watch()
	return p, nil
}

// Current returns the container serving the next request.
func (p *ReloadingProvider) Current() *engine.Container {
	return p.current.Load()
}

// Close stops the watcher and closes the current container.
func (p *ReloadingProvider) Close() {
	p.watcher.Close()
	<-p.done
	p.current.Load().Close()
}

func (p *ReloadingProvider) watch() {
	defer close(p.done)

	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case ev, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(p.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			// Debounce: deploys produce bursts of events for one new image.
			if timer == nil {
				timer = time.NewTimer(p.debounce)
			} else {
				timer.Reset(p.debounce)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			p.reload()

		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			p.log.Warn("model watcher error", logging.Err(err))
		}
	}
}

func (p *ReloadingProvider) reload() {
	next := engine.NewFromPath(p.path, p.opts...)
	if !next.IsInitialized() {
		p.log.Warn("model reload produced an unusable container, keeping previous model",
			logging.String("path", p.path))
		next.Close()
		return
	}

	prev := p.current.Swap(next)
	p.log.Info("model reloaded",
		logging.String("path", p.path),
		logging.String("instance_id", next.InstanceID()))
	if prev != nil {
		time.AfterFunc(retireDelay, prev.Close)
	}
}
