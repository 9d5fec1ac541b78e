package am

import (
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/kin/errors"
	"github.com/teranos/kin/logger"
)

// DefaultDebounce is how long the watcher waits after the last write before
// reloading. Editors often save in several steps.
const DefaultDebounce = 500 * time.Millisecond

// ReloadCallback receives each successfully validated reload. An error is
// logged and does not stop later callbacks.
type ReloadCallback func(*Config) error

// ConfigWatcher reloads one config file when it changes on disk and hands the
// new Config to its callbacks. An invalid file is logged and skipped, so
// callbacks only ever see configs that passed Validate.
type ConfigWatcher struct {
	path string
	fs   *fsnotify.Watcher
	load func() (*Config, error)
	log  *zap.SugaredLogger

	mu        sync.Mutex
	callbacks []ReloadCallback
	debounce  time.Duration
	pending   *time.Timer

	ownWrite atomic.Bool
	stopOnce sync.Once
	done     chan struct{}
}

// NewConfigWatcher watches path. The parent directory is watched rather than
// the file, so a save that replaces the file is still seen.
func NewConfigWatcher(path string) (*ConfigWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, errors.Wrapf(err, "failed to watch config file %s", path)
	}

	return &ConfigWatcher{
		path:     filepath.Clean(path),
		fs:       fsw,
		load:     func() (*Config, error) { return LoadFromFile(path) },
		log:      logger.ComponentLogger("am"),
		debounce: DefaultDebounce,
		done:     make(chan struct{}),
	}, nil
}

// SetDebounce overrides DefaultDebounce.
func (cw *ConfigWatcher) SetDebounce(d time.Duration) {
	cw.mu.Lock()
	cw.debounce = d
	cw.mu.Unlock()
}

// OnReload adds a callback. Callbacks run in registration order.
func (cw *ConfigWatcher) OnReload(callback ReloadCallback) {
	cw.mu.Lock()
	cw.callbacks = append(cw.callbacks, callback)
	cw.mu.Unlock()
}

// MarkOwnWrite suppresses the reload for the next change, which kin itself
// is about to make (e.g. `kin am init --force`).
func (cw *ConfigWatcher) MarkOwnWrite() {
	cw.ownWrite.Store(true)
}

func (cw *ConfigWatcher) checkOwnWrite() bool {
	return cw.ownWrite.CompareAndSwap(true, false)
}

// Start watches in the background until Stop.
func (cw *ConfigWatcher) Start() {
	go cw.loop()
}

func (cw *ConfigWatcher) loop() {
	for {
		select {
		case ev, ok := <-cw.fs.Events:
			if !ok {
				return
			}
			if !cw.relevant(ev) {
				continue
			}
			if cw.checkOwnWrite() {
				cw.log.Debugw("Ignoring own config write", logger.FieldFile, ev.Name)
				continue
			}
			cw.log.Infow("Config file changed", logger.FieldFile, ev.Name, logger.FieldOperation, ev.Op.String())
			cw.schedule()

		case err, ok := <-cw.fs.Errors:
			if !ok {
				return
			}
			cw.log.Warnw("Config watcher error", logger.FieldError, err)

		case <-cw.done:
			return
		}
	}
}

// relevant keeps writes and creates of the watched file, ignoring siblings
// in the same directory and rotated backups.
func (cw *ConfigWatcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != cw.path || isBackupFile(ev.Name) {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)
}

func (cw *ConfigWatcher) schedule() {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if cw.pending != nil {
		cw.pending.Stop()
	}
	cw.pending = time.AfterFunc(cw.debounce, func() {
		if err := cw.reload(); err != nil {
			cw.log.Errorw("Config reload failed", logger.FieldFile, cw.path, logger.FieldError, err)
		}
	})
}

func (cw *ConfigWatcher) reload() error {
	cfg, err := cw.load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "reloaded config is invalid, keeping the previous one")
	}

	Reset()
	cw.log.Infow("Config reloaded", logger.FieldFile, cw.path)

	cw.mu.Lock()
	callbacks := append([]ReloadCallback(nil), cw.callbacks...)
	cw.mu.Unlock()

	for _, cb := range callbacks {
		if err := cb(cfg); err != nil {
			cw.log.Warnw("Config reload callback failed", logger.FieldError, err)
		}
	}
	return nil
}

// Stop cancels any pending reload and closes the fsnotify watcher. It is safe
// to call more than once.
func (cw *ConfigWatcher) Stop() error {
	var err error
	cw.stopOnce.Do(func() {
		cw.mu.Lock()
		if cw.pending != nil {
			cw.pending.Stop()
		}
		cw.mu.Unlock()

		close(cw.done)
		err = cw.fs.Close()
	})
	return err
}

// isBackupFile matches the rotated backups written by WriteDefault
// (.back1 to .back3).
func isBackupFile(path string) bool {
	ext := filepath.Ext(path)
	return strings.HasPrefix(ext, ".back") && len(ext) == len(".back1")
}

var (
	globalWatcherMu sync.Mutex
	globalWatcher   *ConfigWatcher
)

// SetGlobalWatcher registers the watcher that kin's own config writes should
// suppress. `kin serve` sets it.
func SetGlobalWatcher(w *ConfigWatcher) {
	globalWatcherMu.Lock()
	globalWatcher = w
	globalWatcherMu.Unlock()
}

// GetGlobalWatcher returns the watcher registered by SetGlobalWatcher, or nil.
func GetGlobalWatcher() *ConfigWatcher {
	globalWatcherMu.Lock()
	defer globalWatcherMu.Unlock()
	return globalWatcher
}

func markOwnWrite() {
	if w := GetGlobalWatcher(); w != nil {
		w.MarkOwnWrite()
	}
}
