package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce collapses the burst of events editors emit for one save.
const DefaultDebounce = 200 * time.Millisecond

// WatchOption configures Watch.
type WatchOption func(*watchConfig)

type watchConfig struct {
	debounce time.Duration
	onArmed  func()
}

// WithDebounce sets how long the file must stay quiet before it is reloaded.
// Non-positive values keep DefaultDebounce.
func WithDebounce(d time.Duration) WatchOption {
	return func(c *watchConfig) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// WithArmed registers fn to run once the directory watch is in place.
// Changes made before that point are not observed.
func WithArmed(fn func()) WatchOption {
	return func(c *watchConfig) { c.onArmed = fn }
}

// Watch reloads configPath whenever it changes and passes each valid result to onChange.
// The parent directory is watched so atomic rename-on-save is seen.
// Invalid files are logged and skipped; the last good configuration stays in effect.
// Watch blocks until ctx is canceled.
func Watch(ctx context.Context, configPath string, logger *zap.Logger, onChange func(Config), opts ...WatchOption) error {
	wc := watchConfig{debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(&wc)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return fmt.Errorf("resolve absolute path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = fsw.Close() }()

	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(absPath), err)
	}

	timer := time.NewTimer(wc.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	if wc.onArmed != nil {
		wc.onArmed()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != absPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(wc.debounce)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Config watcher error", zap.Error(err))
		case <-timer.C:
			cfg, err := LoadFile(absPath)
			if err != nil {
				logger.Warn("Ignoring invalid config change", zap.String("path", absPath), zap.Error(err))
				continue
			}
			logger.Info("Config reloaded", zap.String("path", absPath))
			onChange(cfg)
		}
	}
}
