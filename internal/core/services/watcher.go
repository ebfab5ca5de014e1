package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/custodia-labs/bmeconv/internal/core/domain"
	"github.com/custodia-labs/bmeconv/internal/core/ports/driving"
)

// Ensure DirWatcher implements the interface.
var _ driving.Watcher = (*DirWatcher)(nil)

// DefaultSettle is how long a file must stay unchanged before it is converted.
const DefaultSettle = 500 * time.Millisecond

// DirWatcher converts XML files dropped into a directory.
// Files are converted one at a time, once writes to them have settled.
type DirWatcher struct {
	converter driving.ConversionService
	settle    time.Duration
	log       *zap.Logger

	// converted receives each result; used by tests.
	converted func(*domain.Result)
}

// NewDirWatcher creates a watcher. A settle of zero uses DefaultSettle.
func NewDirWatcher(converter driving.ConversionService, settle time.Duration, log *zap.Logger) *DirWatcher {
	if settle <= 0 {
		settle = DefaultSettle
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &DirWatcher{converter: converter, settle: settle, log: log}
}

// Watch blocks until ctx is cancelled. Files already present are not converted.
func (w *DirWatcher) Watch(ctx context.Context, dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.log.Info("Watching directory", zap.String("dir", dir))

	ticker := time.NewTicker(w.settle / 2)
	defer ticker.Stop()

	pending := make(map[string]time.Time)
	for {
		select {
		case <-ctx.Done():
			w.log.Info("Watch stopped", zap.Int("pending", len(pending)))
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if path, ok := handleFsEvent(event); ok {
				pending[path] = time.Now()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("Watch error", zap.Error(err))

		case now := <-ticker.C:
			for _, path := range settled(pending, now, w.settle) {
				delete(pending, path)
				w.convert(ctx, path)
			}
		}
	}
}

func (w *DirWatcher) convert(ctx context.Context, path string) {
	if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
		return
	}
	result, err := w.converter.Convert(ctx, path)
	if result == nil {
		return
	}
	if err != nil {
		w.log.Warn("Dropped file not converted", zap.String("file", path), zap.Error(err))
	}
	if w.converted != nil {
		w.converted(result)
	}
}

// settled returns the pending paths untouched for at least settle, sorted.
func settled(pending map[string]time.Time, now time.Time, settle time.Duration) []string {
	var ready []string
	for path, last := range pending {
		if now.Sub(last) >= settle {
			ready = append(ready, path)
		}
	}
	sort.Strings(ready)
	return ready
}

// handleFsEvent returns the path to convert for a create or write of a
// visible .xml file.
func handleFsEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if isHidden(event.Name) {
		return "", false
	}
	if !strings.EqualFold(filepath.Ext(event.Name), ".xml") {
		return "", false
	}
	return event.Name, true
}

// isHidden checks if a file name starts with a dot.
func isHidden(path string) bool {
	name := filepath.Base(path)
	return name != "." && name != ".." && strings.HasPrefix(name, ".")
}
