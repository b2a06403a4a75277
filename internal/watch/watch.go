// Package watch converts documents again whenever they change on disk.
//
// A Watcher follows a scan root recursively with fsnotify. Create, write and
// rename events for files accepted by the scan filters are collected, and
// once the tree has been quiet for the debounce interval each pending file
// is converted and written. Every outcome is reported through a callback.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/leonardomso/mdstrip/internal/convert"
	"github.com/leonardomso/mdstrip/internal/scanner"
	"github.com/leonardomso/mdstrip/internal/writer"
)

// DefaultDebounce is how long the tree must be quiet before converting.
const DefaultDebounce = 300 * time.Millisecond

// Event reports the outcome of converting one changed file.
type Event struct {
	Err      error
	Path     string
	Document convert.Document
	Result   *writer.Result // nil when conversion failed
}

// Handler receives watch events. It is called from a single goroutine.
type Handler func(Event)

// Options configures a Watcher.
type Options struct {
	Scan     scanner.ScanOptions
	Mode     convert.Mode
	Writer   *writer.Writer
	Debounce time.Duration
	OnEvent  Handler
	OnError  func(error) // fsnotify errors; optional
}

// Watcher converts files under a root as they change.
type Watcher struct {
	opts    Options
	matcher *scanner.Matcher
	fsw     *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]struct{}
	written map[string]struct{} // targets we produced, ignored when they fire
	flushCh chan struct{}
}

// New creates a Watcher and registers every non-hidden directory under the
// scan root.
func New(opts Options) (*Watcher, error) {
	if opts.Writer == nil {
		return nil, fmt.Errorf("watch: writer is required")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	matcher, err := scanner.NewMatcher(opts.Scan)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	w := &Watcher{
		opts:    opts,
		matcher: matcher,
		fsw:     fsw,
		pending: make(map[string]struct{}),
		written: make(map[string]struct{}),
		flushCh: make(chan struct{}, 1),
	}

	if err := w.addTree(opts.Scan.Root); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	return w, nil
}

// addTree watches root and every non-hidden directory below it. A root that
// is a file is watched through its parent directory.
func (w *Watcher) addTree(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("watching %s: %w", root, err)
	}
	if !info.IsDir() {
		return w.fsw.Add(filepath.Dir(root))
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

// Run processes events until ctx is canceled. It closes the underlying
// fsnotify watcher before returning.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.handle(event) {
				continue
			}
			// Reset the debounce timer
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.opts.Debounce, w.triggerFlush)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			if w.opts.OnError != nil {
				w.opts.OnError(err)
			}

		case <-w.flushCh:
			w.flush(ctx)
		}
	}
}

// handle queues a file event and reports whether anything was queued.
func (w *Watcher) handle(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return false
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		// Renamed away or removed before we looked.
		return false
	}

	if info.IsDir() {
		if event.Has(fsnotify.Create) && !strings.HasPrefix(filepath.Base(event.Name), ".") {
			if err := w.addTree(event.Name); err != nil && w.opts.OnError != nil {
				w.opts.OnError(err)
			}
		}
		return false
	}

	if !w.isSource(event.Name) {
		return false
	}

	w.mu.Lock()
	w.pending[event.Name] = struct{}{}
	w.mu.Unlock()
	return true
}

// isSource reports whether path should be converted. Files we wrote
// ourselves are skipped so a txt source type cannot loop.
func (w *Watcher) isSource(path string) bool {
	if root := w.opts.Scan.Root; root != "" {
		if info, err := os.Stat(root); err == nil && !info.IsDir() {
			return filepath.Clean(path) == filepath.Clean(root)
		}
	}

	if abs, err := filepath.Abs(path); err == nil {
		w.mu.Lock()
		_, ours := w.written[abs]
		w.mu.Unlock()
		if ours {
			return false
		}
	}

	return w.matcher.Match(path)
}

func (w *Watcher) triggerFlush() {
	select {
	case w.flushCh <- struct{}{}:
	default:
		// Flush already pending
	}
}

// flush converts and writes every pending file in path order.
func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	sort.Strings(paths)
	for _, path := range paths {
		if ctx.Err() != nil {
			return
		}
		w.emit(w.process(path))
	}
}

func (w *Watcher) process(path string) Event {
	ev := Event{Path: path}

	doc, err := convert.ConvertFile(path, w.opts.Mode)
	doc.Err = err
	ev.Document = doc
	if err != nil {
		ev.Err = err
		return ev
	}

	result, err := w.opts.Writer.Write(doc)
	ev.Result = result
	if err != nil {
		ev.Err = err
		return ev
	}

	if abs, err := filepath.Abs(result.Target); err == nil {
		w.mu.Lock()
		w.written[abs] = struct{}{}
		w.mu.Unlock()
	}
	return ev
}

func (w *Watcher) emit(ev Event) {
	if w.opts.OnEvent != nil {
		w.opts.OnEvent(ev)
	}
}
