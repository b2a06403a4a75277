package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonardomso/mdstrip/internal/convert"
	"github.com/leonardomso/mdstrip/internal/scanner"
	"github.com/leonardomso/mdstrip/internal/writer"
)

func newTestWatcher(t *testing.T, root string, types ...string) (*Watcher, chan Event) {
	t.Helper()

	events := make(chan Event, 16)
	w, err := New(Options{
		Scan:     scanner.ScanOptions{Root: root, Types: types},
		Mode:     convert.ModeURLs,
		Writer:   writer.New(writer.Options{}),
		Debounce: 20 * time.Millisecond,
		OnEvent:  func(ev Event) { events <- ev },
	})
	require.NoError(t, err)
	return w, events
}

func waitEvent(t *testing.T, events <-chan Event) Event {
	t.Helper()

	select {
	case ev := <-events:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watch event")
		return Event{}
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("RequiresWriter", func(t *testing.T) {
		t.Parallel()

		_, err := New(Options{Scan: scanner.ScanOptions{Root: t.TempDir(), Types: []string{"md"}}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "writer is required")
	})

	t.Run("MissingRoot", func(t *testing.T) {
		t.Parallel()

		_, err := New(Options{
			Scan:   scanner.ScanOptions{Root: filepath.Join(t.TempDir(), "nope"), Types: []string{"md"}},
			Writer: writer.New(writer.Options{}),
		})
		require.Error(t, err)
	})

	t.Run("UnknownType", func(t *testing.T) {
		t.Parallel()

		_, err := New(Options{
			Scan:   scanner.ScanOptions{Root: t.TempDir(), Types: []string{"pdf"}},
			Writer: writer.New(writer.Options{}),
		})
		require.Error(t, err)
	})

	t.Run("DefaultDebounce", func(t *testing.T) {
		t.Parallel()

		w, err := New(Options{
			Scan:   scanner.ScanOptions{Root: t.TempDir(), Types: []string{"md"}},
			Writer: writer.New(writer.Options{}),
		})
		require.NoError(t, err)
		defer w.fsw.Close()
		assert.Equal(t, DefaultDebounce, w.opts.Debounce)
	})
}

func TestHandle(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	md := filepath.Join(root, "a.md")
	other := filepath.Join(root, "a.go")
	require.NoError(t, os.WriteFile(md, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))

	w, _ := newTestWatcher(t, root, "md")
	defer w.fsw.Close()

	assert.True(t, w.handle(fsnotify.Event{Name: md, Op: fsnotify.Write}))
	assert.False(t, w.handle(fsnotify.Event{Name: other, Op: fsnotify.Write}))
	assert.False(t, w.handle(fsnotify.Event{Name: md, Op: fsnotify.Chmod}))
	assert.False(t, w.handle(fsnotify.Event{Name: filepath.Join(root, "missing.md"), Op: fsnotify.Create}))

	assert.Len(t, w.pending, 1)
}

func TestIsSource_SkipsOwnOutput(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	w, _ := newTestWatcher(t, root, "md", "txt")
	defer w.fsw.Close()

	out := filepath.Join(root, "a.txt")
	assert.True(t, w.isSource(out))

	abs, err := filepath.Abs(out)
	require.NoError(t, err)
	w.written[abs] = struct{}{}

	assert.False(t, w.isSource(out))
}

func TestRun_ConvertsChangedFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	w, events := newTestWatcher(t, root, "md")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	source := filepath.Join(root, "note.md")
	require.NoError(t, os.WriteFile(source, []byte("see [docs](https://go.dev) now"), 0o644))

	ev := waitEvent(t, events)
	require.NoError(t, ev.Err)
	assert.Equal(t, source, ev.Path)
	require.NotNil(t, ev.Result)

	data, err := os.ReadFile(filepath.Join(root, "note.txt"))
	require.NoError(t, err)
	assert.Equal(t, "see https://go.dev now\n", string(data))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestRun_WatchesNewDirectories(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	w, events := newTestWatcher(t, root, "md")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	sub := filepath.Join(root, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))

	// Give the watcher a moment to register the new directory.
	require.Eventually(t, func() bool {
		for _, p := range w.fsw.WatchList() {
			if p == sub {
				return true
			}
		}
		return false
	}, 5*time.Second, 10*time.Millisecond)

	source := filepath.Join(sub, "deep.md")
	require.NoError(t, os.WriteFile(source, []byte("![logo](logo.png)"), 0o644))

	ev := waitEvent(t, events)
	require.NoError(t, ev.Err)
	assert.Equal(t, source, ev.Path)
	assert.Equal(t, "logo.png", ev.Document.Text)
}
