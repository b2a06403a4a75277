package writer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonardomso/mdstrip/internal/convert"
)

func writeSource(t *testing.T, path string, perm os.FileMode) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("[a](b)"), perm))
	require.NoError(t, os.Chmod(path, perm))
}

func TestNew_DefaultSuffix(t *testing.T) {
	t.Parallel()

	w := New(Options{})
	assert.Equal(t, DefaultSuffix, w.opts.Suffix)
}

func TestTarget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		opts     Options
		source   string
		expected string
	}{
		{
			name:     "NextToSource",
			opts:     Options{},
			source:   filepath.Join("docs", "guide.md"),
			expected: filepath.Join("docs", "guide.txt"),
		},
		{
			name:     "CustomSuffix",
			opts:     Options{Suffix: ".plain.txt"},
			source:   filepath.Join("docs", "guide.md"),
			expected: filepath.Join("docs", "guide.plain.txt"),
		},
		{
			name:     "MirrorsIntoOutDir",
			opts:     Options{OutDir: "out", Root: "docs"},
			source:   filepath.Join("docs", "api", "ref.md"),
			expected: filepath.Join("out", "api", "ref.txt"),
		},
		{
			name:     "OutsideRootUsesBaseName",
			opts:     Options{OutDir: "out", Root: "docs"},
			source:   filepath.Join("other", "x.md"),
			expected: filepath.Join("out", "x.txt"),
		},
		{
			name:     "NoRoot",
			opts:     Options{OutDir: "out"},
			source:   filepath.Join("docs", "x.html"),
			expected: filepath.Join("out", "x.txt"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			target, err := New(tt.opts).Target(tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, target)
		})
	}
}

func TestTarget_RefusesSource(t *testing.T) {
	t.Parallel()

	_, err := New(Options{}).Target(filepath.Join("notes", "todo.txt"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSourceOverwrite))
}

func TestWrite(t *testing.T) {
	t.Parallel()

	t.Run("WritesWithSourcePermissions", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		source := filepath.Join(dir, "README.md")
		writeSource(t, source, 0o640)

		result, err := New(Options{}).Write(convert.Document{FilePath: source, Text: "hello b"})
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(dir, "README.txt"), result.Target)
		assert.Equal(t, 8, result.Bytes)
		assert.False(t, result.Unchanged)

		data, err := os.ReadFile(result.Target)
		require.NoError(t, err)
		assert.Equal(t, "hello b\n", string(data))

		info, err := os.Stat(result.Target)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
	})

	t.Run("CreatesMirroredDirectories", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		root := filepath.Join(dir, "docs")
		source := filepath.Join(root, "api", "ref.md")
		writeSource(t, source, 0o644)
		out := filepath.Join(dir, "out")

		w := New(Options{OutDir: out, Root: root})
		result, err := w.Write(convert.Document{FilePath: source, Text: "ref\n"})
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(out, "api", "ref.txt"), result.Target)
		assert.FileExists(t, result.Target)
	})

	t.Run("UnchangedIsNotRewritten", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		source := filepath.Join(dir, "a.md")
		writeSource(t, source, 0o644)
		w := New(Options{})
		doc := convert.Document{FilePath: source, Text: "same"}

		_, err := w.Write(doc)
		require.NoError(t, err)

		result, err := w.Write(doc)
		require.NoError(t, err)
		assert.True(t, result.Unchanged)
	})

	t.Run("FailedDocumentSkipped", func(t *testing.T) {
		t.Parallel()

		doc := convert.Document{FilePath: "a.md", Err: errors.New("boom")}

		result, err := New(Options{}).Write(doc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
		assert.Empty(t, result.Target)
	})

	t.Run("MissingSourceUsesDefaultPermissions", func(t *testing.T) {
		t.Parallel()

		out := t.TempDir()
		w := New(Options{OutDir: out})

		result, err := w.Write(convert.Document{FilePath: "stdin.md", Text: "x"})
		require.NoError(t, err)

		info, err := os.Stat(result.Target)
		require.NoError(t, err)
		assert.Equal(t, defaultPerm, info.Mode().Perm())
	})
}

func TestWriteAllAndSummary(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := filepath.Join(dir, "a.md")
	b := filepath.Join(dir, "b.md")
	writeSource(t, a, 0o644)
	writeSource(t, b, 0o644)

	results := New(Options{}).WriteAll([]convert.Document{
		{FilePath: a, Text: "a"},
		{FilePath: b, Text: "b"},
		{FilePath: filepath.Join(dir, "c.md"), Err: errors.New("reading file")},
	})

	require.Len(t, results, 3)
	assert.Equal(t, 2, Written(results))

	summary := Summary(results)
	assert.Contains(t, summary, "Wrote 2 files.")
	assert.Contains(t, summary, "Errors:")
	assert.Contains(t, summary, "reading file")
}

func TestSummary_Empty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "No files written.", Summary(nil))
}
