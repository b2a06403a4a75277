// Package scanner finds the documents mdstrip converts.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// typeExtensions maps a document type name to the file extensions it covers.
var typeExtensions = map[string][]string{
	"md":   {".md", ".mdx", ".markdown"},
	"txt":  {".txt"},
	"html": {".html", ".htm"},
}

// SupportedTypes returns the sorted list of type names accepted by --types.
func SupportedTypes() []string {
	types := make([]string, 0, len(typeExtensions))
	for t := range typeExtensions {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// ExtensionsForTypes returns the file extensions for the given type names.
// Returns an error if any type name is not supported.
func ExtensionsForTypes(types []string) ([]string, error) {
	var exts []string
	for _, t := range types {
		e, ok := typeExtensions[strings.ToLower(strings.TrimSpace(t))]
		if !ok {
			return nil, fmt.Errorf("unsupported file type: %s (supported: %s)",
				t, strings.Join(SupportedTypes(), ", "))
		}
		exts = append(exts, e...)
	}
	return exts, nil
}

// FindFiles walks a directory and returns all files matching the given extensions.
// Extensions should include the leading dot (e.g., ".md").
// Hidden directories such as .git are skipped. If root is a regular file it is
// returned on its own when its extension matches.
func FindFiles(root string, extensions []string) ([]string, error) {
	if len(extensions) == 0 {
		return nil, nil
	}

	wanted := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		wanted[strings.ToLower(ext)] = true
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if wanted[strings.ToLower(filepath.Ext(root))] {
			return []string{root}, nil
		}
		return nil, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		if wanted[strings.ToLower(filepath.Ext(d.Name()))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// FindFilesByTypes walks a directory and returns all files of the given type names.
func FindFilesByTypes(root string, types []string) ([]string, error) {
	if len(types) == 0 {
		return nil, nil
	}

	extensions, err := ExtensionsForTypes(types)
	if err != nil {
		return nil, err
	}
	return FindFiles(root, extensions)
}

// ScanOptions holds options for scanning files with filtering.
type ScanOptions struct {
	// Root is the directory (or single file) to scan.
	Root string

	// Types are the document types to include (e.g., "md", "html").
	Types []string

	// Include patterns (glob) - if set, only matching files are included.
	Include []string

	// Exclude patterns (glob) - matching files are excluded.
	Exclude []string
}

// FindFilesWithOptions scans for files with include/exclude filtering.
func FindFilesWithOptions(opts ScanOptions) ([]string, error) {
	files, err := FindFilesByTypes(opts.Root, opts.Types)
	if err != nil {
		return nil, err
	}

	if len(opts.Include) > 0 {
		files, err = filterByGlobPatterns(files, opts.Root, opts.Include, true)
		if err != nil {
			return nil, err
		}
	}

	if len(opts.Exclude) > 0 {
		files, err = filterByGlobPatterns(files, opts.Root, opts.Exclude, false)
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

// Matcher decides whether a single path passes a ScanOptions filter.
// The watcher uses it for files that appear after the initial scan.
type Matcher struct {
	root       string
	extensions map[string]bool
	include    []glob.Glob
	exclude    []glob.Glob
}

// NewMatcher compiles the type and glob filters of opts.
func NewMatcher(opts ScanOptions) (*Matcher, error) {
	exts, err := ExtensionsForTypes(opts.Types)
	if err != nil {
		return nil, err
	}

	m := &Matcher{root: opts.Root, extensions: make(map[string]bool, len(exts))}
	for _, e := range exts {
		m.extensions[e] = true
	}
	if m.include, err = compileGlobs(opts.Include); err != nil {
		return nil, err
	}
	if m.exclude, err = compileGlobs(opts.Exclude); err != nil {
		return nil, err
	}
	return m, nil
}

// Match reports whether path would have been returned by FindFilesWithOptions.
func (m *Matcher) Match(path string) bool {
	if !m.extensions[strings.ToLower(filepath.Ext(path))] {
		return false
	}

	rel := relativeSlashPath(m.root, path)
	for _, dir := range strings.Split(filepath.ToSlash(filepath.Dir(rel)), "/") {
		if strings.HasPrefix(dir, ".") && dir != "." && dir != ".." {
			return false
		}
	}

	if len(m.include) > 0 && !matchesAnyGlob(rel, m.include) {
		return false
	}
	return !matchesAnyGlob(rel, m.exclude)
}

// filterByGlobPatterns filters files by glob patterns.
// If include=true, keeps only files matching any pattern.
// If include=false, removes files matching any pattern.
func filterByGlobPatterns(files []string, root string, patterns []string, include bool) ([]string, error) {
	compiled, err := compileGlobs(patterns)
	if err != nil {
		return nil, err
	}

	result := make([]string, 0, len(files))
	for _, f := range files {
		if matchesAnyGlob(relativeSlashPath(root, f), compiled) == include {
			result = append(result, f)
		}
	}
	return result, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", p, err)
		}
		compiled = append(compiled, g)
	}
	return compiled, nil
}

// relativeSlashPath returns path relative to root with forward slashes,
// so patterns behave the same on every platform.
func relativeSlashPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	if rel == "." {
		// root is the file itself
		rel = filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}

// matchesAnyGlob checks if a path matches any of the compiled glob patterns.
func matchesAnyGlob(path string, patterns []glob.Glob) bool {
	for _, g := range patterns {
		if g.Match(path) {
			return true
		}
	}
	return false
}
