package cmd

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/leonardomso/mdstrip/internal/alttext"
	"github.com/leonardomso/mdstrip/internal/config"
	"github.com/leonardomso/mdstrip/internal/convert"
	"github.com/leonardomso/mdstrip/internal/filter"
	"github.com/leonardomso/mdstrip/internal/output"
	"github.com/leonardomso/mdstrip/internal/scanner"
	"github.com/leonardomso/mdstrip/internal/writer"
)

// stdinArg is the path argument that reads the document from stdin.
const stdinArg = "-"

// LoadedConfig wraps a loaded configuration and provides helper methods
// for getting effective values that respect CLI overrides.
type LoadedConfig struct {
	cfg      *config.Config
	noConfig bool
}

// LoadConfig loads the configuration file unless noConfig is true.
// Returns an error if the config file exists but is invalid.
func LoadConfig(noConfig bool) (*LoadedConfig, error) {
	if noConfig {
		return &LoadedConfig{cfg: &config.Config{}, noConfig: true}, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &LoadedConfig{cfg: cfg}, nil
}

// Config returns the underlying config for direct access.
func (lc *LoadedConfig) Config() *config.Config {
	return lc.cfg
}

// GetTypes returns the effective document types.
// CLI types override config if they differ from the CLI default.
func (lc *LoadedConfig) GetTypes(cliTypes, cliDefault []string) []string {
	if !slices.Equal(cliTypes, cliDefault) {
		return cliTypes // CLI explicitly set
	}
	if lc.cfg.HasTypes() {
		return lc.cfg.Types
	}
	return cliDefault
}

// GetMode returns the effective conversion mode.
// CLI overrides config if set.
func (lc *LoadedConfig) GetMode(cliValue string) (convert.Mode, error) {
	switch {
	case cliValue != "":
		return convert.ParseMode(cliValue)
	case lc.cfg.Convert.Mode != "":
		return convert.ParseMode(lc.cfg.Convert.Mode)
	default:
		return convert.DefaultMode, nil
	}
}

// GetConcurrency returns the effective concurrency.
// CLI overrides config if it differs from the default.
func (lc *LoadedConfig) GetConcurrency(cliValue, defaultValue int) int {
	if cliValue != defaultValue {
		return cliValue // CLI explicitly set
	}
	if lc.cfg.Convert.Concurrency > 0 {
		return lc.cfg.Convert.Concurrency
	}
	return defaultValue
}

// GetOutputFormat returns the effective output format.
// CLI overrides config if set.
func (lc *LoadedConfig) GetOutputFormat(cliValue string) string {
	if cliValue != "" {
		return cliValue
	}
	return lc.cfg.Output.Format
}

// GetShowStats returns the effective showStats setting.
// CLI true overrides config.
func (lc *LoadedConfig) GetShowStats(cliValue bool) bool {
	if cliValue {
		return true
	}
	return lc.cfg.Output.ShowStats
}

// GetSuffix returns the effective output suffix for written files.
func (lc *LoadedConfig) GetSuffix(cliValue string) string {
	if cliValue != "" {
		return cliValue
	}
	if lc.cfg.Write.Suffix != "" {
		return lc.cfg.Write.Suffix
	}
	return writer.DefaultSuffix
}

// GetOutDir returns the effective output directory for written files.
func (lc *LoadedConfig) GetOutDir(cliValue string) string {
	if cliValue != "" {
		return cliValue
	}
	return lc.cfg.Write.OutDir
}

// BuildScanOptions creates scanner.ScanOptions from config, path and CLI
// globs. CLI include/exclude patterns are added to the configured ones.
func (lc *LoadedConfig) BuildScanOptions(
	path string, cliTypes, cliDefaultTypes, cliInclude, cliExclude []string,
) scanner.ScanOptions {
	return scanner.ScanOptions{
		Root:    path,
		Types:   lc.GetTypes(cliTypes, cliDefaultTypes),
		Include: append(slices.Clone(lc.cfg.Scan.Include), cliInclude...),
		Exclude: append(slices.Clone(lc.cfg.Scan.Exclude), cliExclude...),
	}
}

// BuildConvertOptions creates convert.Options from config and CLI values.
func (lc *LoadedConfig) BuildConvertOptions(cliMode string, cliConcurrency int) (convert.Options, error) {
	mode, err := lc.GetMode(cliMode)
	if err != nil {
		return convert.Options{}, err
	}

	return convert.DefaultOptions().
		WithMode(mode).
		WithConcurrency(lc.GetConcurrency(cliConcurrency, convert.DefaultConcurrency)), nil
}

// BuildWriter creates a writer for documents found under root.
func (lc *LoadedConfig) BuildWriter(root, cliSuffix, cliOutDir string) (*writer.Writer, error) {
	suffix := lc.GetSuffix(cliSuffix)
	if !strings.HasPrefix(suffix, ".") {
		return nil, fmt.Errorf("suffix must start with a dot, got %q", suffix)
	}

	return writer.New(writer.Options{
		Suffix: suffix,
		OutDir: lc.GetOutDir(cliOutDir),
		Root:   root,
	}), nil
}

// CreateFilterWithConfig builds a link filter using a pre-loaded config.
// CLI flags are merged additively with the config settings.
// Returns nil if no filter rules are defined.
func CreateFilterWithConfig(cfg *config.Config, cliDomains, cliPatterns, cliRegex []string) (*filter.Filter, error) {
	merged := &config.Config{}
	merged.Merge(cfg)
	merged.Merge(&config.Config{Ignore: config.IgnoreConfig{
		Domains:  cliDomains,
		Patterns: cliPatterns,
		Regex:    cliRegex,
	}})

	if !merged.HasIgnoreRules() {
		return nil, nil
	}

	return filter.New(filter.Config{
		Domains:       merged.Ignore.Domains,
		GlobPatterns:  merged.Ignore.Patterns,
		RegexPatterns: merged.Ignore.Regex,
	})
}

// ApplyFilter drops ignored links from every document in place.
func ApplyFilter(docs []convert.Document, linkFilter *filter.Filter) {
	if linkFilter == nil {
		return
	}
	for i := range docs {
		docs[i].Links = linkFilter.Keep(docs[i].Links, docs[i].FilePath)
	}
}

// IgnoredLinks converts the filter's ignore records for reports.
func IgnoredLinks(linkFilter *filter.Filter) []output.IgnoredLink {
	ignored := linkFilter.Ignored()
	if len(ignored) == 0 {
		return nil
	}

	out := make([]output.IgnoredLink, len(ignored))
	for i, ig := range ignored {
		out[i] = output.IgnoredLink{
			URL:    ig.URL,
			Alt:    ig.Alt,
			File:   ig.File,
			Reason: ig.Type,
			Rule:   ig.Rule,
		}
	}
	return out
}

// ReadStdinDocument converts a document read from r. The html flag makes
// the content go through the HTML converter. Read and conversion failures
// are reported through the document's Err.
func ReadStdinDocument(r io.Reader, mode convert.Mode, html bool) convert.Document {
	content, err := io.ReadAll(r)
	if err != nil {
		return convert.Document{FilePath: stdinArg, Mode: mode, Err: fmt.Errorf("reading stdin: %w", err)}
	}

	name := "stdin.md"
	if html {
		name = "stdin.html"
	}

	doc, err := convert.ConvertContent(name, content, mode)
	doc.FilePath = stdinArg
	doc.Err = err
	return doc
}

// CollectURLs returns every link URL across documents, in order.
func CollectURLs(docs []convert.Document) []string {
	var urls []string
	for _, d := range docs {
		for _, l := range d.Links {
			urls = append(urls, l.URL)
		}
	}
	return urls
}

// countKinds counts links and images in a slice.
func countKinds(links []alttext.Link) (linkCount, imageCount int) {
	for _, l := range links {
		if l.Kind == alttext.KindImage {
			imageCount++
		} else {
			linkCount++
		}
	}
	return linkCount, imageCount
}
