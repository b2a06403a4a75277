package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/leonardomso/mdstrip/internal/convert"
	"github.com/leonardomso/mdstrip/internal/output"
	"github.com/leonardomso/mdstrip/internal/scanner"
)

// defaultTypes is the --types default for every command.
var defaultTypes = []string{"md"}

// Flag variables shared by the commands. Each command binds the subset it
// uses; only one command runs per process.
var (
	modeFlag     string
	outputFormat string
	outputFile   string
	concurrency  int
	showStats    bool
	noConfig     bool

	// Scan flags.
	fileTypes       []string
	includePatterns []string
	excludePatterns []string

	// Write flags.
	writeFiles bool
	suffixFlag string
	outDirFlag string

	// Ignore flags.
	ignoreDomains  []string
	ignorePatterns []string
	ignoreRegex    []string
	showIgnored    bool
)

func addScanFlags(c *cobra.Command) {
	c.Flags().StringSliceVarP(&fileTypes, "types", "T", defaultTypes,
		"Document types to scan (comma-separated): "+strings.Join(scanner.SupportedTypes(), ", "))
	c.Flags().StringSliceVar(&includePatterns, "include", nil,
		"Only convert files matching these globs (relative to the path)")
	c.Flags().StringSliceVar(&excludePatterns, "exclude", nil,
		"Skip files matching these globs (relative to the path)")
	c.Flags().BoolVar(&noConfig, "no-config", false,
		"Skip loading the .mdstriprc config file")
}

func addModeFlag(c *cobra.Command) {
	c.Flags().StringVarP(&modeFlag, "mode", "m", "",
		"Conversion mode: "+strings.Join(convert.ValidModes(), ", ")+" (default plain)")
}

func addConcurrencyFlag(c *cobra.Command) {
	c.Flags().IntVarP(&concurrency, "concurrency", "c", convert.DefaultConcurrency,
		"Number of concurrent workers")
}

func addOutputFlags(c *cobra.Command) {
	c.Flags().StringVarP(&outputFormat, "format", "f", "",
		"Output format for stdout: "+strings.Join(output.ValidFormats(), ", "))
	c.Flags().StringVarP(&outputFile, "output", "o", "",
		"Write report to file (format inferred from extension: .txt, .json, .yaml, .toml, .xml, .md)")
	c.Flags().BoolVar(&showStats, "stats", false,
		"Show detailed performance statistics")
}

func addWriteFlags(c *cobra.Command) {
	c.Flags().StringVar(&suffixFlag, "suffix", "",
		"Extension for written files, replacing the source extension (default .txt)")
	c.Flags().StringVar(&outDirFlag, "out-dir", "",
		"Write files under this directory, mirroring the source tree")
}

func addIgnoreFlags(c *cobra.Command) {
	c.Flags().StringSliceVar(&ignoreDomains, "ignore-domain", nil,
		"Domains to ignore, includes subdomains (can be repeated or comma-separated)")
	c.Flags().StringSliceVar(&ignorePatterns, "ignore-pattern", nil,
		"Glob patterns to ignore (can be repeated)")
	c.Flags().StringSliceVar(&ignoreRegex, "ignore-regex", nil,
		"Regex patterns to ignore (can be repeated)")
	c.Flags().BoolVar(&showIgnored, "show-ignored", false,
		"Show which links were ignored and why")
}
