package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leonardomso/mdstrip/internal/convert"
	"github.com/leonardomso/mdstrip/internal/filter"
	"github.com/leonardomso/mdstrip/internal/helpers"
	"github.com/leonardomso/mdstrip/internal/output"
	"github.com/leonardomso/mdstrip/internal/scanner"
	"github.com/leonardomso/mdstrip/internal/stats"
	"github.com/leonardomso/mdstrip/internal/writer"
)

// stdinHTML treats stdin as HTML.
var stdinHTML bool

// stripCmd represents the strip command.
var stripCmd = &cobra.Command{
	Use:   "strip [path|-]",
	Short: "Convert Markdown files to plain text",
	Long: `Convert Markdown (or HTML) files to plain text.

If no path is provided, converts every .md file under the current
directory. A path of "-" reads a single document from stdin.

Modes:
  plain    Replace links with their URL, then remove all Markdown syntax
  urls     Only replace [alt](url) and ![alt](url) with url
  extract  Remove links and images entirely and list them separately

By default the text is printed to stdout. Use --write to save it next to
each source (README.md -> README.txt) or under --out-dir.

Exit codes:
  0 - Every file converted
  1 - At least one file failed

Examples:
  mdstrip strip README.md
  mdstrip strip --mode=urls ./docs
  mdstrip strip --mode=extract --format=json ./docs
  mdstrip strip --write --suffix=.plain.txt ./docs
  mdstrip strip --write --out-dir=build/text ./docs
  mdstrip strip --types=md,html ./site
  mdstrip strip --exclude="drafts/**" ./docs
  mdstrip strip --output=report.md ./docs
  curl -s https://example.com | mdstrip strip --html -

Note: --format and --output are mutually exclusive.

Config file (.mdstriprc.yaml):
  types: [md, html]
  convert:
    mode: plain
  write:
    suffix: .txt`,
	Args: cobra.MaximumNArgs(1),
	Run:  runStrip,
}

func init() {
	rootCmd.AddCommand(stripCmd)

	addModeFlag(stripCmd)
	addOutputFlags(stripCmd)
	addScanFlags(stripCmd)
	addConcurrencyFlag(stripCmd)
	addIgnoreFlags(stripCmd)
	addWriteFlags(stripCmd)

	stripCmd.Flags().BoolVarP(&writeFiles, "write", "w", false,
		"Write the text of each file instead of printing it")
	stripCmd.Flags().BoolVar(&stdinHTML, "html", false,
		"Treat stdin as HTML (only with -)")
}

// runStrip is the main entry point for the strip command.
func runStrip(_ *cobra.Command, args []string) {
	perf := stats.New()
	exitOnError(validateOutputFlags(), "Invalid flags")

	lc, err := LoadConfig(noConfig)
	exitOnError(err, "")

	opts, err := lc.BuildConvertOptions(modeFlag, concurrency)
	exitOnError(err, "Invalid mode")

	path := getPathArg(args)
	if path == stdinArg && writeFiles {
		exitOnError(fmt.Errorf("--write cannot be used with stdin"), "Invalid flags")
	}

	linkFilter, err := CreateFilterWithConfig(lc.Config(), ignoreDomains, ignorePatterns, ignoreRegex)
	exitOnError(err, "Error creating filter")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var docs []convert.Document
	if path == stdinArg {
		perf.StartScan()
		perf.EndScan(1)
		perf.StartConvert()
		docs = []convert.Document{ReadStdinDocument(os.Stdin, opts.Mode, stdinHTML)}
	} else {
		scanOpts := lc.BuildScanOptions(path, fileTypes, defaultTypes, includePatterns, excludePatterns)
		files := scanFiles(scanOpts, perf)
		perf.StartConvert()
		docs = convert.New(opts).ConvertAll(ctx, files)
	}

	ApplyFilter(docs, linkFilter)
	report := output.NewReport(opts.Mode, docs)
	report.Ignored = IgnoredLinks(linkFilter)

	var results []writer.Result
	if writeFiles {
		w, err := lc.BuildWriter(path, suffixFlag, outDirFlag)
		exitOnError(err, "Invalid flags")
		results = w.WriteAll(docs)
	}

	perf.EndConvert(totals(report, results))

	format := lc.GetOutputFormat(outputFormat)
	routeOutput(lc, report, results, linkFilter, perf, format)

	if report.Summary.HasFailures() {
		os.Exit(1)
	}
}

// validateOutputFlags checks for invalid flag combinations.
func validateOutputFlags() error {
	if outputFormat != "" && outputFile != "" {
		return fmt.Errorf("--format and --output are mutually exclusive; " +
			"use --format for stdout output, or --output for file output")
	}

	if outputFormat != "" && !output.IsValidFormat(outputFormat) {
		return fmt.Errorf("invalid format %q; valid formats: %s",
			outputFormat, strings.Join(output.ValidFormats(), ", "))
	}

	return nil
}

// scanFiles scans for files with the given options and returns the list.
// Progress goes to stderr so stdout only carries the converted text.
func scanFiles(opts scanner.ScanOptions, perf *stats.Stats) []string {
	perf.StartScan()

	files, err := scanner.FindFilesWithOptions(opts)
	exitOnError(err, "Error scanning")
	perf.EndScan(len(files))

	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "No files of type(s) %s found in %s\n", strings.Join(opts.Types, ", "), opts.Root)
	}
	return files
}

// totals collects the per-run counts for stats.
func totals(report *output.Report, results []writer.Result) stats.Totals {
	return stats.Totals{
		Converted: report.Summary.Converted,
		Failed:    report.Summary.Failed,
		Links:     report.Summary.Links,
		Images:    report.Summary.Images,
		Ignored:   len(report.Ignored),
		Written:   writer.Written(results),
		BytesIn:   report.Summary.BytesIn,
		BytesOut:  report.Summary.BytesOut,
	}
}

// routeOutput prints or writes the report.
//
// With --write and no explicit format only the write summary is printed.
// Stats are embedded in structured reports and printed to stderr otherwise.
func routeOutput(
	lc *LoadedConfig, report *output.Report, results []writer.Result,
	linkFilter *filter.Filter, perf *stats.Stats, format string,
) {
	wantStats := lc.GetShowStats(showStats)
	structured := format != "" && format != string(output.FormatText)
	if wantStats && (structured || outputFile != "") {
		report.Stats = perf.ToJSON()
	}

	printFailures(report.Documents)

	switch {
	case outputFile != "":
		exitOnError(output.WriteToFile(report, outputFile), "Error writing report")
		fmt.Fprintf(os.Stderr, "Wrote report to %s\n", outputFile)

	case writeFiles && format == "":
		fmt.Print(writer.Summary(results))

	default:
		if format == "" {
			format = string(output.FormatText)
		}
		data, err := output.FormatReport(report, output.Format(format))
		exitOnError(err, "Error formatting output")
		fmt.Print(string(data))

		if writeFiles {
			fmt.Fprint(os.Stderr, writer.Summary(results))
		}
	}

	if showIgnored && linkFilter.IgnoredCount() > 0 {
		printIgnored(linkFilter)
	}

	if wantStats && report.Stats == nil {
		fmt.Fprint(os.Stderr, perf.String())
	}
}

// printFailures reports documents that failed to convert on stderr.
func printFailures(docs []convert.Document) {
	for _, d := range docs {
		if !d.OK() {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", d.FilePath, d.Err)
		}
	}
}

// printIgnored lists ignored links on stderr.
func printIgnored(linkFilter *filter.Filter) {
	ignored := linkFilter.Ignored()
	fmt.Fprintf(os.Stderr, "\nIgnored %d %s:\n", len(ignored), helpers.Plural(len(ignored), "link"))
	for _, ig := range ignored {
		fmt.Fprintf(os.Stderr, "  %s (%s: %s) in %s\n",
			helpers.TruncateURL(ig.URL, 70), ig.Type, ig.Rule, ig.File)
	}
}
