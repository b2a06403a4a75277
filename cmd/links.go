package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/leonardomso/mdstrip/internal/convert"
	"github.com/leonardomso/mdstrip/internal/helpers"
	"github.com/leonardomso/mdstrip/internal/output"
	"github.com/leonardomso/mdstrip/internal/stats"
)

// uniqueOnly prints each URL once.
var uniqueOnly bool

// linksCmd represents the links command.
var linksCmd = &cobra.Command{
	Use:   "links [path|-]",
	Short: "List the links and images found in Markdown files",
	Long: `List every [alt](url) link and ![alt](url) image in Markdown files.

This is the extract mode of 'strip' without the text: each link is shown
with its kind, its alt text and its URL.

Examples:
  mdstrip links                      # Current directory
  mdstrip links README.md
  mdstrip links --unique ./docs      # Each URL once
  mdstrip links --format=json ./docs
  mdstrip links --ignore-domain=localhost ./docs`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLinks,
}

func init() {
	rootCmd.AddCommand(linksCmd)

	addOutputFlags(linksCmd)
	addScanFlags(linksCmd)
	addConcurrencyFlag(linksCmd)
	addIgnoreFlags(linksCmd)

	linksCmd.Flags().BoolVarP(&uniqueOnly, "unique", "u", false,
		"Print each URL once, without alt text")
}

// runLinks is the main entry point for the links command.
func runLinks(_ *cobra.Command, args []string) {
	perf := stats.New()
	exitOnError(validateOutputFlags(), "Invalid flags")

	lc, err := LoadConfig(noConfig)
	exitOnError(err, "")

	opts, err := lc.BuildConvertOptions(string(convert.ModeExtract), concurrency)
	exitOnError(err, "")

	linkFilter, err := CreateFilterWithConfig(lc.Config(), ignoreDomains, ignorePatterns, ignoreRegex)
	exitOnError(err, "Error creating filter")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	path := getPathArg(args)
	var docs []convert.Document
	if path == stdinArg {
		perf.StartScan()
		perf.EndScan(1)
		perf.StartConvert()
		docs = []convert.Document{ReadStdinDocument(os.Stdin, opts.Mode, false)}
	} else {
		scanOpts := lc.BuildScanOptions(path, fileTypes, defaultTypes, includePatterns, excludePatterns)
		files := scanFiles(scanOpts, perf)
		perf.StartConvert()
		docs = convert.New(opts).ConvertAll(ctx, files)
	}

	ApplyFilter(docs, linkFilter)
	report := output.NewReport(opts.Mode, docs)
	report.Ignored = IgnoredLinks(linkFilter)
	perf.EndConvert(totals(report, nil))

	format := lc.GetOutputFormat(outputFormat)
	structured := format != "" && format != string(output.FormatText)
	wantStats := lc.GetShowStats(showStats)
	if wantStats && (structured || outputFile != "") {
		report.Stats = perf.ToJSON()
	}

	printFailures(docs)

	switch {
	case outputFile != "":
		exitOnError(output.WriteToFile(report, outputFile), "Error writing report")
		fmt.Fprintf(os.Stderr, "Wrote report to %s\n", outputFile)
	case structured:
		data, err := output.FormatReport(report, output.Format(format))
		exitOnError(err, "Error formatting output")
		fmt.Print(string(data))
	default:
		printLinks(docs)
		printLinkSummary(report)
		if wantStats {
			fmt.Fprint(os.Stderr, perf.String())
		}
	}

	if showIgnored && linkFilter.IgnoredCount() > 0 {
		printIgnored(linkFilter)
	}

	if report.Summary.HasFailures() {
		os.Exit(1)
	}
}

// printLinks prints links grouped by file, or each URL once with --unique.
func printLinks(docs []convert.Document) {
	if uniqueOnly {
		seen := make(map[string]struct{})
		for _, url := range CollectURLs(docs) {
			if _, ok := seen[url]; ok {
				continue
			}
			seen[url] = struct{}{}
			fmt.Println(url)
		}
		return
	}

	for _, d := range docs {
		if !d.OK() || len(d.Links) == 0 {
			continue
		}
		fmt.Println(d.FilePath)
		for _, l := range d.Links {
			if alt := helpers.TruncateText(l.Alt, 50); alt != "" {
				fmt.Printf("  %-5s %s\n        %s\n", l.Kind, alt, l.URL)
			} else {
				fmt.Printf("  %-5s %s\n", l.Kind, l.URL)
			}
		}
	}
}

// printLinkSummary prints counts on stderr so piped output stays clean.
func printLinkSummary(report *output.Report) {
	urls := CollectURLs(report.Documents)
	var links, images int
	for _, d := range report.Documents {
		l, i := countKinds(d.Links)
		links += l
		images += i
	}

	fmt.Fprintf(os.Stderr, "\nSummary: %d %s | %d %s | %d unique %s | %d %s",
		links, helpers.Plural(links, "link"),
		images, helpers.Plural(images, "image"),
		helpers.CountUniqueStrings(urls), helpers.Plural(helpers.CountUniqueStrings(urls), "URL"),
		report.Summary.Converted, helpers.Plural(report.Summary.Converted, "file"))
	if n := len(report.Ignored); n > 0 {
		fmt.Fprintf(os.Stderr, " | %d ignored", n)
	}
	fmt.Fprintln(os.Stderr)
}
