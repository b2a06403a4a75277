package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/leonardomso/mdstrip/internal/convert"
	"github.com/leonardomso/mdstrip/internal/helpers"
	"github.com/leonardomso/mdstrip/internal/scanner"
	"github.com/leonardomso/mdstrip/internal/watch"
	"github.com/leonardomso/mdstrip/internal/writer"
)

// Flag variables for the watch command.
var (
	debounce  time.Duration
	skipFirst bool
)

// watchCmd represents the watch command.
var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Convert files again whenever they change",
	Long: `Watch a directory and write the plain text of every file that changes.

All matching files are converted once at startup, then each created or
modified file is converted again after the tree has been quiet for the
debounce interval. New directories are picked up automatically; hidden
directories are skipped. Stop with Ctrl+C.

Examples:
  mdstrip watch ./docs
  mdstrip watch --out-dir=build/text ./docs
  mdstrip watch --mode=urls --suffix=.plain.txt ./docs
  mdstrip watch --skip-initial --debounce=1s ./docs`,
	Args: cobra.MaximumNArgs(1),
	Run:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	addModeFlag(watchCmd)
	addScanFlags(watchCmd)
	addConcurrencyFlag(watchCmd)
	addWriteFlags(watchCmd)

	watchCmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce,
		"Quiet period before changed files are converted")
	watchCmd.Flags().BoolVar(&skipFirst, "skip-initial", false,
		"Do not convert existing files at startup")
}

// runWatch is the main entry point for the watch command.
func runWatch(_ *cobra.Command, args []string) {
	lc, err := LoadConfig(noConfig)
	exitOnError(err, "")

	opts, err := lc.BuildConvertOptions(modeFlag, concurrency)
	exitOnError(err, "Invalid mode")

	path := getPathArg(args)
	if path == stdinArg {
		exitOnError(fmt.Errorf("watch needs a path, not stdin"), "Invalid arguments")
	}

	scanOpts := lc.BuildScanOptions(path, fileTypes, defaultTypes, includePatterns, excludePatterns)
	w, err := lc.BuildWriter(path, suffixFlag, outDirFlag)
	exitOnError(err, "Invalid flags")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !skipFirst {
		files, err := scanner.FindFilesWithOptions(scanOpts)
		exitOnError(err, "Error scanning")
		convertExisting(ctx, scanOpts.Root, opts, w, files)
	}

	watcher, err := watch.New(watch.Options{
		Scan:     scanOpts,
		Mode:     opts.Mode,
		Writer:   w,
		Debounce: debounce,
		OnEvent:  printWatchEvent,
		OnError: func(err error) {
			fmt.Fprintf(os.Stderr, "Watch error: %v\n", err)
		},
	})
	exitOnError(err, "Error starting watcher")

	fmt.Printf("Watching %s for changes (Ctrl+C to stop)\n", path)
	exitOnError(watcher.Run(ctx), "Error watching")
	fmt.Println("Stopped.")
}

// convertExisting converts and writes files found at startup.
func convertExisting(ctx context.Context, root string, opts convert.Options, w *writer.Writer, files []string) {
	docs := convert.New(opts).ConvertAll(ctx, files)
	results := w.WriteAll(docs)

	written := writer.Written(results)
	fmt.Printf("Converted %d %s in %s, wrote %d\n",
		len(files), helpers.Plural(len(files), "file"), root, written)
	for _, r := range results {
		if r.Error != nil {
			fmt.Fprintf(os.Stderr, "  ✗ %v\n", r.Error)
		}
	}
}

// printWatchEvent prints one conversion triggered by a file change.
func printWatchEvent(ev watch.Event) {
	stamp := time.Now().Format("15:04:05")
	switch {
	case ev.Err != nil:
		fmt.Fprintf(os.Stderr, "%s ✗ %s: %v\n", stamp, ev.Path, ev.Err)
	case ev.Result.Unchanged:
		fmt.Printf("%s = %s (unchanged)\n", stamp, ev.Result.Target)
	default:
		fmt.Printf("%s ✓ %s → %s\n", stamp, ev.Path, ev.Result.Target)
	}
}
