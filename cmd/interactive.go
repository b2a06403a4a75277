package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/leonardomso/mdstrip/internal/ui"
)

// interactiveCmd represents the interactive command.
var interactiveCmd = &cobra.Command{
	Use:   "interactive [path]",
	Short: "Browse converted documents in a terminal UI",
	Long: `Launch an interactive terminal UI to preview conversions.

Files are scanned and converted in the background, then listed. Open a
document to see its stripped text; press m to switch to the list of its
links and images, or to the rendered Markdown source.

Controls:
  ↑/↓ or j/k    Navigate
  enter         Open document
  m             Cycle view (stripped / links / rendered)
  esc           Back to the list
  /             Filter by path
  ?             Toggle help
  q             Quit`,
	Args: cobra.MaximumNArgs(1),
	Run:  runInteractive,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)

	addModeFlag(interactiveCmd)
	addScanFlags(interactiveCmd)
	addConcurrencyFlag(interactiveCmd)
}

func runInteractive(_ *cobra.Command, args []string) {
	lc, err := LoadConfig(noConfig)
	exitOnError(err, "")

	opts, err := lc.BuildConvertOptions(modeFlag, concurrency)
	exitOnError(err, "Invalid mode")

	path := getPathArg(args)
	model := ui.New(ui.Options{
		Scan:    lc.BuildScanOptions(path, fileTypes, defaultTypes, includePatterns, excludePatterns),
		Convert: opts,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	exitOnError(err, "Error running interactive mode")
}
