package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set by main.go via SetVersion.
var version = "dev"

// SetVersion sets the version string (called from main).
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     "mdstrip",
	Short:   "Strip Markdown links and images down to plain text",
	Version: version,
	Long: `mdstrip turns Markdown into plain text.

Links and images are replaced by their URL, so [docs](https://go.dev)
becomes https://go.dev and ![logo](logo.png) becomes logo.png. The plain
mode then removes the remaining Markdown syntax, which is what you want
for plaintext e-mail bodies.

Examples:
  mdstrip strip README.md            # Print README.md as plain text
  mdstrip strip --mode=urls docs/    # Only replace links with their URL
  cat mail.md | mdstrip strip -      # Read from stdin
  mdstrip strip --write ./docs       # Write docs/**/*.txt next to sources
  mdstrip links ./docs               # List links and images
  mdstrip watch ./docs               # Rewrite .txt files on change
  mdstrip interactive                # Browse converted files in a TUI`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1) //nolint:revive // deep-exit is acceptable for CLI entry points
	}
}

// exitOnError prints an error message and exits if err is not nil.
func exitOnError(err error, message string) {
	if err != nil {
		if message != "" {
			fmt.Fprintf(os.Stderr, "%s: %v\n", message, err)
		} else {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
		os.Exit(1)
	}
}

// getPathArg returns the path argument or "." as default.
func getPathArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
