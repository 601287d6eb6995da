package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "corescope",
	Short: "Diagnostics CLI for the ecmacore value-and-object runtime",
	Long: `corescope boots an ecmacore runtime.Context directly and inspects it.

It is not an ECMAScript source-level CLI: there is no lexer, parser, or
statement evaluator here, only the value/object/container/Promise core
(spec.md's components A-H). It exists to dump realm object graphs and
to drive the microtask queue for development and test fixtures.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
