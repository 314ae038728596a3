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

var rootCmd = &cobra.Command{
	Use:   "exprlang",
	Short: "exprlang tokenizer, parser, and evaluator",
	Long: `exprlang is a small general-purpose expression language: a
tokenizer, a precedence-climbing parser, and a tree-walking interpreter
with pluggable value coercion.

Use "tokenize" to inspect the token stream, "parse" to inspect the AST,
"eval" to evaluate an expression against a fresh environment, and "repl"
for an interactive session.`,
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

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}
