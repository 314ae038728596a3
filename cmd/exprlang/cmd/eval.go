package cmd

import (
	"fmt"

	"github.com/cortesi/exprlang/exprerr"
	"github.com/cortesi/exprlang/pkg/exprlang"
	"github.com/spf13/cobra"
)

var (
	evalExpr     string
	evalMaxDepth int
)

var evalCmd = &cobra.Command{
	Use:   "eval [file]",
	Short: "Evaluate an expression and print its result",
	Long: `Evaluate an expression against a fresh environment, with the
stdlib functions (string/collection helpers, UUID generation, SQLite
access) registered, and print the result.

Examples:
  # Evaluate a file
  exprlang eval script.expr

  # Evaluate an inline expression
  exprlang eval -e "1 + 2 * 3"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().StringVarP(&evalExpr, "expression", "e", "", "evaluate inline code instead of reading from a file or stdin")
	evalCmd.Flags().IntVar(&evalMaxDepth, "max-call-depth", 0, "cap nested recursive callback invocations (0 uses the engine default)")
}

func runEval(cmd *cobra.Command, args []string) error {
	input, filename, err := resolveInput(evalExpr, args)
	if err != nil {
		return err
	}

	engine := exprlang.New(exprlang.WithStandardLibrary(), exprlang.WithMaxCallDepth(evalMaxDepth))

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		fmt.Printf("Evaluating: %s\n", filename)
	}

	result, err := engine.Evaluate(input)
	if err != nil {
		if pe, ok := err.(exprerr.PositionedError); ok {
			return fmt.Errorf("%s", pe.Format(input))
		}
		return err
	}

	fmt.Printf("%#v\n", result)
	return nil
}
