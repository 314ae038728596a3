package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cortesi/exprlang/exprerr"
	"github.com/cortesi/exprlang/pkg/exprlang"
	"github.com/spf13/cobra"
)

var replMaxDepth int

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive read-eval-print loop",
	Long: `Start an interactive session backed by one persistent Engine, so
variable assignments and callback definitions from earlier lines stay
available to later ones.

Enter .exit or .quit to leave, or send EOF (Ctrl-D).`,
	Args: cobra.NoArgs,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
	replCmd.Flags().IntVar(&replMaxDepth, "max-call-depth", 0, "cap nested recursive callback invocations (0 uses the engine default)")
}

func runRepl(cmd *cobra.Command, args []string) error {
	engine := exprlang.New(exprlang.WithStandardLibrary(), exprlang.WithMaxCallDepth(replMaxDepth))

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == ".exit" || line == ".quit" {
			break
		}

		result, err := engine.Evaluate(line)
		if err != nil {
			if pe, ok := err.(exprerr.PositionedError); ok {
				fmt.Println(pe.Format(line))
			} else {
				fmt.Println(err)
			}
			continue
		}
		fmt.Printf("%#v\n", result)
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		return err
	}
	return nil
}
