package cmd

import (
	"fmt"

	"github.com/cortesi/exprlang/lexer"
	"github.com/cortesi/exprlang/token"
	"github.com/spf13/cobra"
)

var (
	tokenizeExpr string
	showPos      bool
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [file]",
	Short: "Tokenize an expression and print the resulting tokens",
	Long: `Tokenize an expression and print the resulting token stream.

Examples:
  # Tokenize a file
  exprlang tokenize script.expr

  # Tokenize an inline expression
  exprlang tokenize -e "1 + 2 * 3"

  # Show token positions (line:column)
  exprlang tokenize --show-pos -e "1 + 2"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTokenize,
}

func init() {
	rootCmd.AddCommand(tokenizeCmd)

	tokenizeCmd.Flags().StringVarP(&tokenizeExpr, "expression", "e", "", "tokenize inline code instead of reading from a file or stdin")
	tokenizeCmd.Flags().BoolVar(&showPos, "show-pos", false, "show token positions (line:col)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	input, _, err := resolveInput(tokenizeExpr, args)
	if err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")

	l := lexer.New(input)
	count := 0
	for {
		tok, err := l.ConsumeToken()
		if err != nil {
			return fmt.Errorf("tokenize: %w", err)
		}
		count++
		printToken(tok)
		if tok.Type == token.EOF {
			break
		}
	}

	if verbose {
		fmt.Printf("%d token(s)\n", count)
	}
	return nil
}

func printToken(tok token.Token) {
	if tok.Type == token.EOF {
		fmt.Print("EOF")
	} else {
		fmt.Printf("%-12s %q", tok.Type, tok.Lexeme)
	}
	if showPos {
		fmt.Printf(" @%d:%d", tok.Row, tok.Col)
	}
	fmt.Println()
}
