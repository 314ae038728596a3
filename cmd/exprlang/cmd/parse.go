package cmd

import (
	"fmt"
	"strings"

	"github.com/cortesi/exprlang/ast"
	"github.com/cortesi/exprlang/parser"
	"github.com/spf13/cobra"
)

var (
	parseExpr string
	dumpAST   bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse an expression and print its AST",
	Long: `Parse an expression and print the resulting AST.

Examples:
  # Parse a file
  exprlang parse script.expr

  # Parse an inline expression
  exprlang parse -e "1 + 2 * 3"

  # Dump the full tree instead of the one-line rendering
  exprlang parse --dump-ast -e "a.b(1)[0]"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseExpr, "expression", "e", "", "parse inline code instead of reading from a file or stdin")
	parseCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "dump the full AST tree instead of the flattened rendering")
}

func runParse(_ *cobra.Command, args []string) error {
	input, filename, err := resolveInput(parseExpr, args)
	if err != nil {
		return err
	}

	program, err := parser.Parse(input)
	if err != nil {
		return fmt.Errorf("parse %s: %w", filename, err)
	}

	if dumpAST {
		dumpASTNode(program, 0)
		return nil
	}
	fmt.Println(program.String())
	return nil
}

func dumpASTNode(node ast.Node, indent int) {
	prefix := strings.Repeat("  ", indent)

	switch n := node.(type) {
	case *ast.Program:
		fmt.Printf("%sProgram (%d line(s))\n", prefix, len(n.Lines))
		for _, line := range n.Lines {
			dumpASTNode(line, indent+1)
		}
	case *ast.Math:
		fmt.Printf("%sMath (%s)\n", prefix, n.Op)
		dumpASTNode(n.Lhs, indent+1)
		dumpASTNode(n.Rhs, indent+1)
	case *ast.Comparison:
		fmt.Printf("%sComparison (%s)\n", prefix, n.Op)
		dumpASTNode(n.Lhs, indent+1)
		dumpASTNode(n.Rhs, indent+1)
	case *ast.Equality:
		fmt.Printf("%sEquality (%s)\n", prefix, n.Op)
		dumpASTNode(n.Lhs, indent+1)
		dumpASTNode(n.Rhs, indent+1)
	case *ast.Conjunction:
		fmt.Printf("%sConjunction\n", prefix)
		dumpASTNode(n.Lhs, indent+1)
		dumpASTNode(n.Rhs, indent+1)
	case *ast.Disjunction:
		fmt.Printf("%sDisjunction\n", prefix)
		dumpASTNode(n.Lhs, indent+1)
		dumpASTNode(n.Rhs, indent+1)
	case *ast.Concatenation:
		fmt.Printf("%sConcatenation\n", prefix)
		dumpASTNode(n.Lhs, indent+1)
		dumpASTNode(n.Rhs, indent+1)
	case *ast.NullCoalesce:
		fmt.Printf("%sNullCoalesce\n", prefix)
		dumpASTNode(n.Lhs, indent+1)
		dumpASTNode(n.Rhs, indent+1)
	case *ast.Assignment:
		fmt.Printf("%sAssignment\n", prefix)
		dumpASTNode(n.Lhs, indent+1)
		dumpASTNode(n.Rhs, indent+1)
	case *ast.MemberAccess:
		fmt.Printf("%sMemberAccess (optional=%v)\n", prefix, n.Optional)
		dumpASTNode(n.Lhs, indent+1)
		dumpASTNode(n.Member, indent+1)
	case *ast.Index:
		fmt.Printf("%sIndex (optional=%v)\n", prefix, n.Optional)
		dumpASTNode(n.Lhs, indent+1)
		dumpASTNode(n.Rhs, indent+1)
	case *ast.Invert:
		fmt.Printf("%sInvert\n", prefix)
		dumpASTNode(n.Operand, indent+1)
	case *ast.FlipSign:
		fmt.Printf("%sFlipSign\n", prefix)
		dumpASTNode(n.Operand, indent+1)
	case *ast.FunctionInvocation:
		fmt.Printf("%sFunctionInvocation (optional=%v, %d arg(s))\n", prefix, n.Optional, len(n.Args))
		dumpASTNode(n.Callee, indent+1)
		for _, arg := range n.Args {
			if arg.Name != nil {
				fmt.Printf("%s  %s:\n", prefix, arg.Name.Symbol)
			}
			dumpASTNode(arg.Value, indent+1)
		}
	case *ast.Callback:
		params := make([]string, len(n.Params))
		for i, p := range n.Params {
			params[i] = p.Symbol
		}
		fmt.Printf("%sCallback (%s)\n", prefix, strings.Join(params, ", "))
		dumpASTNode(n.Body, indent+1)
	case *ast.IfThenElse:
		fmt.Printf("%sIfThenElse\n", prefix)
		dumpASTNode(n.Condition, indent+1)
		dumpASTNode(n.PositiveBody, indent+1)
		dumpASTNode(n.NegativeBody, indent+1)
	case *ast.Identifier:
		fmt.Printf("%sIdentifier: %s\n", prefix, n.Symbol)
	case *ast.Long:
		fmt.Printf("%sLong: %s\n", prefix, n.Head().Lexeme)
	case *ast.Double:
		fmt.Printf("%sDouble: %s\n", prefix, n.Head().Lexeme)
	case *ast.String:
		fmt.Printf("%sString: %q\n", prefix, n.Value)
	case *ast.Literal:
		fmt.Printf("%sLiteral: %s\n", prefix, n.Head().Lexeme)
	default:
		fmt.Printf("%s%T: %s\n", prefix, node, node.String())
	}
}
