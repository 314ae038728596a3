package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/cortesi/exprlang/ast"
	"github.com/cortesi/exprlang/lexer"
)

// golden programs chosen to exercise every precedence level, the
// speculative save/restore path (callback literals), and the one-token
// lookahead paths (chained assignment, named arguments), plus optional
// chaining and if/then/else.
var goldenPrograms = []struct {
	name, source string
}{
	{"precedence_ladder", "1 + 2 * 3 - 4 / 2 ^ 2"},
	{"concatenation_chain", `"a" & "b" & "c"`},
	{"logical_operator_mix", "1 < 2 && 3 > 4 || !false"},
	{"chained_assignment", "x = y = 1"},
	{"optional_chain_then_index", "a?.b?[0]"},
	{"if_then_else", "if a then b else c"},
	{"callback_literal", "(a, b) -> a + b"},
	{"positional_and_named_args", "f(1, 2, name = 3)"},
	{"flip_sign_before_exponent", "-x ^ 2"},
	{"null_coalesce_chain", "a ?? b ?? c"},
}

func dumpTokens(source string) string {
	l := lexer.New(source)
	var sb strings.Builder
	for {
		tok, err := l.ConsumeToken()
		if err != nil {
			fmt.Fprintf(&sb, "error: %v\n", err)
			return sb.String()
		}
		fmt.Fprintf(&sb, "%-14s %q\n", tok.Type, tok.Lexeme)
		if tok.Type == "EOF" {
			break
		}
	}
	return sb.String()
}

func dumpTree(node ast.Expression, indent int) string {
	prefix := strings.Repeat("  ", indent)
	switch n := node.(type) {
	case *ast.Math:
		return fmt.Sprintf("%sMath(%s)\n%s%s", prefix, n.Op, dumpTree(n.Lhs, indent+1), dumpTree(n.Rhs, indent+1))
	case *ast.Comparison:
		return fmt.Sprintf("%sComparison(%s)\n%s%s", prefix, n.Op, dumpTree(n.Lhs, indent+1), dumpTree(n.Rhs, indent+1))
	case *ast.Conjunction:
		return fmt.Sprintf("%sConjunction\n%s%s", prefix, dumpTree(n.Lhs, indent+1), dumpTree(n.Rhs, indent+1))
	case *ast.Disjunction:
		return fmt.Sprintf("%sDisjunction\n%s%s", prefix, dumpTree(n.Lhs, indent+1), dumpTree(n.Rhs, indent+1))
	case *ast.Concatenation:
		return fmt.Sprintf("%sConcatenation\n%s%s", prefix, dumpTree(n.Lhs, indent+1), dumpTree(n.Rhs, indent+1))
	case *ast.NullCoalesce:
		return fmt.Sprintf("%sNullCoalesce\n%s%s", prefix, dumpTree(n.Lhs, indent+1), dumpTree(n.Rhs, indent+1))
	case *ast.Assignment:
		return fmt.Sprintf("%sAssignment(%s)\n%s", prefix, n.Lhs.Symbol, dumpTree(n.Rhs, indent+1))
	case *ast.MemberAccess:
		return fmt.Sprintf("%sMemberAccess(%s, optional=%v)\n%s", prefix, n.Member.String(), n.Optional, dumpTree(n.Lhs, indent+1))
	case *ast.Index:
		return fmt.Sprintf("%sIndex(optional=%v)\n%s%s", prefix, n.Optional, dumpTree(n.Lhs, indent+1), dumpTree(n.Rhs, indent+1))
	case *ast.Invert:
		return fmt.Sprintf("%sInvert\n%s", prefix, dumpTree(n.Operand, indent+1))
	case *ast.FlipSign:
		return fmt.Sprintf("%sFlipSign\n%s", prefix, dumpTree(n.Operand, indent+1))
	case *ast.FunctionInvocation:
		sb := fmt.Sprintf("%sFunctionInvocation(optional=%v)\n%s", prefix, n.Optional, dumpTree(n.Callee, indent+1))
		for _, arg := range n.Args {
			if arg.Name != nil {
				sb += fmt.Sprintf("%s  arg %s:\n%s", prefix, arg.Name.Symbol, dumpTree(arg.Value, indent+2))
			} else {
				sb += dumpTree(arg.Value, indent+1)
			}
		}
		return sb
	case *ast.Callback:
		params := make([]string, len(n.Params))
		for i, p := range n.Params {
			params[i] = p.Symbol
		}
		return fmt.Sprintf("%sCallback(%s)\n%s", prefix, strings.Join(params, ", "), dumpTree(n.Body, indent+1))
	case *ast.IfThenElse:
		return fmt.Sprintf("%sIfThenElse\n%scond:\n%s%sthen:\n%s%selse:\n%s",
			prefix, prefix, dumpTree(n.Condition, indent+1),
			prefix, dumpTree(n.PositiveBody, indent+1),
			prefix, dumpTree(n.NegativeBody, indent+1))
	default:
		return fmt.Sprintf("%s%T: %s\n", prefix, node, node.String())
	}
}

func TestTokenAndASTGoldenOutput(t *testing.T) {
	for _, p := range goldenPrograms {
		t.Run(p.name, func(t *testing.T) {
			tokenDump := dumpTokens(p.source)

			program, err := Parse(p.source)
			if err != nil {
				snaps.MatchSnapshot(t, "tokens:\n"+tokenDump+"\nparse error: "+err.Error())
				return
			}

			var treeDump strings.Builder
			for _, line := range program.Lines {
				treeDump.WriteString(dumpTree(line, 0))
			}
			snaps.MatchSnapshot(t, "tokens:\n"+tokenDump+"\ntree:\n"+treeDump.String())
		})
	}
}
