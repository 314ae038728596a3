package parser

import (
	"testing"

	"github.com/cortesi/exprlang/ast"
)

func mustParseOne(t *testing.T, source string) ast.Expression {
	t.Helper()
	program, err := Parse(source)
	if err != nil {
		t.Fatalf("Parse(%q): %v", source, err)
	}
	if len(program.Lines) != 1 {
		t.Fatalf("Parse(%q) produced %d lines, want 1", source, len(program.Lines))
	}
	return program.Lines[0]
}

func TestParsePrecedenceMultiplicationBeforeAddition(t *testing.T) {
	expr := mustParseOne(t, "1 + 2 * 3")
	m, ok := expr.(*ast.Math)
	if !ok || m.Op != ast.Add {
		t.Fatalf("top node = %#v, want top-level Add", expr)
	}
	if _, ok := m.Lhs.(*ast.Long); !ok {
		t.Errorf("Lhs = %#v, want Long", m.Lhs)
	}
	rhs, ok := m.Rhs.(*ast.Math)
	if !ok || rhs.Op != ast.Mul {
		t.Fatalf("Rhs = %#v, want Mul", m.Rhs)
	}
}

func TestParseExponentLeftAssociative(t *testing.T) {
	// 2 ^ 3 ^ 2 parses as (2^3)^2, not 2^(3^2).
	expr := mustParseOne(t, "2 ^ 3 ^ 2")
	outer, ok := expr.(*ast.Math)
	if !ok || outer.Op != ast.Pow {
		t.Fatalf("top node = %#v, want Pow", expr)
	}
	if _, ok := outer.Rhs.(*ast.Long); !ok {
		t.Fatalf("outer.Rhs = %#v, want Long(2) — left-associative", outer.Rhs)
	}
	inner, ok := outer.Lhs.(*ast.Math)
	if !ok || inner.Op != ast.Pow {
		t.Fatalf("outer.Lhs = %#v, want inner Pow", outer.Lhs)
	}
}

func TestParseUnaryMinusBindsTighterThanExponent(t *testing.T) {
	// -2 ^ 2 parses as (-2) ^ 2, since unary minus sits above exponent in
	// the precedence ladder.
	expr := mustParseOne(t, "-2 ^ 2")
	m, ok := expr.(*ast.Math)
	if !ok || m.Op != ast.Pow {
		t.Fatalf("top node = %#v, want Pow", expr)
	}
	if _, ok := m.Lhs.(*ast.FlipSign); !ok {
		t.Fatalf("Lhs = %#v, want FlipSign", m.Lhs)
	}
}

func TestParseAssignmentRequiresBareIdentifier(t *testing.T) {
	expr := mustParseOne(t, "a = 10")
	assign, ok := expr.(*ast.Assignment)
	if !ok {
		t.Fatalf("expr = %#v, want Assignment", expr)
	}
	if assign.Lhs.Symbol != "a" {
		t.Errorf("Lhs.Symbol = %q, want %q", assign.Lhs.Symbol, "a")
	}
	if _, ok := assign.Rhs.(*ast.Long); !ok {
		t.Errorf("Rhs = %#v, want Long", assign.Rhs)
	}
}

func TestParseProgramMultipleLines(t *testing.T) {
	program, err := Parse("a = 10\n a + 5")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(program.Lines) != 2 {
		t.Fatalf("len(Lines) = %d, want 2", len(program.Lines))
	}
	if _, ok := program.Lines[0].(*ast.Assignment); !ok {
		t.Errorf("Lines[0] = %#v, want Assignment", program.Lines[0])
	}
	if _, ok := program.Lines[1].(*ast.Math); !ok {
		t.Errorf("Lines[1] = %#v, want Math", program.Lines[1])
	}
}

func TestParseFunctionInvocationNamedArguments(t *testing.T) {
	expr := mustParseOne(t, "f(x, y = 2, z = 3)")
	call, ok := expr.(*ast.FunctionInvocation)
	if !ok {
		t.Fatalf("expr = %#v, want FunctionInvocation", expr)
	}
	name, ok := call.Name()
	if !ok || name.Symbol != "f" {
		t.Errorf("Name() = %#v, %v, want identifier %q", name, ok, "f")
	}
	if len(call.Args) != 3 {
		t.Fatalf("len(Args) = %d, want 3", len(call.Args))
	}
	if call.Args[0].Name != nil {
		t.Errorf("Args[0].Name = %#v, want nil (positional)", call.Args[0].Name)
	}
	if call.Args[1].Name == nil || call.Args[1].Name.Symbol != "y" {
		t.Errorf("Args[1].Name = %#v, want identifier y", call.Args[1].Name)
	}
	if call.Args[2].Name == nil || call.Args[2].Name.Symbol != "z" {
		t.Errorf("Args[2].Name = %#v, want identifier z", call.Args[2].Name)
	}
}

func TestParsePositionalAfterNamedIsAnError(t *testing.T) {
	_, err := Parse("f(a = 1, 2)")
	if err == nil {
		t.Fatal("expected a NonNamedFunctionArgumentError, got nil")
	}
}

func TestParseOptionalInvocation(t *testing.T) {
	expr := mustParseOne(t, "f?(1)")
	call, ok := expr.(*ast.FunctionInvocation)
	if !ok {
		t.Fatalf("expr = %#v, want FunctionInvocation", expr)
	}
	if !call.Optional {
		t.Error("Optional = false, want true")
	}
}

func TestParseCallbackLiteral(t *testing.T) {
	expr := mustParseOne(t, "(x, y) -> x + y")
	cb, ok := expr.(*ast.Callback)
	if !ok {
		t.Fatalf("expr = %#v, want Callback", expr)
	}
	if len(cb.Params) != 2 || cb.Params[0].Symbol != "x" || cb.Params[1].Symbol != "y" {
		t.Fatalf("Params = %#v, want [x y]", cb.Params)
	}
	if _, ok := cb.Body.(*ast.Math); !ok {
		t.Errorf("Body = %#v, want Math", cb.Body)
	}
}

func TestParseCallbackInvocation(t *testing.T) {
	expr := mustParseOne(t, "((x, y) -> x + y)(3, 4)")
	call, ok := expr.(*ast.FunctionInvocation)
	if !ok {
		t.Fatalf("expr = %#v, want FunctionInvocation", expr)
	}
	if _, ok := call.Name(); ok {
		t.Errorf("Name() ok = true, want false for a non-identifier callee")
	}
	cb, ok := call.Callee.(*ast.Callback)
	if !ok {
		t.Fatalf("Callee = %#v, want Callback", call.Callee)
	}
	if len(cb.Params) != 2 {
		t.Errorf("Callee.Params = %#v, want 2 params", cb.Params)
	}
	if len(call.Args) != 2 {
		t.Fatalf("len(Args) = %d, want 2", len(call.Args))
	}
}

func TestParseParenthesesDisambiguateFromCallback(t *testing.T) {
	expr := mustParseOne(t, "(1 + 2) * 3")
	m, ok := expr.(*ast.Math)
	if !ok || m.Op != ast.Mul {
		t.Fatalf("expr = %#v, want top-level Mul", expr)
	}
	if _, ok := m.Lhs.(*ast.Math); !ok {
		t.Errorf("Lhs = %#v, want Math (the parenthesized 1 + 2)", m.Lhs)
	}
}

func TestParseIfThenElse(t *testing.T) {
	expr := mustParseOne(t, `if 1 < 2 then "y" else "n"`)
	ite, ok := expr.(*ast.IfThenElse)
	if !ok {
		t.Fatalf("expr = %#v, want IfThenElse", expr)
	}
	if _, ok := ite.Condition.(*ast.Comparison); !ok {
		t.Errorf("Condition = %#v, want Comparison", ite.Condition)
	}
	pos, ok := ite.PositiveBody.(*ast.String)
	if !ok || pos.Value != "y" {
		t.Errorf("PositiveBody = %#v, want String(y)", ite.PositiveBody)
	}
}

func TestParseMemberAccessChain(t *testing.T) {
	expr := mustParseOne(t, "null?.foo?.bar")
	outer, ok := expr.(*ast.MemberAccess)
	if !ok || !outer.Optional {
		t.Fatalf("expr = %#v, want optional MemberAccess", expr)
	}
	inner, ok := outer.Lhs.(*ast.MemberAccess)
	if !ok || !inner.Optional {
		t.Fatalf("outer.Lhs = %#v, want inner optional MemberAccess", outer.Lhs)
	}
	if _, ok := inner.Lhs.(*ast.Literal); !ok {
		t.Errorf("inner.Lhs = %#v, want Literal(null)", inner.Lhs)
	}
}

func TestParseIndexChain(t *testing.T) {
	expr := mustParseOne(t, "a[0][1]")
	outer, ok := expr.(*ast.Index)
	if !ok {
		t.Fatalf("expr = %#v, want Index", expr)
	}
	if _, ok := outer.Lhs.(*ast.Index); !ok {
		t.Errorf("outer.Lhs = %#v, want inner Index", outer.Lhs)
	}
}

func TestParseInterleavedPostfixChain(t *testing.T) {
	// obj.addTen(5)[0] interleaves all three postfix kinds on one chain:
	// member access, invocation, then indexing.
	expr := mustParseOne(t, "obj.addTen(5)[0]")
	outerIndex, ok := expr.(*ast.Index)
	if !ok {
		t.Fatalf("expr = %#v, want Index", expr)
	}
	call, ok := outerIndex.Lhs.(*ast.FunctionInvocation)
	if !ok {
		t.Fatalf("outerIndex.Lhs = %#v, want FunctionInvocation", outerIndex.Lhs)
	}
	if len(call.Args) != 1 {
		t.Fatalf("len(call.Args) = %d, want 1", len(call.Args))
	}
	member, ok := call.Callee.(*ast.MemberAccess)
	if !ok {
		t.Fatalf("call.Callee = %#v, want MemberAccess", call.Callee)
	}
	if member.Member.(*ast.Identifier).Symbol != "addTen" {
		t.Errorf("member.Member = %#v, want addTen", member.Member)
	}
	if _, ok := member.Lhs.(*ast.Identifier); !ok {
		t.Errorf("member.Lhs = %#v, want Identifier(obj)", member.Lhs)
	}
}

func TestParseRepeatedInvocationChain(t *testing.T) {
	// a(1)(2): the result of one invocation is immediately invoked again.
	expr := mustParseOne(t, "a(1)(2)")
	outer, ok := expr.(*ast.FunctionInvocation)
	if !ok {
		t.Fatalf("expr = %#v, want FunctionInvocation", expr)
	}
	inner, ok := outer.Callee.(*ast.FunctionInvocation)
	if !ok {
		t.Fatalf("outer.Callee = %#v, want FunctionInvocation", outer.Callee)
	}
	if _, ok := inner.Callee.(*ast.Identifier); !ok {
		t.Errorf("inner.Callee = %#v, want Identifier(a)", inner.Callee)
	}
}

func TestParseUnexpectedTokenError(t *testing.T) {
	_, err := Parse("1 +")
	if err == nil {
		t.Fatal("expected an UnexpectedTokenError, got nil")
	}
}

func TestParseSaveStateBalanceAfterCallbackBacktrack(t *testing.T) {
	// "(1 + 2) * 3" looks like it could start a callback ("(" IDENT...) but
	// isn't one ("1" isn't an identifier) — exercises the callback
	// speculative-parse restore path.
	p, err := New("(1 + 2) * 3")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := p.ParseProgram(); err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	if depth := p.lex.SaveDepth(); depth != 0 {
		t.Errorf("SaveDepth() after parse = %d, want 0", depth)
	}
}

func TestParseSaveStateBalanceAfterRealCallback(t *testing.T) {
	p, err := New("(x) -> x + 1")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := p.ParseProgram(); err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	if depth := p.lex.SaveDepth(); depth != 0 {
		t.Errorf("SaveDepth() after parse = %d, want 0", depth)
	}
}

func TestParseConcatenationOperatorIsAmpersand(t *testing.T) {
	expr := mustParseOne(t, `"a" & "b"`)
	if _, ok := expr.(*ast.Concatenation); !ok {
		t.Fatalf("expr = %#v, want Concatenation", expr)
	}
}

func TestParseDisjunctionAndConjunctionNodes(t *testing.T) {
	expr := mustParseOne(t, "true && false || true")
	or, ok := expr.(*ast.Disjunction)
	if !ok {
		t.Fatalf("top node = %#v, want Disjunction", expr)
	}
	if _, ok := or.Lhs.(*ast.Conjunction); !ok {
		t.Errorf("Lhs = %#v, want Conjunction (&& binds tighter than ||)", or.Lhs)
	}
}

func TestParseNullCoalesce(t *testing.T) {
	expr := mustParseOne(t, "a ?? 5")
	if _, ok := expr.(*ast.NullCoalesce); !ok {
		t.Fatalf("expr = %#v, want NullCoalesce", expr)
	}
}
