// Package ast defines the tagged-variant expression tree exprlang's parser
// produces and its interpreter walks. Every node carries the head and tail
// tokens of the source span it was parsed from, so runtime errors can quote
// the offending text.
package ast

import (
	"bytes"
	"strings"

	"github.com/cortesi/exprlang/token"
)

// Node is the base interface every tree element satisfies.
type Node interface {
	// Head is the first token of the node's source span.
	Head() token.Token
	// Tail is the last token of the node's source span.
	Tail() token.Token
	String() string
}

// Expression is any node the interpreter can evaluate to a value. Every
// variant in this package implements it; the set is closed, so a type
// switch over Expression is expected to be exhaustive.
type Expression interface {
	Node
	expressionNode()
}

// span is embedded by every concrete node to satisfy Head/Tail.
type span struct {
	head, tail token.Token
}

func (s span) Head() token.Token { return s.head }
func (s span) Tail() token.Token { return s.tail }

func newSpan(head, tail token.Token) span { return span{head: head, tail: tail} }

// Program is the root node: one or more expressions evaluated in order.
type Program struct {
	span
	Lines []Expression
}

func NewProgram(head, tail token.Token, lines []Expression) *Program {
	return &Program{newSpan(head, tail), lines}
}

func (p *Program) expressionNode() {}
func (p *Program) String() string {
	parts := make([]string, len(p.Lines))
	for i, l := range p.Lines {
		parts[i] = l.String()
	}
	return strings.Join(parts, "\n")
}

// Long is an int64 literal.
type Long struct {
	span
	Value int64
}

func NewLong(tok token.Token, value int64) *Long {
	return &Long{newSpan(tok, tok), value}
}

func (l *Long) expressionNode() {}
func (l *Long) String() string  { return l.Head().Lexeme }

// Double is a float64 literal.
type Double struct {
	span
	Value float64
}

func NewDouble(tok token.Token, value float64) *Double {
	return &Double{newSpan(tok, tok), value}
}

func (d *Double) expressionNode() {}
func (d *Double) String() string  { return d.Head().Lexeme }

// String is a string literal (escapes already resolved by the lexer).
type String struct {
	span
	Value string
}

func NewString(tok token.Token, value string) *String {
	return &String{newSpan(tok, tok), value}
}

func (s *String) expressionNode() {}
func (s *String) String() string  { return "\"" + s.Value + "\"" }

// LiteralKind distinguishes the three reserved-word literals.
type LiteralKind int

const (
	LiteralTrue LiteralKind = iota
	LiteralFalse
	LiteralNull
)

// Literal is one of true, false, or null.
type Literal struct {
	span
	Kind LiteralKind
}

func NewLiteral(tok token.Token, kind LiteralKind) *Literal {
	return &Literal{newSpan(tok, tok), kind}
}

func (l *Literal) expressionNode() {}
func (l *Literal) String() string  { return l.Head().Lexeme }

// Identifier is a bare symbol reference, case-insensitive at resolution
// time but lexeme-preserving for diagnostics.
type Identifier struct {
	span
	Symbol string
}

func NewIdentifier(tok token.Token) *Identifier {
	return &Identifier{newSpan(tok, tok), tok.Lexeme}
}

func (i *Identifier) expressionNode() {}
func (i *Identifier) String() string  { return i.Symbol }

// MathOp enumerates arithmetic operators.
type MathOp int

const (
	Add MathOp = iota
	Sub
	Mul
	Div
	Mod
	Pow
)

func (op MathOp) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Mod:
		return "%"
	case Pow:
		return "^"
	default:
		return "?"
	}
}

// Math is a binary arithmetic expression.
type Math struct {
	span
	Lhs, Rhs Expression
	Op       MathOp
}

func NewMath(head, tail token.Token, lhs, rhs Expression, op MathOp) *Math {
	return &Math{newSpan(head, tail), lhs, rhs, op}
}

func (m *Math) expressionNode() {}
func (m *Math) String() string  { return binaryString(m.Lhs, m.Op.String(), m.Rhs) }

// ComparisonOp enumerates ordering operators.
type ComparisonOp int

const (
	LT ComparisonOp = iota
	LE
	GT
	GE
)

func (op ComparisonOp) String() string {
	switch op {
	case LT:
		return "<"
	case LE:
		return "<="
	case GT:
		return ">"
	case GE:
		return ">="
	default:
		return "?"
	}
}

// Comparison is a binary ordering expression.
type Comparison struct {
	span
	Lhs, Rhs Expression
	Op       ComparisonOp
}

func NewComparison(head, tail token.Token, lhs, rhs Expression, op ComparisonOp) *Comparison {
	return &Comparison{newSpan(head, tail), lhs, rhs, op}
}

func (c *Comparison) expressionNode() {}
func (c *Comparison) String() string  { return binaryString(c.Lhs, c.Op.String(), c.Rhs) }

// EqualityOp enumerates equality operators; the Exact variants disable
// cross-type coercion.
type EqualityOp int

const (
	EQ EqualityOp = iota
	NE
	EQExact
	NEExact
)

func (op EqualityOp) String() string {
	switch op {
	case EQ:
		return "=="
	case NE:
		return "!="
	case EQExact:
		return "==="
	case NEExact:
		return "!=="
	default:
		return "?"
	}
}

// Strict reports whether op disables cross-type coercion.
func (op EqualityOp) Strict() bool { return op == EQExact || op == NEExact }

// Negate reports whether op is a negated form (NE / NEExact).
func (op EqualityOp) Negate() bool { return op == NE || op == NEExact }

// Equality is a binary equality expression.
type Equality struct {
	span
	Lhs, Rhs Expression
	Op       EqualityOp
}

func NewEquality(head, tail token.Token, lhs, rhs Expression, op EqualityOp) *Equality {
	return &Equality{newSpan(head, tail), lhs, rhs, op}
}

func (e *Equality) expressionNode() {}
func (e *Equality) String() string  { return binaryString(e.Lhs, e.Op.String(), e.Rhs) }

// Conjunction is a non-short-circuit logical AND: both sides are always
// evaluated.
type Conjunction struct {
	span
	Lhs, Rhs Expression
}

func NewConjunction(head, tail token.Token, lhs, rhs Expression) *Conjunction {
	return &Conjunction{newSpan(head, tail), lhs, rhs}
}

func (c *Conjunction) expressionNode() {}
func (c *Conjunction) String() string  { return binaryString(c.Lhs, "&&", c.Rhs) }

// Disjunction is a non-short-circuit logical OR: both sides are always
// evaluated.
type Disjunction struct {
	span
	Lhs, Rhs Expression
}

func NewDisjunction(head, tail token.Token, lhs, rhs Expression) *Disjunction {
	return &Disjunction{newSpan(head, tail), lhs, rhs}
}

func (d *Disjunction) expressionNode() {}
func (d *Disjunction) String() string  { return binaryString(d.Lhs, "||", d.Rhs) }

// Concatenation joins the string forms of both operands with the dedicated
// '&' operator, kept distinct from addition.
type Concatenation struct {
	span
	Lhs, Rhs Expression
}

func NewConcatenation(head, tail token.Token, lhs, rhs Expression) *Concatenation {
	return &Concatenation{newSpan(head, tail), lhs, rhs}
}

func (c *Concatenation) expressionNode() {}
func (c *Concatenation) String() string  { return binaryString(c.Lhs, "&", c.Rhs) }

// NullCoalesce evaluates Lhs; if non-null it short-circuits and Rhs is
// never evaluated.
type NullCoalesce struct {
	span
	Lhs, Rhs Expression
}

func NewNullCoalesce(head, tail token.Token, lhs, rhs Expression) *NullCoalesce {
	return &NullCoalesce{newSpan(head, tail), lhs, rhs}
}

func (n *NullCoalesce) expressionNode() {}
func (n *NullCoalesce) String() string  { return binaryString(n.Lhs, "??", n.Rhs) }

// Assignment binds the value of Rhs to Lhs in the interpretation
// environment. Lhs is always a bare identifier. Rhs is a full expression, so
// a chain such as `x = y = 1` parses right-associatively as `x = (y = 1)`.
type Assignment struct {
	span
	Lhs *Identifier
	Rhs Expression
}

func NewAssignment(head, tail token.Token, lhs *Identifier, rhs Expression) *Assignment {
	return &Assignment{newSpan(head, tail), lhs, rhs}
}

func (a *Assignment) expressionNode() {}
func (a *Assignment) String() string {
	return a.Lhs.String() + " = " + a.Rhs.String()
}

// MemberAccess reads a named member off the value of Lhs. Rhs is either an
// Identifier naming the member directly, or an arbitrary expression
// evaluated and coerced to a string key.
type MemberAccess struct {
	span
	Lhs      Expression
	Member   Expression
	Optional bool
}

func NewMemberAccess(head, tail token.Token, lhs, member Expression, optional bool) *MemberAccess {
	return &MemberAccess{newSpan(head, tail), lhs, member, optional}
}

func (m *MemberAccess) expressionNode() {}
func (m *MemberAccess) String() string {
	op := "."
	if m.Optional {
		op = "?."
	}
	return m.Lhs.String() + op + m.Member.String()
}

// Index reads Lhs[Rhs] — an ordered-sequence position or a mapping key,
// depending on the runtime shape of Lhs.
type Index struct {
	span
	Lhs, Rhs Expression
	Optional bool
}

func NewIndex(head, tail token.Token, lhs, rhs Expression, optional bool) *Index {
	return &Index{newSpan(head, tail), lhs, rhs, optional}
}

func (ix *Index) expressionNode() {}
func (ix *Index) String() string {
	var out bytes.Buffer
	out.WriteString(ix.Lhs.String())
	if ix.Optional {
		out.WriteString("?[")
	} else {
		out.WriteString("[")
	}
	out.WriteString(ix.Rhs.String())
	out.WriteString("]")
	return out.String()
}

// Invert is logical negation: !operand.
type Invert struct {
	span
	Operand Expression
}

func NewInvert(head, tail token.Token, operand Expression) *Invert {
	return &Invert{newSpan(head, tail), operand}
}

func (i *Invert) expressionNode() {}
func (i *Invert) String() string  { return "!" + i.Operand.String() }

// FlipSign is unary minus: -operand.
type FlipSign struct {
	span
	Operand Expression
}

func NewFlipSign(head, tail token.Token, operand Expression) *FlipSign {
	return &FlipSign{newSpan(head, tail), operand}
}

func (f *FlipSign) expressionNode() {}
func (f *FlipSign) String() string  { return "-" + f.Operand.String() }

// Argument is one function-call argument: Name is non-nil for a named
// argument (`name = value`), nil for a positional one.
type Argument struct {
	Value Expression
	Name  *Identifier
}

func (a Argument) String() string {
	if a.Name != nil {
		return a.Name.Symbol + " = " + a.Value.String()
	}
	return a.Value.String()
}

// FunctionInvocation calls Callee with Args, in source order. Callee is
// usually an Identifier (resolved by name against the function registry),
// but may be any expression that evaluates to a callable value — e.g. an
// immediately-invoked callback literal `((x) -> x)(1)`.
type FunctionInvocation struct {
	span
	Callee   Expression
	Args     []Argument
	Optional bool
}

func NewFunctionInvocation(head, tail token.Token, callee Expression, args []Argument, optional bool) *FunctionInvocation {
	return &FunctionInvocation{newSpan(head, tail), callee, args, optional}
}

// Name returns the callee's identifier and true when Callee is a bare
// Identifier — the common named-function-call case.
func (f *FunctionInvocation) Name() (*Identifier, bool) {
	id, ok := f.Callee.(*Identifier)
	return id, ok
}

func (f *FunctionInvocation) expressionNode() {}
func (f *FunctionInvocation) String() string {
	parts := make([]string, len(f.Args))
	for i, a := range f.Args {
		parts[i] = a.String()
	}
	paren := "("
	if f.Optional {
		paren = "?("
	}
	callee := f.Callee.String()
	switch f.Callee.(type) {
	case *Callback, *IfThenElse, *Assignment:
		// these forms end in an open-ended expression, so the argument
		// list would otherwise re-parse as part of that expression
		callee = "(" + callee + ")"
	}
	return callee + paren + strings.Join(parts, ", ") + ")"
}

// Callback is an inline lambda: `(params) -> body`. Evaluating it produces
// a callable value; the body is evaluated lazily, once per invocation.
type Callback struct {
	span
	Params []*Identifier
	Body   Expression
}

func NewCallback(head, tail token.Token, params []*Identifier, body Expression) *Callback {
	return &Callback{newSpan(head, tail), params, body}
}

func (c *Callback) expressionNode() {}
func (c *Callback) String() string {
	parts := make([]string, len(c.Params))
	for i, p := range c.Params {
		parts[i] = p.Symbol
	}
	return "(" + strings.Join(parts, ", ") + ") -> " + c.Body.String()
}

// IfThenElse evaluates Condition, then exactly one of PositiveBody or
// NegativeBody — never both.
type IfThenElse struct {
	span
	Condition    Expression
	PositiveBody Expression
	NegativeBody Expression
}

func NewIfThenElse(head, tail token.Token, cond, pos, neg Expression) *IfThenElse {
	return &IfThenElse{newSpan(head, tail), cond, pos, neg}
}

func (i *IfThenElse) expressionNode() {}
func (i *IfThenElse) String() string {
	return "if " + i.Condition.String() + " then " + i.PositiveBody.String() + " else " + i.NegativeBody.String()
}

func binaryString(lhs Expression, op string, rhs Expression) string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(lhs.String())
	out.WriteString(" ")
	out.WriteString(op)
	out.WriteString(" ")
	out.WriteString(rhs.String())
	out.WriteString(")")
	return out.String()
}
