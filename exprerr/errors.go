// Package exprerr defines the positioned error taxonomy raised by the
// lexer, parser, and interpreter. Every error carries the row/column where
// it was detected and can render a source-quoting message via Format.
package exprerr

import (
	"fmt"
	"strings"

	"github.com/cortesi/exprlang/token"
)

// PositionedError is satisfied by every error type in this package.
type PositionedError interface {
	error
	Position() (row, col int)
	// Format renders the error with a quoted line of source and a caret
	// pointing at the offending column, the way a human-facing diagnostic
	// tool presents it. source may be empty, in which case Format degrades
	// to Error().
	Format(source string) string
}

// base carries the shared row/col fields and formatting logic; every
// concrete error type embeds it.
type base struct {
	Row, Col int
	msg      string
}

func (b base) Position() (row, col int) { return b.Row, b.Col }

func (b base) Error() string { return b.msg }

func (b base) Format(source string) string {
	if source == "" {
		return b.msg
	}
	lines := strings.Split(source, "\n")
	if b.Row < 1 || b.Row > len(lines) {
		return b.msg
	}
	line := lines[b.Row-1]
	var sb strings.Builder
	fmt.Fprintf(&sb, "line %d:%d: %s\n", b.Row, b.Col, b.msg)
	sb.WriteString(line)
	sb.WriteString("\n")
	if b.Col >= 1 {
		sb.WriteString(strings.Repeat(" ", b.Col-1))
	}
	sb.WriteString("^")
	return sb.String()
}

func newBase(row, col int, format string, args ...interface{}) base {
	return base{Row: row, Col: col, msg: fmt.Sprintf(format, args...)}
}

// --- Lexical errors ---------------------------------------------------

// UnknownTokenError is raised when no token reader in the tokenizer's trial
// order accepts the character at (row, col).
type UnknownTokenError struct{ base }

func NewUnknownTokenError(row, col int) *UnknownTokenError {
	return &UnknownTokenError{newBase(row, col, "unknown token at %d:%d", row, col)}
}

// UnterminatedStringError is raised when a STRING literal reaches
// end-of-input before its closing quote.
type UnterminatedStringError struct{ base }

func NewUnterminatedStringError(row, col int) *UnterminatedStringError {
	return &UnterminatedStringError{newBase(row, col, "unterminated string starting at %d:%d", row, col)}
}

// --- Syntactic errors ---------------------------------------------------

// UnexpectedTokenError is raised when the parser requires one of a set of
// token types but finds another.
type UnexpectedTokenError struct {
	base
	Actual   token.Type
	Expected []token.Type
}

func NewUnexpectedTokenError(tok token.Token, expected ...token.Type) *UnexpectedTokenError {
	want := make([]string, len(expected))
	for i, t := range expected {
		want[i] = string(t)
	}
	return &UnexpectedTokenError{
		base:     newBase(tok.Row, tok.Col, "unexpected token %q (%s), expected one of [%s]", tok.Lexeme, tok.Type, strings.Join(want, ", ")),
		Actual:   tok.Type,
		Expected: expected,
	}
}

// --- Semantic errors -----------------------------------------------------

type UndefinedVariableError struct {
	base
	Name string
}

func NewUndefinedVariableError(tok token.Token, name string) *UndefinedVariableError {
	return &UndefinedVariableError{newBase(tok.Row, tok.Col, "undefined variable %q", name), name}
}

type UndefinedFunctionError struct {
	base
	Name string
}

func NewUndefinedFunctionError(tok token.Token, name string) *UndefinedFunctionError {
	return &UndefinedFunctionError{newBase(tok.Row, tok.Col, "undefined function %q", name), name}
}

type UndefinedFunctionArgumentNameError struct {
	base
	FunctionName, ArgName string
}

func NewUndefinedFunctionArgumentNameError(tok token.Token, functionName, argName string) *UndefinedFunctionArgumentNameError {
	return &UndefinedFunctionArgumentNameError{
		newBase(tok.Row, tok.Col, "function %q has no argument named %q", functionName, argName),
		functionName, argName,
	}
}

type NonNamedFunctionArgumentError struct{ base }

func NewNonNamedFunctionArgumentError(tok token.Token) *NonNamedFunctionArgumentError {
	return &NonNamedFunctionArgumentError{newBase(tok.Row, tok.Col, "positional argument may not follow a named argument")}
}

type IdentifierInUseError struct {
	base
	Name string
}

func NewIdentifierInUseError(tok token.Token, name string) *IdentifierInUseError {
	return &IdentifierInUseError{newBase(tok.Row, tok.Col, "identifier %q is already in use", name), name}
}

type UnknownMemberError struct {
	base
	Member string
}

func NewUnknownMemberError(tok token.Token, member string) *UnknownMemberError {
	return &UnknownMemberError{newBase(tok.Row, tok.Col, "unknown member %q", member), member}
}

type InvalidIndexError struct {
	base
	Index interface{}
}

func NewInvalidIndexError(tok token.Token, index interface{}) *InvalidIndexError {
	return &InvalidIndexError{newBase(tok.Row, tok.Col, "index %v out of bounds", index), index}
}

type InvalidMapKeyError struct {
	base
	Key interface{}
}

func NewInvalidMapKeyError(tok token.Token, key interface{}) *InvalidMapKeyError {
	return &InvalidMapKeyError{newBase(tok.Row, tok.Col, "no such key %v", key), key}
}

type NonIndexableValueError struct{ base }

func NewNonIndexableValueError(tok token.Token) *NonIndexableValueError {
	return &NonIndexableValueError{newBase(tok.Row, tok.Col, "value is not indexable")}
}

// NotCallableError is raised when a FunctionInvocation's callee is not a
// bare identifier and the value it evaluates to isn't something the
// interpreter knows how to invoke (e.g. a Callback or host Function).
type NotCallableError struct{ base }

func NewNotCallableError(tok token.Token) *NotCallableError {
	return &NotCallableError{newBase(tok.Row, tok.Col, "value is not callable")}
}

// ArithmeticError positions a value.ArithmeticError (division/modulo by
// zero, integer overflow) at the Math expression that raised it.
type ArithmeticError struct {
	base
	Reason string
}

func NewArithmeticError(tok token.Token, reason string) *ArithmeticError {
	return &ArithmeticError{newBase(tok.Row, tok.Col, "arithmetic error: %s", reason), reason}
}

type InvalidFunctionInvocationError struct {
	base
	FunctionName string
	ArgIndex     int
	ArgValue     interface{}
}

func NewInvalidFunctionInvocationError(tok token.Token, functionName string, argIndex int, argValue interface{}, message string) *InvalidFunctionInvocationError {
	return &InvalidFunctionInvocationError{
		newBase(tok.Row, tok.Col, "call to %q failed on argument %d (%v): %s", functionName, argIndex, argValue, message),
		functionName, argIndex, argValue,
	}
}

type InvalidFunctionArgumentTypeError struct {
	base
	FunctionName, ArgName string
}

func NewInvalidFunctionArgumentTypeError(tok token.Token, functionName, argName, message string) *InvalidFunctionArgumentTypeError {
	return &InvalidFunctionArgumentTypeError{
		newBase(tok.Row, tok.Col, "argument %q of %q has invalid type: %s", argName, functionName, message),
		functionName, argName,
	}
}

// CallDepthExceededError signals that a chain of closure invocations
// exceeded an Environment's configured MaxCallDepth, most often an
// unbounded recursive callback.
type CallDepthExceededError struct{ base }

func NewCallDepthExceededError(tok token.Token, limit int) *CallDepthExceededError {
	return &CallDepthExceededError{newBase(tok.Row, tok.Col, "call depth exceeded limit of %d", limit)}
}

// --- Internal errors -----------------------------------------------------

// InternalError signals a tag the parser or interpreter treated as
// exhaustive but didn't recognize — a bug in exprlang itself, never a user
// error.
type InternalError struct{ base }

func NewInternalError(row, col int, format string, args ...interface{}) *InternalError {
	return &InternalError{newBase(row, col, "internal error: "+format, args...)}
}
