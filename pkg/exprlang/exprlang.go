// Package exprlang is the embedding interface for the expression language:
// a thin composition of lexer, parser, and interp that a host imports
// instead of wiring those packages together itself.
//
// Most hosts only need Engine.Evaluate. Engine.Tokenize and Engine.Parse
// are exposed for hosts that want to inspect the token stream or AST
// directly (syntax highlighters, linters, formatters) without re-running
// the whole pipeline.
package exprlang

import (
	"github.com/cortesi/exprlang/ast"
	"github.com/cortesi/exprlang/interp"
	"github.com/cortesi/exprlang/lexer"
	"github.com/cortesi/exprlang/parser"
	"github.com/cortesi/exprlang/stdlib"
	"github.com/cortesi/exprlang/token"
	"github.com/cortesi/exprlang/value"
)

// Engine owns the environment an expression evaluates against: variable
// bindings, registered functions, and the value coercion rules. An Engine
// is safe to reuse across many Evaluate calls but, like the Environment it
// wraps, is not safe for concurrent use.
type Engine struct {
	env *interp.Environment
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithValueInterpreter overrides the value coercion collaborator. The
// default is value.Default{}.
func WithValueInterpreter(vi value.Interpreter) Option {
	return func(e *Engine) {
		e.env.ValueInterpreter = vi
	}
}

// WithRegistry installs a shared standard function registry, consulted
// ahead of any functions registered directly on the Engine. Hosts wiring in
// stdlib.Register typically use this.
func WithRegistry(reg *interp.Registry) Option {
	return func(e *Engine) {
		e.env.Registry = reg
	}
}

// WithVariable binds name to a fixed value for the lifetime of the Engine.
func WithVariable(name string, v any) Option {
	return func(e *Engine) {
		e.env.SetVariable(name, v)
	}
}

// WithLiveVariable binds name to a producer invoked fresh on every lookup.
func WithLiveVariable(name string, producer func() any) Option {
	return func(e *Engine) {
		e.env.SetLiveVariable(name, producer)
	}
}

// WithFunction registers fn under its own Name() directly on the Engine,
// ahead of anything supplied via WithRegistry only if looked up after the
// Registry misses; see interp.Environment.lookupFunction for the precise
// order.
func WithFunction(fn interp.Function) Option {
	return func(e *Engine) {
		e.env.SetFunction(fn)
	}
}

// WithMaxCallDepth caps the live chain of nested closure invocations, most
// often an unbounded recursive callback. Zero or negative (the default)
// uses interp.DefaultMaxCallDepth.
func WithMaxCallDepth(n int) Option {
	return func(e *Engine) {
		e.env.MaxCallDepth = n
	}
}

// WithStandardLibrary registers every stdlib function onto the Engine's
// registry, creating one via interp.NewRegistry first if WithRegistry
// hasn't already supplied one. Hosts that want only a subset of stdlib
// should call stdlib.Register against their own interp.Registry and pass
// it to WithRegistry instead.
func WithStandardLibrary() Option {
	return func(e *Engine) {
		if e.env.Registry == nil {
			e.env.Registry = interp.NewRegistry()
		}
		stdlib.Register(e.env.Registry)
	}
}

// New creates an Engine with the given options applied over an empty
// environment using value.Default{} coercion.
func New(opts ...Option) *Engine {
	e := &Engine{env: interp.NewEnvironment(nil)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Tokenize runs the lexer over source and returns every token up to and
// including EOF, or the first lexical error encountered.
func (e *Engine) Tokenize(source string) ([]token.Token, error) {
	l := lexer.New(source)
	var tokens []token.Token
	for {
		tok, err := l.ConsumeToken()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}

// Parse tokenizes and parses source, returning the resulting program
// without evaluating it.
func (e *Engine) Parse(source string) (*ast.Program, error) {
	return parser.Parse(source)
}

// Evaluate parses source and evaluates it against the Engine's
// environment, returning the value of its last expression statement.
func (e *Engine) Evaluate(source string) (any, error) {
	program, err := e.Parse(source)
	if err != nil {
		return nil, err
	}
	return e.EvaluateProgram(program)
}

// EvaluateProgram evaluates an already-parsed program against the Engine's
// environment. Pairing Parse with EvaluateProgram lets a host parse once
// and evaluate the same program repeatedly against differently configured
// Engines, or validate syntax ahead of time without committing to run it.
func (e *Engine) EvaluateProgram(program *ast.Program) (any, error) {
	return interp.Evaluate(program, e.env)
}

// Environment exposes the Engine's underlying interp.Environment for hosts
// that need to bind variables or functions after construction, rather than
// only through New's options.
func (e *Engine) Environment() *interp.Environment {
	return e.env
}
