package interp

import (
	"github.com/cortesi/exprlang/ast"
	"github.com/cortesi/exprlang/exprerr"
	"github.com/cortesi/exprlang/value"
)

// DefaultMaxCallDepth bounds recursive closure invocations when an
// Environment doesn't set MaxCallDepth explicitly.
const DefaultMaxCallDepth = 1024

// Closure is the callable value a CallbackExpression evaluates to. It
// captures a snapshot of the enclosing Environment's static variables at
// creation time; each call extends that snapshot with its own
// position-matched parameter bindings and nothing else escapes back out
// (callbacks never mutate an enclosing scope).
type Closure struct {
	node         *ast.Callback
	env          *Environment
	captured     map[string]any
	capturedIenv *InterpretationEnvironment
}

func newClosure(node *ast.Callback, env *Environment, ienv *InterpretationEnvironment) *Closure {
	captured := make(map[string]any, env.staticVariables.Len())
	env.staticVariables.Range(func(name string, v any) bool {
		captured[name] = v
		return true
	})
	return &Closure{node: node, env: env, captured: captured, capturedIenv: ienv}
}

// Name identifies a closure in diagnostics; callbacks are anonymous.
func (c *Closure) Name() string { return "<callback>" }

func (c *Closure) Arguments() []string {
	names := make([]string, len(c.node.Params))
	for i, p := range c.node.Params {
		names[i] = p.Symbol
	}
	return names
}

func (c *Closure) ValidateArguments(args []any, vi value.Interpreter) error {
	return nil
}

// Apply evaluates the callback body in a fresh Environment seeded with the
// captured static variables plus this call's parameter bindings, chained to
// a fresh InterpretationEnvironment enclosed by the one active where the
// closure itself was created.
func (c *Closure) Apply(args []any) (any, error) {
	limit := c.env.MaxCallDepth
	if limit <= 0 {
		limit = DefaultMaxCallDepth
	}
	*c.env.callDepth++
	defer func() { *c.env.callDepth-- }()
	if *c.env.callDepth > limit {
		return nil, exprerr.NewCallDepthExceededError(c.node.Head(), limit)
	}

	callEnv := NewEnvironment(c.env.ValueInterpreter)
	callEnv.Registry = c.env.Registry
	callEnv.MaxCallDepth = c.env.MaxCallDepth
	callEnv.callDepth = c.env.callDepth
	for name, v := range c.captured {
		callEnv.staticVariables.Set(name, v)
	}
	for i, p := range c.node.Params {
		var v any
		if i < len(args) {
			v = args[i]
		}
		callEnv.staticVariables.Set(p.Symbol, v)
	}
	ienv := newEnclosedInterpretationEnvironment(c.capturedIenv)
	return evaluateExpression(c.node.Body, callEnv, ienv)
}

// Call satisfies value.Callable, letting the interpreter invoke a closure
// directly when a FunctionInvocation's callee is a general expression
// rather than a registry-resolved name.
func (c *Closure) Call(args []any) (any, error) {
	return c.Apply(args)
}

var _ Function = (*Closure)(nil)
var _ value.Callable = (*Closure)(nil)
