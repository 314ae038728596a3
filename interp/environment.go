// Package interp implements the tree-walking evaluator: it resolves names
// through the Evaluation and Interpretation environments and a standard
// function registry, delegating every coercion, comparison, and arithmetic
// operation to a value.Interpreter.
package interp

import (
	"github.com/cortesi/exprlang/internal/ident"
	"github.com/cortesi/exprlang/value"
)

// Environment is the caller-supplied bundle of bindings an expression
// evaluates against: static (precomputed) variables, live (producer-backed)
// variables, registered functions, and the value coercion collaborator
// every operator delegates through. Symbols are resolved case-insensitively.
type Environment struct {
	staticVariables *ident.Map[any]
	liveVariables   *ident.Map[func() any]
	functions       *ident.Map[Function]

	// Registry is the standard function registry, consulted before
	// functions during name-based lookup.
	Registry *Registry

	ValueInterpreter value.Interpreter

	// MaxCallDepth caps the live chain of nested closure invocations
	// (recursive callbacks). Zero or negative uses DefaultMaxCallDepth.
	MaxCallDepth int

	// callDepth is shared (by pointer) with every Environment Closure.Apply
	// derives from this one, so it counts the actual call-stack depth
	// across recursive invocations rather than lexical nesting.
	callDepth *int
}

// NewEnvironment creates an empty Environment. A nil vi defaults to
// value.Default{}.
func NewEnvironment(vi value.Interpreter) *Environment {
	if vi == nil {
		vi = value.Default{}
	}
	return &Environment{
		staticVariables:  ident.NewMap[any](),
		liveVariables:    ident.NewMap[func() any](),
		functions:        ident.NewMap[Function](),
		ValueInterpreter: vi,
		callDepth:        new(int),
	}
}

// SetVariable binds name to a fixed value for the lifetime of the
// Environment.
func (e *Environment) SetVariable(name string, v any) {
	e.staticVariables.Set(name, v)
}

// SetLiveVariable binds name to a producer invoked fresh on every lookup.
func (e *Environment) SetLiveVariable(name string, producer func() any) {
	e.liveVariables.Set(name, producer)
}

// SetFunction registers fn under its own Name().
func (e *Environment) SetFunction(fn Function) {
	e.functions.Set(fn.Name(), fn)
}

func (e *Environment) identifierInUse(name string, ienv *InterpretationEnvironment) bool {
	if e.staticVariables.Has(name) || e.liveVariables.Has(name) {
		return true
	}
	if e.functions.Has(name) {
		return true
	}
	if e.Registry != nil && e.Registry.Has(name) {
		return true
	}
	return ienv.hasAnywhere(name)
}

func (e *Environment) lookupVariable(name string, ienv *InterpretationEnvironment) (any, bool) {
	if v, ok := e.staticVariables.Get(name); ok {
		return v, true
	}
	if producer, ok := e.liveVariables.Get(name); ok {
		return producer(), true
	}
	return ienv.getVariable(name)
}

func (e *Environment) lookupFunction(name string, ienv *InterpretationEnvironment) (Function, bool) {
	if e.Registry != nil {
		if fn, ok := e.Registry.Lookup(name); ok {
			return fn, true
		}
	}
	if fn, ok := e.functions.Get(name); ok {
		return fn, true
	}
	return ienv.getFunction(name)
}

// InterpretationEnvironment holds the assignments an evaluation creates,
// scoped per evaluateExpression call. Nested evaluations (callback bodies)
// chain to an outer InterpretationEnvironment for reads but never write
// through it, so a callback can see variables assigned before it was
// invoked without being able to mutate its enclosing scope.
type InterpretationEnvironment struct {
	variables *ident.Map[any]
	functions *ident.Map[Function]
	outer     *InterpretationEnvironment
}

func newInterpretationEnvironment() *InterpretationEnvironment {
	return &InterpretationEnvironment{
		variables: ident.NewMap[any](),
		functions: ident.NewMap[Function](),
	}
}

func newEnclosedInterpretationEnvironment(outer *InterpretationEnvironment) *InterpretationEnvironment {
	ienv := newInterpretationEnvironment()
	ienv.outer = outer
	return ienv
}

func (i *InterpretationEnvironment) getVariable(name string) (any, bool) {
	if v, ok := i.variables.Get(name); ok {
		return v, true
	}
	if i.outer != nil {
		return i.outer.getVariable(name)
	}
	return nil, false
}

func (i *InterpretationEnvironment) getFunction(name string) (Function, bool) {
	if fn, ok := i.functions.Get(name); ok {
		return fn, true
	}
	if i.outer != nil {
		return i.outer.getFunction(name)
	}
	return nil, false
}

func (i *InterpretationEnvironment) hasAnywhere(name string) bool {
	if i.variables.Has(name) || i.functions.Has(name) {
		return true
	}
	if i.outer != nil {
		return i.outer.hasAnywhere(name)
	}
	return false
}

// Registry is the standard function registry (IStandardFunctionRegistry):
// the first place lookupFunction checks, ahead of the caller's Environment
// and any functions an evaluation assigns into its InterpretationEnvironment.
type Registry struct {
	functions *ident.Map[Function]
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{functions: ident.NewMap[Function]()}
}

// Register adds fn under its own Name(), overwriting any existing entry of
// the same (case-insensitive) name.
func (r *Registry) Register(fn Function) {
	r.functions.Set(fn.Name(), fn)
}

// Lookup finds a registered function by name, case-insensitively.
func (r *Registry) Lookup(name string) (Function, bool) {
	return r.functions.Get(name)
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	return r.functions.Has(name)
}
