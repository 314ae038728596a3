package interp

import (
	"fmt"

	"github.com/cortesi/exprlang/value"
)

// Function is a callable registered in the standard registry, a caller's
// Environment, or created at evaluation time by assigning a Callback
// literal to an identifier.
type Function interface {
	Name() string
	// Arguments returns the function's declared positional argument names
	// in order. A nil slice marks the function variadic/unchecked: named
	// arguments are then always rejected (there is no declared list to
	// bind them against).
	Arguments() []string
	// ValidateArguments checks bound argument values before Apply runs.
	// Return an *ArgumentTypeError to position a specific argument in the
	// resulting diagnostic.
	ValidateArguments(args []any, vi value.Interpreter) error
	// Apply invokes the function. Return an *InvocationError to report a
	// value-specific failure positioned at the offending argument.
	Apply(args []any) (any, error)
}

// ArgumentTypeError is returned by ValidateArguments to reject a
// specific argument by name; the interpreter converts it into an
// exprerr.InvalidFunctionArgumentTypeError positioned at the call site.
type ArgumentTypeError struct {
	ArgName string
	Message string
}

func (e *ArgumentTypeError) Error() string {
	return fmt.Sprintf("argument %q: %s", e.ArgName, e.Message)
}

// InvocationError is returned by Apply to report that a specific argument
// value, though well-typed, made the call fail; the interpreter converts
// it into an exprerr.InvalidFunctionInvocationError positioned at the call
// site.
type InvocationError struct {
	ArgIndex int
	ArgValue any
	Message  string
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("argument %d (%v): %s", e.ArgIndex, e.ArgValue, e.Message)
}

// NamedFunction adapts a plain Go function into a Function, for registering
// small host builtins without declaring a dedicated type. A nil argNames
// means variadic/unchecked.
type NamedFunction struct {
	FuncName string
	ArgNames []string
	Validate func(args []any, vi value.Interpreter) error
	Fn       func(args []any) (any, error)
}

func (f *NamedFunction) Name() string        { return f.FuncName }
func (f *NamedFunction) Arguments() []string { return f.ArgNames }

func (f *NamedFunction) ValidateArguments(args []any, vi value.Interpreter) error {
	if f.Validate == nil {
		return nil
	}
	return f.Validate(args, vi)
}

func (f *NamedFunction) Apply(args []any) (any, error) {
	return f.Fn(args)
}

var _ Function = (*NamedFunction)(nil)
