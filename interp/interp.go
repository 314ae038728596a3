package interp

import (
	"github.com/cortesi/exprlang/ast"
	"github.com/cortesi/exprlang/exprerr"
	"github.com/cortesi/exprlang/internal/ident"
	"github.com/cortesi/exprlang/value"
)

// Evaluate runs every line of program in order against env, returning the
// last line's value. A fresh InterpretationEnvironment is created for the
// call and discarded on return; it never survives across separate Evaluate
// calls.
func Evaluate(program *ast.Program, env *Environment) (any, error) {
	ienv := newInterpretationEnvironment()
	var result any
	for _, line := range program.Lines {
		v, err := evaluateExpression(line, env, ienv)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

func evaluateExpression(expr ast.Expression, env *Environment, ienv *InterpretationEnvironment) (any, error) {
	switch n := expr.(type) {
	case *ast.Long:
		return n.Value, nil
	case *ast.Double:
		return n.Value, nil
	case *ast.String:
		return n.Value, nil
	case *ast.Literal:
		return evalLiteral(n)
	case *ast.Identifier:
		return evalIdentifier(n, env, ienv)
	case *ast.Assignment:
		return evalAssignment(n, env, ienv)
	case *ast.Math:
		return evalMath(n, env, ienv)
	case *ast.Equality:
		return evalEquality(n, env, ienv)
	case *ast.Comparison:
		return evalComparison(n, env, ienv)
	case *ast.Conjunction:
		return evalConjunction(n, env, ienv)
	case *ast.Disjunction:
		return evalDisjunction(n, env, ienv)
	case *ast.Concatenation:
		return evalConcatenation(n, env, ienv)
	case *ast.NullCoalesce:
		return evalNullCoalesce(n, env, ienv)
	case *ast.Invert:
		return evalInvert(n, env, ienv)
	case *ast.FlipSign:
		return evalFlipSign(n, env, ienv)
	case *ast.MemberAccess:
		return evalMemberAccess(n, env, ienv)
	case *ast.Index:
		return evalIndex(n, env, ienv)
	case *ast.FunctionInvocation:
		return evalFunctionInvocation(n, env, ienv)
	case *ast.Callback:
		return newClosure(n, env, ienv), nil
	case *ast.IfThenElse:
		return evalIfThenElse(n, env, ienv)
	case *ast.Program:
		var result any
		for _, line := range n.Lines {
			v, err := evaluateExpression(line, env, ienv)
			if err != nil {
				return nil, err
			}
			result = v
		}
		return result, nil
	default:
		h := expr.Head()
		return nil, exprerr.NewInternalError(h.Row, h.Col, "unhandled expression type %T", expr)
	}
}

func evalLiteral(n *ast.Literal) (any, error) {
	switch n.Kind {
	case ast.LiteralTrue:
		return true, nil
	case ast.LiteralFalse:
		return false, nil
	case ast.LiteralNull:
		return nil, nil
	default:
		h := n.Head()
		return nil, exprerr.NewInternalError(h.Row, h.Col, "unknown literal kind %d", n.Kind)
	}
}

func evalIdentifier(n *ast.Identifier, env *Environment, ienv *InterpretationEnvironment) (any, error) {
	if v, ok := env.lookupVariable(n.Symbol, ienv); ok {
		return v, nil
	}
	return nil, exprerr.NewUndefinedVariableError(n.Head(), n.Symbol)
}

func evalAssignment(n *ast.Assignment, env *Environment, ienv *InterpretationEnvironment) (any, error) {
	rhs, err := evaluateExpression(n.Rhs, env, ienv)
	if err != nil {
		return nil, err
	}
	name := n.Lhs.Symbol
	if env.identifierInUse(name, ienv) {
		return nil, exprerr.NewIdentifierInUseError(n.Lhs.Head(), name)
	}
	if fn, ok := rhs.(Function); ok {
		ienv.functions.Set(name, fn)
		return rhs, nil
	}
	ienv.variables.Set(name, rhs)
	return rhs, nil
}

func evalMath(n *ast.Math, env *Environment, ienv *InterpretationEnvironment) (any, error) {
	lhs, err := evaluateExpression(n.Lhs, env, ienv)
	if err != nil {
		return nil, err
	}
	rhs, err := evaluateExpression(n.Rhs, env, ienv)
	if err != nil {
		return nil, err
	}
	result, err := env.ValueInterpreter.PerformMath(lhs, rhs, n.Op)
	if err != nil {
		if ae, ok := err.(*value.ArithmeticError); ok {
			return nil, exprerr.NewArithmeticError(n.Head(), ae.Operation)
		}
		return nil, err
	}
	return result, nil
}

func evalEquality(n *ast.Equality, env *Environment, ienv *InterpretationEnvironment) (any, error) {
	lhs, err := evaluateExpression(n.Lhs, env, ienv)
	if err != nil {
		return nil, err
	}
	rhs, err := evaluateExpression(n.Rhs, env, ienv)
	if err != nil {
		return nil, err
	}
	eq := env.ValueInterpreter.AreEqual(lhs, rhs, n.Op.Strict())
	if n.Op.Negate() {
		return !eq, nil
	}
	return eq, nil
}

func evalComparison(n *ast.Comparison, env *Environment, ienv *InterpretationEnvironment) (any, error) {
	lhs, err := evaluateExpression(n.Lhs, env, ienv)
	if err != nil {
		return nil, err
	}
	rhs, err := evaluateExpression(n.Rhs, env, ienv)
	if err != nil {
		return nil, err
	}
	cmp := env.ValueInterpreter.Compare(lhs, rhs)
	switch n.Op {
	case ast.LT:
		return cmp < 0, nil
	case ast.LE:
		return cmp <= 0, nil
	case ast.GT:
		return cmp > 0, nil
	case ast.GE:
		return cmp >= 0, nil
	default:
		h := n.Head()
		return nil, exprerr.NewInternalError(h.Row, h.Col, "unknown comparison operator %d", n.Op)
	}
}

// evalConjunction and evalDisjunction evaluate both operands unconditionally
// — && and || are not short-circuit here, preserving the source behavior
// the spec calls out rather than the short-circuit most users would expect.
func evalConjunction(n *ast.Conjunction, env *Environment, ienv *InterpretationEnvironment) (any, error) {
	lhs, err := evaluateExpression(n.Lhs, env, ienv)
	if err != nil {
		return nil, err
	}
	rhs, err := evaluateExpression(n.Rhs, env, ienv)
	if err != nil {
		return nil, err
	}
	return env.ValueInterpreter.AsBoolean(lhs) && env.ValueInterpreter.AsBoolean(rhs), nil
}

func evalDisjunction(n *ast.Disjunction, env *Environment, ienv *InterpretationEnvironment) (any, error) {
	lhs, err := evaluateExpression(n.Lhs, env, ienv)
	if err != nil {
		return nil, err
	}
	rhs, err := evaluateExpression(n.Rhs, env, ienv)
	if err != nil {
		return nil, err
	}
	return env.ValueInterpreter.AsBoolean(lhs) || env.ValueInterpreter.AsBoolean(rhs), nil
}

func evalConcatenation(n *ast.Concatenation, env *Environment, ienv *InterpretationEnvironment) (any, error) {
	lhs, err := evaluateExpression(n.Lhs, env, ienv)
	if err != nil {
		return nil, err
	}
	rhs, err := evaluateExpression(n.Rhs, env, ienv)
	if err != nil {
		return nil, err
	}
	return env.ValueInterpreter.AsString(lhs) + env.ValueInterpreter.AsString(rhs), nil
}

func evalNullCoalesce(n *ast.NullCoalesce, env *Environment, ienv *InterpretationEnvironment) (any, error) {
	lhs, err := evaluateExpression(n.Lhs, env, ienv)
	if err != nil {
		return nil, err
	}
	if lhs != nil {
		return lhs, nil
	}
	return evaluateExpression(n.Rhs, env, ienv)
}

func evalInvert(n *ast.Invert, env *Environment, ienv *InterpretationEnvironment) (any, error) {
	v, err := evaluateExpression(n.Operand, env, ienv)
	if err != nil {
		return nil, err
	}
	return !env.ValueInterpreter.AsBoolean(v), nil
}

func evalFlipSign(n *ast.FlipSign, env *Environment, ienv *InterpretationEnvironment) (any, error) {
	v, err := evaluateExpression(n.Operand, env, ienv)
	if err != nil {
		return nil, err
	}
	if env.ValueInterpreter.HasDecimalPoint(v) {
		return -env.ValueInterpreter.AsDouble(v), nil
	}
	return -env.ValueInterpreter.AsLong(v), nil
}

func evalMemberAccess(n *ast.MemberAccess, env *Environment, ienv *InterpretationEnvironment) (any, error) {
	lhs, err := evaluateExpression(n.Lhs, env, ienv)
	if err != nil {
		return nil, err
	}
	name, err := memberName(n.Member, env, ienv)
	if err != nil {
		return nil, err
	}
	if lhs == nil {
		if n.Optional {
			return nil, nil
		}
		return nil, exprerr.NewUnknownMemberError(n.Head(), name)
	}
	val, ok := getField(lhs, name)
	if !ok {
		if n.Optional {
			return nil, nil
		}
		return nil, exprerr.NewUnknownMemberError(n.Head(), name)
	}
	return val, nil
}

func memberName(member ast.Expression, env *Environment, ienv *InterpretationEnvironment) (string, error) {
	if id, ok := member.(*ast.Identifier); ok {
		return id.Symbol, nil
	}
	v, err := evaluateExpression(member, env, ienv)
	if err != nil {
		return "", err
	}
	return env.ValueInterpreter.AsString(v), nil
}

func getField(v any, name string) (any, bool) {
	switch t := v.(type) {
	case map[string]any:
		if val, ok := t[name]; ok {
			return val, true
		}
		target := ident.Normalize(name)
		for k, val := range t {
			if ident.Normalize(k) == target {
				return val, true
			}
		}
		return nil, false
	case value.Fielded:
		return t.GetField(name)
	default:
		return nil, false
	}
}

func evalIndex(n *ast.Index, env *Environment, ienv *InterpretationEnvironment) (any, error) {
	lhs, err := evaluateExpression(n.Lhs, env, ienv)
	if err != nil {
		return nil, err
	}
	if lhs == nil {
		if n.Optional {
			return nil, nil
		}
		return nil, exprerr.NewNonIndexableValueError(n.Head())
	}
	rhs, err := evaluateExpression(n.Rhs, env, ienv)
	if err != nil {
		return nil, err
	}
	switch seq := lhs.(type) {
	case []any:
		idx := env.ValueInterpreter.AsLong(rhs)
		if idx < 0 || idx >= int64(len(seq)) {
			if n.Optional {
				return nil, nil
			}
			return nil, exprerr.NewInvalidIndexError(n.Head(), idx)
		}
		return seq[idx], nil
	case map[string]any:
		key := env.ValueInterpreter.AsString(rhs)
		val, ok := seq[key]
		if !ok {
			if n.Optional {
				return nil, nil
			}
			return nil, exprerr.NewInvalidMapKeyError(n.Head(), key)
		}
		return val, nil
	default:
		return nil, exprerr.NewNonIndexableValueError(n.Head())
	}
}

func evalIfThenElse(n *ast.IfThenElse, env *Environment, ienv *InterpretationEnvironment) (any, error) {
	cond, err := evaluateExpression(n.Condition, env, ienv)
	if err != nil {
		return nil, err
	}
	if env.ValueInterpreter.AsBoolean(cond) {
		return evaluateExpression(n.PositiveBody, env, ienv)
	}
	return evaluateExpression(n.NegativeBody, env, ienv)
}

func evalFunctionInvocation(n *ast.FunctionInvocation, env *Environment, ienv *InterpretationEnvironment) (any, error) {
	if name, ok := n.Name(); ok {
		fn, found := env.lookupFunction(name.Symbol, ienv)
		if !found {
			if n.Optional {
				return nil, nil
			}
			return nil, exprerr.NewUndefinedFunctionError(n.Head(), name.Symbol)
		}
		return invoke(n, fn, env, ienv)
	}

	calleeVal, err := evaluateExpression(n.Callee, env, ienv)
	if err != nil {
		return nil, err
	}
	fn, ok := asFunction(calleeVal)
	if !ok {
		if n.Optional {
			return nil, nil
		}
		return nil, exprerr.NewNotCallableError(n.Head())
	}
	return invoke(n, fn, env, ienv)
}

// asFunction adapts any runtime value the interpreter can invoke — a
// registered Function, or a host value that only implements value.Callable
// — into a Function. A bare value.Callable has no declared argument list,
// so named arguments against it are always rejected, matching the
// variadic/unchecked function path.
func asFunction(v any) (Function, bool) {
	if fn, ok := v.(Function); ok {
		return fn, true
	}
	if c, ok := v.(value.Callable); ok {
		return &callableFunction{c}, true
	}
	return nil, false
}

type callableFunction struct{ value.Callable }

func (c *callableFunction) Name() string                                    { return "<callable>" }
func (c *callableFunction) Arguments() []string                             { return nil }
func (c *callableFunction) ValidateArguments([]any, value.Interpreter) error { return nil }
func (c *callableFunction) Apply(args []any) (any, error)                   { return c.Call(args) }

func invoke(n *ast.FunctionInvocation, fn Function, env *Environment, ienv *InterpretationEnvironment) (any, error) {
	declared := fn.Arguments()

	var positional []any
	named := make(map[string]any, len(n.Args))
	for _, arg := range n.Args {
		v, err := evaluateExpression(arg.Value, env, ienv)
		if err != nil {
			return nil, err
		}
		if arg.Name == nil {
			positional = append(positional, v)
			continue
		}
		if declared == nil || !containsName(declared, arg.Name.Symbol) {
			return nil, exprerr.NewUndefinedFunctionArgumentNameError(arg.Name.Head(), fn.Name(), arg.Name.Symbol)
		}
		named[ident.Normalize(arg.Name.Symbol)] = v
	}

	var args []any
	if declared != nil {
		args = make([]any, len(declared))
		posIdx := 0
		for i, declName := range declared {
			if v, ok := named[ident.Normalize(declName)]; ok {
				args[i] = v
				continue
			}
			if posIdx < len(positional) {
				args[i] = positional[posIdx]
				posIdx++
			}
		}
	} else {
		args = positional
	}

	if err := fn.ValidateArguments(args, env.ValueInterpreter); err != nil {
		if ae, ok := err.(*ArgumentTypeError); ok {
			return nil, exprerr.NewInvalidFunctionArgumentTypeError(n.Head(), fn.Name(), ae.ArgName, ae.Message)
		}
		return nil, err
	}

	result, err := fn.Apply(args)
	if err != nil {
		if ie, ok := err.(*InvocationError); ok {
			return nil, exprerr.NewInvalidFunctionInvocationError(n.Head(), fn.Name(), ie.ArgIndex, ie.ArgValue, ie.Message)
		}
		return nil, err
	}
	return result, nil
}

func containsName(names []string, name string) bool {
	target := ident.Normalize(name)
	for _, n := range names {
		if ident.Normalize(n) == target {
			return true
		}
	}
	return false
}
