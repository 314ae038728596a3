// Package value defines the pluggable value-coercion contract the
// interpreter delegates to for every boolean test, string coercion,
// comparison, equality check, and arithmetic operation it performs. Runtime
// values are represented with Go's native dynamic typing (nil, bool, int64,
// float64, string, []any, map[string]any, or a Callable) rather than a
// boxed wrapper type, so the interpreter and host application exchange
// values without an adapter layer.
package value

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/cortesi/exprlang/ast"
)

// Callable is implemented by any runtime value that a FunctionInvocation may
// invoke when its callee is not resolved through the function registry —
// closures produced by CallbackExpression, primarily.
type Callable interface {
	Call(args []any) (any, error)
}

// Fielded is implemented by host-provided runtime values that expose named
// members to MemberAccessExpression. exprlang never reaches for language
// runtime reflection to read a field — a host value that wants member
// access has to say so explicitly by implementing this.
type Fielded interface {
	GetField(name string) (any, bool)
}

// Interpreter converts arbitrary runtime values to the primitive shapes the
// interpreter's evaluation rules need, and performs the handful of dynamic
// operations (equality, ordering, arithmetic) those rules delegate through.
// Implementations must be safe for concurrent use: an AST may be evaluated
// from multiple goroutines against independent environments sharing one
// Interpreter.
type Interpreter interface {
	AsBoolean(v any) bool
	AsLong(v any) int64
	AsDouble(v any) float64
	AsString(v any) string
	HasDecimalPoint(v any) bool
	// TryParseNumber parses v (typically a string) as an arbitrary-precision
	// decimal. ok is false when v cannot be interpreted as a number.
	TryParseNumber(v any) (n *big.Float, ok bool)

	// AreEqual reports whether a and b are equal. When strict is true,
	// values of different dynamic type are never equal, even when they
	// coerce to the same primitive (EQ_EXACT/NE_EXACT semantics).
	AreEqual(a, b any, strict bool) bool

	// Compare orders a and b, returning a negative number, zero, or a
	// positive number as a is less than, equal to, or greater than b.
	Compare(a, b any) int

	// PerformMath applies op to a and b, choosing an integer or
	// floating-point result based on the operand shapes.
	PerformMath(a, b any, op ast.MathOp) (any, error)
}

// ArithmeticError reports a failed arithmetic operation: division or modulo
// by zero, or integer overflow.
type ArithmeticError struct {
	Operation string
}

func (e *ArithmeticError) Error() string {
	return fmt.Sprintf("arithmetic error: %s", e.Operation)
}

// Default is the reference Interpreter implementation: int64 for whole
// numbers, float64 otherwise, case-insensitive "true"/"yes"/"1"/"t"/"y"
// string-to-boolean coercion, and big.Float for TryParseNumber.
type Default struct{}

var _ Interpreter = Default{}

func (Default) AsBoolean(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case int64:
		return t != 0
	case float64:
		return t != 0
	case string:
		switch strings.ToLower(t) {
		case "true", "yes", "1", "t", "y":
			return true
		case "false", "no", "0", "f", "n", "":
			return false
		}
		return t != ""
	case []any:
		return len(t) != 0
	case map[string]any:
		return len(t) != 0
	default:
		return true
	}
}

func (Default) AsLong(v any) int64 {
	switch t := v.(type) {
	case nil:
		return 0
	case bool:
		if t {
			return 1
		}
		return 0
	case int64:
		return t
	case float64:
		return int64(t)
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return int64(f)
		}
		return 0
	default:
		return 0
	}
}

func (Default) AsDouble(v any) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case bool:
		if t {
			return 1
		}
		return 0
	case int64:
		return float64(t)
	case float64:
		return t
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return f
		}
		return 0
	default:
		return 0
	}
}

func (d Default) AsString(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case bool:
		if t {
			return "true"
		}
		return "false"
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		if math.IsInf(t, 1) {
			return "INF"
		}
		if math.IsInf(t, -1) {
			return "-INF"
		}
		if math.IsNaN(t) {
			return "NaN"
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

func (Default) HasDecimalPoint(v any) bool {
	switch t := v.(type) {
	case float64:
		return true
	case string:
		return strings.Contains(t, ".")
	default:
		return false
	}
}

func (Default) TryParseNumber(v any) (*big.Float, bool) {
	s, ok := v.(string)
	if !ok {
		switch t := v.(type) {
		case int64:
			return new(big.Float).SetInt64(t), true
		case float64:
			return big.NewFloat(t), true
		default:
			return nil, false
		}
	}
	n, ok := new(big.Float).SetString(strings.TrimSpace(s))
	return n, ok
}

func (d Default) AreEqual(a, b any, strict bool) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	sameType := fmt.Sprintf("%T", a) == fmt.Sprintf("%T", b)
	if strict && !sameType {
		return false
	}
	switch av := a.(type) {
	case int64:
		switch bv := b.(type) {
		case int64:
			return av == bv
		case float64:
			return float64(av) == bv
		}
	case float64:
		switch bv := b.(type) {
		case float64:
			return av == bv
		case int64:
			return av == float64(bv)
		}
	case string:
		if bv, ok := b.(string); ok {
			return av == bv
		}
	case bool:
		if bv, ok := b.(bool); ok {
			return av == bv
		}
	}
	if !sameType {
		return false
	}
	return d.AsString(a) == d.AsString(b)
}

func (d Default) Compare(a, b any) int {
	as, aIsStr := a.(string)
	bs, bIsStr := b.(string)
	if aIsStr && bIsStr {
		return strings.Compare(as, bs)
	}
	af, bf := d.AsDouble(a), d.AsDouble(b)
	switch {
	case af < bf:
		return -1
	case af > bf:
		return 1
	default:
		return 0
	}
}

func (d Default) PerformMath(a, b any, op ast.MathOp) (any, error) {
	ai, aIsInt := a.(int64)
	bi, bIsInt := b.(int64)
	if aIsInt && bIsInt && op != ast.Div {
		return integerMath(ai, bi, op)
	}

	af, bf := d.AsDouble(a), d.AsDouble(b)
	switch op {
	case ast.Add:
		return af + bf, nil
	case ast.Sub:
		return af - bf, nil
	case ast.Mul:
		return af * bf, nil
	case ast.Div:
		if bf == 0 {
			return nil, &ArithmeticError{Operation: "division by zero"}
		}
		return af / bf, nil
	case ast.Mod:
		if bf == 0 {
			return nil, &ArithmeticError{Operation: "modulo by zero"}
		}
		return math.Mod(af, bf), nil
	case ast.Pow:
		return math.Pow(af, bf), nil
	default:
		return nil, &ArithmeticError{Operation: fmt.Sprintf("unsupported operator %s", op)}
	}
}

func integerMath(a, b int64, op ast.MathOp) (any, error) {
	switch op {
	case ast.Add:
		if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
			return nil, &ArithmeticError{Operation: "integer overflow in addition"}
		}
		return a + b, nil
	case ast.Sub:
		if (b < 0 && a > math.MaxInt64+b) || (b > 0 && a < math.MinInt64+b) {
			return nil, &ArithmeticError{Operation: "integer overflow in subtraction"}
		}
		return a - b, nil
	case ast.Mul:
		if a != 0 && b != 0 {
			result := a * b
			if result/a != b {
				return nil, &ArithmeticError{Operation: "integer overflow in multiplication"}
			}
			return result, nil
		}
		return int64(0), nil
	case ast.Mod:
		if b == 0 {
			return nil, &ArithmeticError{Operation: "modulo by zero"}
		}
		return a % b, nil
	case ast.Pow:
		return int64(math.Pow(float64(a), float64(b))), nil
	default:
		return nil, &ArithmeticError{Operation: fmt.Sprintf("unsupported operator %s", op)}
	}
}
