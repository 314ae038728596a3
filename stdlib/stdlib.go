// Package stdlib provides a reference standard function library for
// exprlang: a small set of host-defined interp.Function implementations
// covering string/collection utilities, UUID generation, and SQLite access.
// None of this is part of the core evaluator's contract — a host embedding
// token/lexer/ast/parser/interp/value directly is free to register its own
// functions instead, or none at all.
package stdlib

import (
	"sort"
	"strings"

	"github.com/cortesi/exprlang/interp"
	"github.com/cortesi/exprlang/value"
)

// Register adds every stdlib function to reg.
func Register(reg *interp.Registry) {
	for _, fn := range coreFunctions() {
		reg.Register(fn)
	}
	for _, fn := range uuidFunctions() {
		reg.Register(fn)
	}
	for _, fn := range sqlFunctions() {
		reg.Register(fn)
	}
}

// NewRegistryWithDefaults creates a fresh interp.Registry with every stdlib
// function already registered, for callers that don't need to compose it
// with their own registry.
func NewRegistryWithDefaults() *interp.Registry {
	reg := interp.NewRegistry()
	Register(reg)
	return reg
}

func coreFunctions() []interp.Function {
	return []interp.Function{
		&interp.NamedFunction{
			FuncName: "len",
			ArgNames: []string{"value"},
			Fn:       builtinLen,
		},
		&interp.NamedFunction{
			FuncName: "split",
			ArgNames: []string{"value", "separator"},
			Fn:       builtinSplit,
		},
		&interp.NamedFunction{
			FuncName: "join",
			ArgNames: []string{"values", "separator"},
			Fn:       builtinJoin,
		},
		&interp.NamedFunction{
			FuncName: "keys",
			ArgNames: []string{"value"},
			Fn:       builtinKeys,
		},
	}
}

func builtinLen(args []any) (any, error) {
	switch v := args[0].(type) {
	case string:
		return int64(len([]rune(v))), nil
	case []any:
		return int64(len(v)), nil
	case map[string]any:
		return int64(len(v)), nil
	case nil:
		return int64(0), nil
	default:
		return nil, &interp.InvocationError{ArgIndex: 0, ArgValue: args[0], Message: "len() expects a string, array, or map"}
	}
}

// defaultSplitSeparator is used when split() is called with no separator
// argument, matching the conventional comma-separated-values reading of a
// bare string.
const defaultSplitSeparator = ","

func builtinSplit(args []any) (any, error) {
	s, ok := args[0].(string)
	if !ok {
		return nil, &interp.InvocationError{ArgIndex: 0, ArgValue: args[0], Message: "split() expects a string as its first argument"}
	}
	sep := defaultSplitSeparator
	if args[1] != nil {
		sep, ok = args[1].(string)
		if !ok {
			return nil, &interp.InvocationError{ArgIndex: 1, ArgValue: args[1], Message: "split() expects a string separator"}
		}
	}
	parts := strings.Split(s, sep)
	out := make([]any, len(parts))
	for i, p := range parts {
		out[i] = p
	}
	return out, nil
}

func builtinJoin(args []any) (any, error) {
	list, ok := args[0].([]any)
	if !ok {
		return nil, &interp.InvocationError{ArgIndex: 0, ArgValue: args[0], Message: "join() expects an array as its first argument"}
	}
	sep, ok := args[1].(string)
	if !ok {
		return nil, &interp.InvocationError{ArgIndex: 1, ArgValue: args[1], Message: "join() expects a string separator"}
	}
	parts := make([]string, len(list))
	vi := value.Default{}
	for i, v := range list {
		parts[i] = vi.AsString(v)
	}
	return strings.Join(parts, sep), nil
}

func builtinKeys(args []any) (any, error) {
	m, ok := args[0].(map[string]any)
	if !ok {
		return nil, &interp.InvocationError{ArgIndex: 0, ArgValue: args[0], Message: "keys() expects a map"}
	}
	out := make([]any, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].(string) < out[j].(string) })
	return out, nil
}
