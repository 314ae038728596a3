package stdlib

import (
	"github.com/google/uuid"

	"github.com/cortesi/exprlang/interp"
)

// uuidFunctions registers a handful of google/uuid operations as callable
// exprlang functions. uuidNew, uuidV7, and uuidNil cover the three
// generation strategies a host typically needs (random, time-ordered,
// all-zero); uuidV5 and uuidParse round out deterministic generation and
// validation.
func uuidFunctions() []interp.Function {
	return []interp.Function{
		&interp.NamedFunction{
			FuncName: "uuidNew",
			ArgNames: []string{},
			Fn: func(args []any) (any, error) {
				return uuid.New().String(), nil
			},
		},
		&interp.NamedFunction{
			FuncName: "uuidV7",
			ArgNames: []string{},
			Fn: func(args []any) (any, error) {
				u, err := uuid.NewV7()
				if err != nil {
					return nil, &interp.InvocationError{ArgIndex: -1, Message: "uuidV7() failed to generate: " + err.Error()}
				}
				return u.String(), nil
			},
		},
		&interp.NamedFunction{
			FuncName: "uuidNil",
			ArgNames: []string{},
			Fn: func(args []any) (any, error) {
				return uuid.Nil.String(), nil
			},
		},
		&interp.NamedFunction{
			FuncName: "uuidV5",
			ArgNames: []string{"namespace", "name"},
			Fn: func(args []any) (any, error) {
				ns, ok := args[0].(string)
				if !ok {
					return nil, &interp.InvocationError{ArgIndex: 0, ArgValue: args[0], Message: "uuidV5() expects a namespace UUID string"}
				}
				name, ok := args[1].(string)
				if !ok {
					return nil, &interp.InvocationError{ArgIndex: 1, ArgValue: args[1], Message: "uuidV5() expects a string name"}
				}
				nsUUID, err := uuid.Parse(ns)
				if err != nil {
					return nil, &interp.InvocationError{ArgIndex: 0, ArgValue: args[0], Message: "uuidV5() namespace is not a valid UUID: " + err.Error()}
				}
				return uuid.NewSHA1(nsUUID, []byte(name)).String(), nil
			},
		},
		&interp.NamedFunction{
			FuncName: "uuidParse",
			ArgNames: []string{"value"},
			Fn: func(args []any) (any, error) {
				s, ok := args[0].(string)
				if !ok {
					return nil, &interp.InvocationError{ArgIndex: 0, ArgValue: args[0], Message: "uuidParse() expects a string"}
				}
				u, err := uuid.Parse(s)
				if err != nil {
					return nil, nil // not an error condition: caller gets null for an invalid UUID string
				}
				return u.String(), nil
			},
		},
	}
}
