package exprlang_test

import (
	"fmt"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/cortesi/exprlang/exprerr"
	"github.com/cortesi/exprlang/interp"
	"github.com/cortesi/exprlang/pkg/exprlang"
)

// programs exercises a representative slice of the language end to end:
// arithmetic, comparisons, short-circuiting coalescence, member/index
// access, callbacks, and the common error shapes. Each result is recorded
// as a go-snaps snapshot rather than asserted inline, so a change to
// formatting or error phrasing shows up as a single reviewable diff.
var programs = []struct {
	name    string
	source  string
	prepare func(*interp.Environment)
}{
	{"arithmetic_precedence", "1 + 2 * 3 - 4 / 2", nil},
	{"string_concatenation", `"foo" & "bar" & "baz"`, nil},
	{"comparison_chain", "1 < 2 == true", nil},
	{"null_coalesce", "null ?? 0 ?? 1", nil},
	{"conjunction_disjunction", "true && false || true", nil},
	{"if_then_else", `if 10 > 5 then "big" else "small"`, nil},
	{"assignment_then_use", "x = 41\nx + 1", nil},
	{"callback_immediately_invoked", "((n) -> n * n)(6)", nil},
	{"member_access_on_map", "person.name", func(env *interp.Environment) {
		env.SetVariable("person", map[string]any{"name": "ada", "age": int64(36)})
	}},
	{"index_into_array", "numbers[1]", func(env *interp.Environment) {
		env.SetVariable("numbers", []any{int64(10), int64(20), int64(30)})
	}},
	{"optional_chaining_on_null", "null?.field", nil},
	{"optional_index_out_of_range", "numbers?[10]", func(env *interp.Environment) {
		env.SetVariable("numbers", []any{int64(1), int64(2), int64(3)})
	}},
	{"undefined_variable_error", "undefinedThing + 1", nil},
	{"division_by_zero_error", "1 / 0", nil},
	{"not_callable_error", "(5)(1, 2)", nil},
	{"stdlib_len_split_join", `join(split("a,b,c", ","), "-")`, nil},
	{"stdlib_keys_sorted", "keys(scores)", func(env *interp.Environment) {
		env.SetVariable("scores", map[string]any{"b": int64(1), "a": int64(2)})
	}},
}

func TestProgramSnapshots(t *testing.T) {
	for _, p := range programs {
		t.Run(p.name, func(t *testing.T) {
			engine := exprlang.New(exprlang.WithStandardLibrary())
			if p.prepare != nil {
				p.prepare(engine.Environment())
			}
			result, err := engine.Evaluate(p.source)
			if err != nil {
				if pe, ok := err.(exprerr.PositionedError); ok {
					snaps.MatchSnapshot(t, "error: "+pe.Format(p.source))
					return
				}
				snaps.MatchSnapshot(t, "error: "+err.Error())
				return
			}
			snaps.MatchSnapshot(t, fmt.Sprintf("result: %#v", result))
		})
	}
}
