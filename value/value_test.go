package value

import (
	"testing"

	"github.com/cortesi/exprlang/ast"
)

func TestAsBooleanCoercions(t *testing.T) {
	d := Default{}
	cases := []struct {
		in   any
		want bool
	}{
		{nil, false},
		{int64(0), false},
		{int64(5), true},
		{"true", true},
		{"False", false},
		{"", false},
		{"anything else", true},
		{[]any{}, false},
		{[]any{1}, true},
	}
	for _, c := range cases {
		if got := d.AsBoolean(c.in); got != c.want {
			t.Errorf("AsBoolean(%#v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestAsStringFormatsFloatsWithoutTrailingZeros(t *testing.T) {
	d := Default{}
	if got := d.AsString(float64(3)); got != "3" {
		t.Errorf("AsString(3.0) = %q, want %q", got, "3")
	}
	if got := d.AsString(int64(42)); got != "42" {
		t.Errorf("AsString(42) = %q, want %q", got, "42")
	}
	if got := d.AsString(nil); got != "null" {
		t.Errorf("AsString(nil) = %q, want %q", got, "null")
	}
}

func TestHasDecimalPoint(t *testing.T) {
	d := Default{}
	if !d.HasDecimalPoint(float64(1.5)) {
		t.Error("HasDecimalPoint(1.5 float64) = false, want true")
	}
	if d.HasDecimalPoint(int64(1)) {
		t.Error("HasDecimalPoint(1 int64) = true, want false")
	}
	if !d.HasDecimalPoint("3.14") {
		t.Error(`HasDecimalPoint("3.14") = false, want true`)
	}
}

func TestAreEqualStrictVsLoose(t *testing.T) {
	d := Default{}
	if !d.AreEqual(int64(1), float64(1), false) {
		t.Error("loose AreEqual(1, 1.0) = false, want true")
	}
	if d.AreEqual(int64(1), float64(1), true) {
		t.Error("strict AreEqual(1, 1.0) = true, want false")
	}
	if !d.AreEqual(nil, nil, true) {
		t.Error("AreEqual(nil, nil) = false, want true")
	}
}

func TestCompareNumericAndString(t *testing.T) {
	d := Default{}
	if d.Compare(int64(1), int64(2)) >= 0 {
		t.Error("Compare(1, 2) >= 0, want negative")
	}
	if d.Compare("a", "b") >= 0 {
		t.Error(`Compare("a", "b") >= 0, want negative`)
	}
	if d.Compare(int64(5), int64(5)) != 0 {
		t.Error("Compare(5, 5) != 0")
	}
}

func TestPerformMathIntegerStaysInteger(t *testing.T) {
	d := Default{}
	got, err := d.PerformMath(int64(2), int64(3), ast.Add)
	if err != nil {
		t.Fatalf("PerformMath: %v", err)
	}
	if i, ok := got.(int64); !ok || i != 5 {
		t.Errorf("PerformMath(2, 3, Add) = %#v, want int64(5)", got)
	}
}

func TestPerformMathDivAlwaysFloat(t *testing.T) {
	d := Default{}
	got, err := d.PerformMath(int64(7), int64(2), ast.Div)
	if err != nil {
		t.Fatalf("PerformMath: %v", err)
	}
	if f, ok := got.(float64); !ok || f != 3.5 {
		t.Errorf("PerformMath(7, 2, Div) = %#v, want float64(3.5)", got)
	}
}

func TestPerformMathDivisionByZero(t *testing.T) {
	d := Default{}
	if _, err := d.PerformMath(int64(1), int64(0), ast.Div); err == nil {
		t.Fatal("PerformMath(1, 0, Div): expected an error, got nil")
	}
	if _, err := d.PerformMath(int64(1), int64(0), ast.Mod); err == nil {
		t.Fatal("PerformMath(1, 0, Mod): expected an error, got nil")
	}
}

func TestPerformMathExponentLeftAssociativeValue(t *testing.T) {
	d := Default{}
	// (2^3)^2 == 64, matching the parser's left-associative ^.
	first, err := d.PerformMath(int64(2), int64(3), ast.Pow)
	if err != nil {
		t.Fatalf("PerformMath: %v", err)
	}
	second, err := d.PerformMath(first, int64(2), ast.Pow)
	if err != nil {
		t.Fatalf("PerformMath: %v", err)
	}
	if i, ok := second.(int64); !ok || i != 64 {
		t.Errorf("(2^3)^2 = %#v, want int64(64)", second)
	}
}

func TestTryParseNumber(t *testing.T) {
	d := Default{}
	n, ok := d.TryParseNumber("3.25")
	if !ok {
		t.Fatal("TryParseNumber(\"3.25\") ok = false, want true")
	}
	f, _ := n.Float64()
	if f != 3.25 {
		t.Errorf("TryParseNumber(\"3.25\") = %v, want 3.25", f)
	}
	if _, ok := d.TryParseNumber("not a number"); ok {
		t.Error(`TryParseNumber("not a number") ok = true, want false`)
	}
}
