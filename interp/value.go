package interp

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// A Value is any Lox runtime value: nil, bool, float64, string, or one
// of *Function/*Class/*Instance/*Native. There is no separate tagged
// wrapper type — exactly the types above are the whole of the runtime
// type lattice, type-switched on at every operator and builtin.
type Value interface{}

// Callable is implemented by every value that can appear in call
// position: user-defined functions and methods, classes (calling a
// class constructs an instance), and natives such as clock.
type Callable interface {
	Arity() int
	Call(thread *Thread, args []Value) (Value, error)
	String() string
}

func isTruthy(v Value) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}

// isEqual implements Lox's "==": IEEE-754 equality for numbers (so
// NaN != NaN), same-type comparison otherwise, and nil only equal to
// nil. It never panics on mixed types; mismatched types simply compare
// unequal.
func isEqual(a, b Value) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	an, aok := a.(float64)
	bn, bok := b.(float64)
	if aok && bok {
		return an == bn
	}
	return a == b
}

// Stringify renders v the way Lox's "print" statement does, exported
// for hosts (the REPL) that need to print a bare expression's result
// the same way.
func Stringify(v Value) string {
	return stringify(v)
}

// stringify renders v the way Lox's "print" statement does.
func stringify(v Value) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case bool:
		if x {
			return "true"
		}
		return "false"
	case float64:
		return formatNumber(x)
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return "nil"
	}
}

// formatNumber renders a Lox number. Go's strconv already omits the
// trailing ".0" that Java's Double.toString appends to integral values,
// so no suffix-stripping is needed here. What is normalized is the
// spelling of the infinities/NaN that division by zero yields, and Go's
// exponential notation, which is replaced by fixed-point.
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if strings.ContainsAny(s, "eE") {
		// Very large or very small magnitudes (1e+06, 1e-05): fall back
		// to a fixed-point rendering so output stays free of Go's
		// exponential notation.
		s = strconv.FormatFloat(f, 'f', -1, 64)
	}
	return s
}
