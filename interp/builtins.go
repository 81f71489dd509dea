package interp

import "time"

// A Native is a builtin callable implemented in Go: a name, an arity,
// and a Go closure, with no keyword-argument support since Lox calls
// never use them.
type Native struct {
	name  string
	arity int
	fn    func(thread *Thread, args []Value) (Value, error)
}

var _ Callable = (*Native)(nil)

func (n *Native) Arity() int { return n.arity }

func (n *Native) String() string { return "<native fn " + n.name + ">" }

func (n *Native) Call(thread *Thread, args []Value) (Value, error) {
	return n.fn(thread, args)
}

// registerBuiltins seeds globals with the language's sole standard
// library entry, the way cmd/starlark/starlark.go seeds Universe
// before running anything.
func registerBuiltins(globals *Environment) {
	globals.Define("clock", &Native{
		name:  "clock",
		arity: 0,
		fn: func(thread *Thread, args []Value) (Value, error) {
			return float64(time.Now().UnixNano()) / float64(time.Second), nil
		},
	})
}
