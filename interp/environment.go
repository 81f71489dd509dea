package interp

import (
	"fmt"

	"github.com/truescotian/jlox/token"
)

// An Environment is one frame of chained lexical bindings: a map of
// names to values, plus a link to the enclosing frame it shadows.
type Environment struct {
	enclosing *Environment
	values    map[string]Value
}

// NewEnvironment returns an environment with no enclosing frame — the
// global environment.
func NewEnvironment() *Environment {
	return &Environment{values: make(map[string]Value)}
}

// NewChildEnvironment returns a new frame nested inside enclosing.
func NewChildEnvironment(enclosing *Environment) *Environment {
	return &Environment{enclosing: enclosing, values: make(map[string]Value)}
}

// Define binds name to value in this frame, overwriting any existing
// binding of the same name in this frame. Unlike Assign, it never walks
// to an enclosing frame: redeclaring a name in the same Go frame is
// legal at runtime, since it is the resolver, not the environment, that
// rejects same-scope redeclaration statically.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Get looks up name, walking enclosing frames on miss. fr is the active
// call frame, attached to the error so a failed lookup can still print
// its line and backtrace.
func (e *Environment) Get(name token.Token, fr *Frame) (Value, error) {
	if v, ok := e.values[name.Lexeme]; ok {
		return v, nil
	}
	if e.enclosing != nil {
		return e.enclosing.Get(name, fr)
	}
	return nil, &RuntimeError{Token: name, Message: fmt.Sprintf("Undefined variable '%s'.", name.Lexeme), Frame: fr}
}

// Assign rebinds an existing name, walking enclosing frames on miss. It
// reports an undefined-variable error rather than creating a binding,
// matching Lox's requirement that assignment targets already exist. fr
// is attached to that error the same way Get attaches it.
func (e *Environment) Assign(name token.Token, value Value, fr *Frame) error {
	if _, ok := e.values[name.Lexeme]; ok {
		e.values[name.Lexeme] = value
		return nil
	}
	if e.enclosing != nil {
		return e.enclosing.Assign(name, value, fr)
	}
	return &RuntimeError{Token: name, Message: fmt.Sprintf("Undefined variable '%s'.", name.Lexeme), Frame: fr}
}

// Ancestor returns the frame distance frames out from e.
func (e *Environment) Ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		env = env.enclosing
	}
	return env
}

// GetAt returns the binding of name in the frame distance frames out,
// as resolved statically by resolve.Table. It bypasses the name lookup
// that Get performs, since the resolver has already proven the binding
// exists at exactly that distance.
func (e *Environment) GetAt(distance int, name string) Value {
	return e.Ancestor(distance).values[name]
}

// AssignAt rebinds name in the frame distance frames out.
func (e *Environment) AssignAt(distance int, name string, value Value) {
	e.Ancestor(distance).values[name] = value
}
