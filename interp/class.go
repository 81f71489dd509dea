package interp

import (
	"fmt"

	"github.com/truescotian/jlox/token"
)

// A Class is a runtime class value: a name, an optional superclass,
// and its own methods (inherited methods are found by walking
// superclass chains in FindMethod, not copied in).
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function
}

var _ Callable = (*Class)(nil)

// FindMethod looks up name on c, then its ancestors.
func (c *Class) FindMethod(name string) *Function {
	if m, ok := c.Methods[name]; ok {
		return m
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil
}

func (c *Class) String() string { return c.Name }

// Arity is the initializer's arity, or 0 if neither the class nor an
// ancestor has an "init" method.
func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// Call constructs an Instance and, if the class or an ancestor has an
// "init" method, invokes it bound to the new instance.
func (c *Class) Call(thread *Thread, args []Value) (Value, error) {
	instance := &Instance{class: c, fields: make(map[string]Value)}
	if init := c.FindMethod("init"); init != nil {
		if _, err := init.bind(instance).Call(thread, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// An Instance is a runtime object: a class plus its own field bindings.
type Instance struct {
	class  *Class
	fields map[string]Value
}

func (i *Instance) String() string { return fmt.Sprintf("%s instance", i.class.Name) }

// Get reads field name, or else a bound method of that name, or else
// raises "Undefined property". fr is attached to that error so it can
// print its line and backtrace.
func (i *Instance) Get(name token.Token, fr *Frame) (Value, error) {
	if v, ok := i.fields[name.Lexeme]; ok {
		return v, nil
	}
	if m := i.class.FindMethod(name.Lexeme); m != nil {
		return m.bind(i), nil
	}
	return nil, &RuntimeError{Token: name, Message: fmt.Sprintf("Undefined property '%s'.", name.Lexeme), Frame: fr}
}

// Set always writes to fields, never to methods.
func (i *Instance) Set(name string, v Value) {
	i.fields[name] = v
}
