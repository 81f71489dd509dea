package interp

import (
	"fmt"

	"github.com/truescotian/jlox/ast"
)

// A Function is a user-defined function or method, grounded on
// LoxFunction.java: it pairs a declaration with the environment frame
// that was live when the declaration executed (the closure), captured
// at execution time, never at parse time.
type Function struct {
	declaration   *ast.Function
	closure       *Environment
	isInitializer bool
}

var _ Callable = (*Function)(nil)

func (f *Function) Arity() int { return len(f.declaration.Params) }

func (f *Function) String() string {
	return fmt.Sprintf("<fn %s>", f.declaration.Name.Lexeme)
}

// Call binds args to the declaration's parameters in a fresh child of
// the closure and executes the body, exactly as LoxFunction.call does.
func (f *Function) Call(thread *Thread, args []Value) (Value, error) {
	env := NewChildEnvironment(f.closure)
	for i, param := range f.declaration.Params {
		env.Define(param.Lexeme, args[i])
	}

	fr := &Frame{env: env, fn: f}
	err := thread.execBlock(fr, f.declaration.Body, env)

	var ret *returnSignal
	if err != nil {
		var ok bool
		if ret, ok = err.(*returnSignal); !ok {
			return nil, err
		}
	}

	if f.isInitializer {
		return f.closure.GetAt(0, "this"), nil
	}
	if ret != nil {
		return ret.value, nil
	}
	return nil, nil
}

// bind returns a copy of f whose closure is a fresh child environment
// defining "this" as instance — the mechanism by which an unbound
// method becomes a bound one, per LoxFunction.bind.
func (f *Function) bind(instance *Instance) *Function {
	env := NewChildEnvironment(f.closure)
	env.Define("this", instance)
	return &Function{declaration: f.declaration, closure: env, isInitializer: f.isInitializer}
}
