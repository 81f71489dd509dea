package interp

import (
	"github.com/truescotian/jlox/ast"
)

// execClass evaluates a class declaration, grounded on Interpreter.java's
// visitClassStmt: the optional superclass expression is evaluated first
// so "Superclass must be a class." is raised before anything is
// defined; the class name is bound to nil first as a placeholder for
// self-reference (the binding is overwritten with the class below); a
// "super" frame is pushed around method
// construction only when a superclass exists.
func (th *Thread) execClass(fr *Frame, stmt *ast.Class) error {
	var superclass *Class
	if stmt.Superclass != nil {
		v, err := th.eval(fr, stmt.Superclass)
		if err != nil {
			return err
		}
		sc, ok := v.(*Class)
		if !ok {
			return &RuntimeError{Token: stmt.Superclass.Name, Message: "Superclass must be a class.", Frame: fr}
		}
		superclass = sc
	}

	fr.env.Define(stmt.Name.Lexeme, nil)

	env := fr.env
	if superclass != nil {
		env = NewChildEnvironment(fr.env)
		env.Define("super", superclass)
	}

	methods := make(map[string]*Function, len(stmt.Methods))
	for _, decl := range stmt.Methods {
		methods[decl.Name.Lexeme] = &Function{
			declaration:   decl,
			closure:       env,
			isInitializer: decl.Name.Lexeme == "init",
		}
	}

	class := &Class{Name: stmt.Name.Lexeme, Superclass: superclass, Methods: methods}
	return fr.env.Assign(stmt.Name, class, fr)
}
