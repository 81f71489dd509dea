package interp

import (
	"fmt"

	"github.com/truescotian/jlox/ast"
	"github.com/truescotian/jlox/token"
)

// exec executes a single statement in fr. A nil stmt (produced only by
// a parse-error production that the parser itself discarded) is a
// no-op.
func (th *Thread) exec(fr *Frame, stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case nil:
		return nil

	case *ast.Expression:
		_, err := th.eval(fr, s.X)
		return err

	case *ast.Print:
		v, err := th.eval(fr, s.X)
		if err != nil {
			return err
		}
		th.Print(stringify(v))
		return nil

	case *ast.Var:
		var v Value
		if s.Initializer != nil {
			var err error
			v, err = th.eval(fr, s.Initializer)
			if err != nil {
				return err
			}
		}
		fr.env.Define(s.Name.Lexeme, v)
		return nil

	case *ast.Block:
		return th.execBlock(fr, s.Stmts, NewChildEnvironment(fr.env))

	case *ast.If:
		cond, err := th.eval(fr, s.Cond)
		if err != nil {
			return err
		}
		if isTruthy(cond) {
			return th.exec(fr, s.Then)
		}
		if s.Else != nil {
			return th.exec(fr, s.Else)
		}
		return nil

	case *ast.While:
		for {
			cond, err := th.eval(fr, s.Cond)
			if err != nil {
				return err
			}
			if !isTruthy(cond) {
				return nil
			}
			if err := th.exec(fr, s.Body); err != nil {
				return err
			}
		}

	case *ast.Function:
		fn := &Function{declaration: s, closure: fr.env}
		fr.env.Define(s.Name.Lexeme, fn)
		return nil

	case *ast.Return:
		var v Value
		if s.Value != nil {
			var err error
			v, err = th.eval(fr, s.Value)
			if err != nil {
				return err
			}
		}
		return &returnSignal{value: v}

	case *ast.Class:
		return th.execClass(fr, s)

	default:
		panic(fmt.Sprintf("interp: unhandled statement type %T", s))
	}
}

// execBlock runs stmts in a frame that shares fr's call identity (fn,
// parent) but a fresh env, restoring nothing afterward since the
// caller never mutates fr.env itself — block scoping is expressed by
// handing the inner frame to a new environment, never by mutating the
// caller's.
func (th *Thread) execBlock(fr *Frame, stmts []ast.Stmt, env *Environment) error {
	inner := &Frame{parent: fr.parent, env: env, fn: fr.fn}
	for _, stmt := range stmts {
		if err := th.exec(inner, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (th *Thread) eval(fr *Frame, expr ast.Expr) (Value, error) {
	switch e := expr.(type) {
	case nil:
		return nil, nil

	case *ast.Literal:
		return e.Value, nil

	case *ast.Grouping:
		return th.eval(fr, e.Inner)

	case *ast.Unary:
		right, err := th.eval(fr, e.Right)
		if err != nil {
			return nil, err
		}
		switch e.Op.Kind {
		case token.MINUS:
			n, err := checkNumberOperand(e.Op, right, fr)
			if err != nil {
				return nil, err
			}
			return -n, nil
		case token.BANG:
			return !isTruthy(right), nil
		}
		panic("interp: unhandled unary operator")

	case *ast.Binary:
		return th.evalBinary(fr, e)

	case *ast.Logical:
		left, err := th.eval(fr, e.Left)
		if err != nil {
			return nil, err
		}
		if e.Op.Kind == token.OR {
			if isTruthy(left) {
				return left, nil
			}
		} else {
			if !isTruthy(left) {
				return left, nil
			}
		}
		return th.eval(fr, e.Right)

	case *ast.Variable:
		return th.lookupVariable(fr, e, e.Name)

	case *ast.Assign:
		v, err := th.eval(fr, e.Value)
		if err != nil {
			return nil, err
		}
		if distance, ok := th.table[e]; ok {
			fr.env.AssignAt(distance, e.Name.Lexeme, v)
		} else if err := th.globals.Assign(e.Name, v, fr); err != nil {
			return nil, err
		}
		return v, nil

	case *ast.Call:
		return th.evalCall(fr, e)

	case *ast.Get:
		object, err := th.eval(fr, e.Object)
		if err != nil {
			return nil, err
		}
		inst, ok := object.(*Instance)
		if !ok {
			return nil, &RuntimeError{Token: e.Name, Message: "Only instances have properties.", Frame: fr}
		}
		return inst.Get(e.Name, fr)

	case *ast.Set:
		object, err := th.eval(fr, e.Object)
		if err != nil {
			return nil, err
		}
		inst, ok := object.(*Instance)
		if !ok {
			return nil, &RuntimeError{Token: e.Name, Message: "Only instances have fields.", Frame: fr}
		}
		v, err := th.eval(fr, e.Value)
		if err != nil {
			return nil, err
		}
		inst.Set(e.Name.Lexeme, v)
		return v, nil

	case *ast.This:
		return th.lookupVariable(fr, e, e.Keyword)

	case *ast.Super:
		return th.evalSuper(fr, e)

	default:
		panic(fmt.Sprintf("interp: unhandled expression type %T", e))
	}
}

// lookupVariable resolves expr (a *ast.Variable or *ast.This) via the
// resolution table, falling back to the global frame when expr has no
// entry: an expression the resolver never found in a local scope must
// be a reference to a global.
func (th *Thread) lookupVariable(fr *Frame, expr ast.Expr, name token.Token) (Value, error) {
	if distance, ok := th.table[expr]; ok {
		return fr.env.GetAt(distance, name.Lexeme), nil
	}
	return th.globals.Get(name, fr)
}

func (th *Thread) evalBinary(fr *Frame, e *ast.Binary) (Value, error) {
	left, err := th.eval(fr, e.Left)
	if err != nil {
		return nil, err
	}
	right, err := th.eval(fr, e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op.Kind {
	case token.BANG_EQUAL:
		return !isEqual(left, right), nil
	case token.EQUAL_EQUAL:
		return isEqual(left, right), nil
	}

	switch e.Op.Kind {
	case token.PLUS:
		ln, lok := left.(float64)
		rn, rok := right.(float64)
		if lok && rok {
			return ln + rn, nil
		}
		ls, lsok := left.(string)
		rs, rsok := right.(string)
		if lsok && rsok {
			return ls + rs, nil
		}
		return nil, &RuntimeError{Token: e.Op, Message: "Operands must be two numbers or two strings.", Frame: fr}
	case token.MINUS, token.SLASH, token.STAR, token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL:
		ln, rn, err := checkNumberOperands(e.Op, left, right, fr)
		if err != nil {
			return nil, err
		}
		switch e.Op.Kind {
		case token.MINUS:
			return ln - rn, nil
		case token.SLASH:
			return ln / rn, nil
		case token.STAR:
			return ln * rn, nil
		case token.GREATER:
			return ln > rn, nil
		case token.GREATER_EQUAL:
			return ln >= rn, nil
		case token.LESS:
			return ln < rn, nil
		case token.LESS_EQUAL:
			return ln <= rn, nil
		}
	}
	panic("interp: unhandled binary operator")
}

func checkNumberOperand(op token.Token, v Value, fr *Frame) (float64, error) {
	if n, ok := v.(float64); ok {
		return n, nil
	}
	return 0, &RuntimeError{Token: op, Message: "Operand must be a number.", Frame: fr}
}

func checkNumberOperands(op token.Token, a, b Value, fr *Frame) (float64, float64, error) {
	an, aok := a.(float64)
	bn, bok := b.(float64)
	if aok && bok {
		return an, bn, nil
	}
	return 0, 0, &RuntimeError{Token: op, Message: "Operands must be numbers.", Frame: fr}
}

func (th *Thread) evalCall(fr *Frame, e *ast.Call) (Value, error) {
	callee, err := th.eval(fr, e.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]Value, len(e.Args))
	for i, a := range e.Args {
		v, err := th.eval(fr, a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	fn, ok := callee.(Callable)
	if !ok {
		return nil, &RuntimeError{Token: e.ClosingParen, Message: "Can only call functions and classes.", Frame: fr}
	}
	if len(args) != fn.Arity() {
		return nil, &RuntimeError{
			Token:   e.ClosingParen,
			Message: fmt.Sprintf("Expected %d arguments but got %d.", fn.Arity(), len(args)),
			Frame:   fr,
		}
	}
	return fn.Call(th, args)
}

func (th *Thread) evalSuper(fr *Frame, e *ast.Super) (Value, error) {
	distance, ok := th.table[e]
	if !ok {
		panic("interp: unresolved super expression")
	}
	superclass, _ := fr.env.GetAt(distance, "super").(*Class)
	instance, _ := fr.env.GetAt(distance-1, "this").(*Instance)

	method := superclass.FindMethod(e.Method.Lexeme)
	if method == nil {
		return nil, &RuntimeError{Token: e.Method, Message: fmt.Sprintf("Undefined property '%s'.", e.Method.Lexeme), Frame: fr}
	}
	return method.bind(instance), nil
}
