// Copyright 2026 The jlox Authors. All rights reserved.

// Package resolve implements the static resolution pass: it computes,
// for every variable-use expression, the scope distance at which its
// binding lives, and enforces a set of static rules that the parser's
// grammar is too permissive to reject on its own (self-reference in
// initializers, redeclaration in the same scope, misuse of this/super/
// return).
package resolve

import (
	"github.com/truescotian/jlox/ast"
	"github.com/truescotian/jlox/diag"
)

// A Table maps a variable-use expression to the number of enclosing
// environment frames to walk to find its binding (0 = innermost). An
// expression with no entry resolves in the global frame. Expressions
// are keyed by pointer identity, which Go's allocator already gives
// every heap-allocated AST node for its lifetime — no separate arena or
// integer id is needed.
type Table map[ast.Expr]int

type functionKind int

const (
	noFunction functionKind = iota
	inFunction
	inMethod
	inInitializer
)

type classKind int

const (
	noClass classKind = iota
	inClass
	inSubclass
)

// scope maps a name to whether it has been fully defined yet (false
// means "declared but its initializer is still resolving").
type scope map[string]bool

// A Resolver walks a parsed statement list and produces a Table,
// reporting diagnostics to sink as it goes. It never mutates the AST.
type Resolver struct {
	sink   *diag.Sink
	table  Table
	scopes []scope

	currentFunction functionKind
	currentClass    classKind
}

// NewResolver returns a Resolver that reports diagnostics to sink.
func NewResolver(sink *diag.Sink) *Resolver {
	return &Resolver{sink: sink, table: Table{}}
}

// Resolve resolves stmts and returns the resulting table and whether any
// diagnostic was reported, in which case the evaluator must not run.
func (r *Resolver) Resolve(stmts []ast.Stmt) (Table, bool) {
	r.resolveStmts(stmts)
	return r.table, r.sink.HadError()
}

func (r *Resolver) beginScope() { r.scopes = append(r.scopes, scope{}) }

func (r *Resolver) endScope() { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *Resolver) innermost() scope {
	if len(r.scopes) == 0 {
		return nil
	}
	return r.scopes[len(r.scopes)-1]
}

// declare inserts name as "declared but not yet defined" in the
// innermost scope. Redeclaring a name already present in that scope is
// a diagnostic. A no-op at global scope.
func (r *Resolver) declare(name string, line int, lexeme string) {
	s := r.innermost()
	if s == nil {
		return
	}
	if _, ok := s[name]; ok {
		r.errorAt(line, lexeme, "Already a variable with this name in this scope.")
	}
	s[name] = false
}

// define marks name as fully defined in the innermost scope. A no-op at
// global scope.
func (r *Resolver) define(name string) {
	if s := r.innermost(); s != nil {
		s[name] = true
	}
}

// resolveLocal scans scopes innermost-outward for name; if found, it
// records expr's depth in the table. An expression left unrecorded
// resolves in the global frame at evaluation time.
func (r *Resolver) resolveLocal(expr ast.Expr, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.table[expr] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case nil:
		// produced by a parse error production; nothing to resolve.
	case *ast.Block:
		r.beginScope()
		r.resolveStmts(s.Stmts)
		r.endScope()

	case *ast.Class:
		r.resolveClass(s)

	case *ast.Expression:
		r.resolveExpr(s.X)

	case *ast.Function:
		r.declare(s.Name.Lexeme, s.Name.Line, s.Name.Lexeme)
		r.define(s.Name.Lexeme)
		r.resolveFunction(s, inFunction)

	case *ast.If:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}

	case *ast.Print:
		r.resolveExpr(s.X)

	case *ast.Return:
		if r.currentFunction == noFunction {
			r.errorAt(s.Keyword.Line, s.Keyword.Lexeme, "Can't return from top-level code.")
		}
		if s.Value != nil {
			if r.currentFunction == inInitializer {
				r.errorAt(s.Keyword.Line, s.Keyword.Lexeme, "Can't return a value from an initializer.")
			}
			r.resolveExpr(s.Value)
		}

	case *ast.Var:
		r.declare(s.Name.Lexeme, s.Name.Line, s.Name.Lexeme)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name.Lexeme)

	case *ast.While:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Body)

	default:
		panic("resolve: unhandled statement type")
	}
}

func (r *Resolver) resolveClass(s *ast.Class) {
	enclosingClass := r.currentClass
	r.currentClass = inClass

	r.declare(s.Name.Lexeme, s.Name.Line, s.Name.Lexeme)
	r.define(s.Name.Lexeme)

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			r.errorAt(s.Superclass.Name.Line, s.Superclass.Name.Lexeme, "A class can't inherit from itself.")
		}
		r.currentClass = inSubclass
		r.resolveExpr(s.Superclass)

		r.beginScope()
		r.innermost()["super"] = true
	}

	r.beginScope()
	r.innermost()["this"] = true

	for _, method := range s.Methods {
		kind := inMethod
		if method.Name.Lexeme == "init" {
			kind = inInitializer
		}
		r.resolveFunction(method, kind)
	}

	r.endScope() // "this"
	if s.Superclass != nil {
		r.endScope() // "super"
	}

	r.currentClass = enclosingClass
}

func (r *Resolver) resolveFunction(fn *ast.Function, kind functionKind) {
	enclosingFunction := r.currentFunction
	r.currentFunction = kind

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param.Lexeme, param.Line, param.Lexeme)
		r.define(param.Lexeme)
	}
	r.resolveStmts(fn.Body)
	r.endScope()

	r.currentFunction = enclosingFunction
}

func (r *Resolver) resolveExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case nil:
		// produced by a parse error production; nothing to resolve.
	case *ast.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name.Lexeme)

	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.Call:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Args {
			r.resolveExpr(arg)
		}

	case *ast.Get:
		r.resolveExpr(e.Object)

	case *ast.Grouping:
		r.resolveExpr(e.Inner)

	case *ast.Literal:
		// no sub-expressions, no name to resolve.

	case *ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.Set:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)

	case *ast.Super:
		switch r.currentClass {
		case noClass:
			r.errorAt(e.Keyword.Line, e.Keyword.Lexeme, "Can't use 'super' outside of a class.")
		case inClass:
			r.errorAt(e.Keyword.Line, e.Keyword.Lexeme, "Can't use 'super' in a class with no superclass.")
		}
		r.resolveLocal(e, "super")

	case *ast.This:
		if r.currentClass == noClass {
			r.errorAt(e.Keyword.Line, e.Keyword.Lexeme, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(e, "this")

	case *ast.Unary:
		r.resolveExpr(e.Right)

	case *ast.Variable:
		if s := r.innermost(); s != nil {
			if defined, ok := s[e.Name.Lexeme]; ok && !defined {
				r.errorAt(e.Name.Line, e.Name.Lexeme, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e, e.Name.Lexeme)

	default:
		panic("resolve: unhandled expression type")
	}
}

func (r *Resolver) errorAt(line int, lexeme, message string) {
	r.sink.Report(&diag.Error{Phase: diag.Resolve, Line: line, Lexeme: lexeme, Message: message})
}
