// Copyright 2026 The jlox Authors. All rights reserved.

// Package interp implements the tree-walking evaluator: environments,
// runtime values, classes, closures, and the exec/eval pair that walks
// a resolved syntax tree.
package interp

import (
	"fmt"
	"os"

	"github.com/truescotian/jlox/ast"
	"github.com/truescotian/jlox/resolve"
)

// A Frame is one entry of the call stack. It is threaded explicitly
// through exec/eval as a parameter rather than held as mutable
// interpreter state, so nested calls and blocks each get their own
// frame without clobbering a caller's.
type Frame struct {
	parent *Frame
	env    *Environment
	fn     Callable // nil at the top level
}

// A Thread holds the state of one interpreter run: the global
// environment, the resolver's side-table, and the client-supplied
// output sink for "print" statements.
type Thread struct {
	globals *Environment
	table   resolve.Table

	// Print is called once per executed print statement with the
	// stringified value. Defaults to writing a line to os.Stdout.
	Print func(string)
}

// NewThread returns a Thread with the clock() builtin installed in its
// global environment, ready to interpret statements resolved against
// table.
func NewThread(table resolve.Table) *Thread {
	th := &Thread{globals: NewEnvironment(), table: table}
	th.Print = func(s string) { fmt.Fprintln(os.Stdout, s) }
	registerBuiltins(th.globals)
	return th
}

// Globals returns the thread's global environment, so a host (the REPL)
// can inspect or seed it between statements.
func (th *Thread) Globals() *Environment { return th.globals }

// SetTable installs the resolution table to consult for subsequent
// Interpret/InterpretOne/Evaluate calls. The REPL calls this once per
// line read, since each line is resolved independently against a table
// keyed by that line's own AST node identities.
func (th *Thread) SetTable(table resolve.Table) { th.table = table }

// Interpret executes stmts at top level, in program order, stopping at
// the first RuntimeError.
func (th *Thread) Interpret(stmts []ast.Stmt) error {
	fr := &Frame{env: th.globals}
	for _, stmt := range stmts {
		if err := th.exec(fr, stmt); err != nil {
			return err
		}
	}
	return nil
}

// InterpretOne executes a single statement at top level against the
// persistent global environment. The REPL itself runs each line's
// statements through Interpret.
func (th *Thread) InterpretOne(stmt ast.Stmt) error {
	fr := &Frame{env: th.globals}
	return th.exec(fr, stmt)
}

// Evaluate evaluates a single expression at top level and returns its
// value, for the REPL's bare-expression auto-print special case.
func (th *Thread) Evaluate(expr ast.Expr) (Value, error) {
	fr := &Frame{env: th.globals}
	return th.eval(fr, expr)
}
