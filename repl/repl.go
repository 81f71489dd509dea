// Copyright 2026 The jlox Authors. All rights reserved.

// Package repl provides a read/eval/print loop for jlox.
//
// It supports readline-style command editing and interrupts through
// Control-C. Each line is scanned, parsed, and resolved independently
// and then executed against a persistent global environment, so names
// defined on one line are visible on the next.
package repl

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/chzyer/readline"

	"github.com/truescotian/jlox/ast"
	"github.com/truescotian/jlox/diag"
	"github.com/truescotian/jlox/interp"
	"github.com/truescotian/jlox/resolve"
	"github.com/truescotian/jlox/syntax"
)

var interrupted = make(chan os.Signal, 1)

// REPL executes a read, eval, print loop against thread until EOF or
// an unrecoverable readline error.
func REPL(thread *interp.Thread) {
	signal.Notify(interrupted, os.Interrupt)
	defer signal.Stop(interrupted)

	rl, err := readline.New(">>> ")
	if err != nil {
		PrintError(err)
		return
	}
	defer rl.Close()

	for {
		if err := rep(rl, thread); err != nil {
			if err == readline.ErrInterrupt {
				fmt.Println(err)
				continue
			}
			break
		}
	}
	fmt.Println()
}

// rep reads, evaluates, and prints one line. It returns a non-nil error
// only when readline itself failed (EOF or interrupt); jlox errors are
// printed and absorbed so the loop continues.
func rep(rl *readline.Instance, thread *interp.Thread) error {
	line, err := rl.Readline()
	if err != nil {
		if err == io.EOF {
			return io.EOF
		}
		return err
	}

	sink := diag.NewSink()
	stmts, hadError := syntax.Parse(line, sink)
	if hadError {
		printDiagnostics(sink)
		return nil
	}

	resolver := resolve.NewResolver(sink)
	table, hadError := resolver.Resolve(stmts)
	if hadError {
		printDiagnostics(sink)
		return nil
	}
	thread.SetTable(table)

	if expr := soleExpr(stmts); expr != nil {
		v, err := thread.Evaluate(expr)
		if err != nil {
			PrintError(err)
			return nil
		}
		fmt.Println(interp.Stringify(v))
		return nil
	}

	if err := thread.Interpret(stmts); err != nil {
		PrintError(err)
	}
	return nil
}

// soleExpr returns the expression of stmts if it is exactly one bare
// expression statement, the case the REPL auto-prints, and nil
// otherwise (any other statement executes for effect only).
func soleExpr(stmts []ast.Stmt) ast.Expr {
	if len(stmts) != 1 {
		return nil
	}
	if s, ok := stmts[0].(*ast.Expression); ok {
		return s.X
	}
	return nil
}

func printDiagnostics(sink *diag.Sink) {
	for _, e := range sink.Errors() {
		fmt.Fprintln(os.Stderr, e.Error())
	}
}

// PrintError prints err to stderr, or its backtrace if it is a jlox
// runtime error.
func PrintError(err error) {
	if rerr, ok := err.(*interp.RuntimeError); ok {
		fmt.Fprintln(os.Stderr, rerr.Backtrace())
	} else {
		fmt.Fprintln(os.Stderr, err)
	}
}
