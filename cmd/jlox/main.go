// Copyright 2026 The jlox Authors. All rights reserved.

// The jlox command interprets Lox source files. With no arguments it
// starts a read-eval-print loop.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/truescotian/jlox/diag"
	"github.com/truescotian/jlox/interp"
	"github.com/truescotian/jlox/repl"
	"github.com/truescotian/jlox/resolve"
	"github.com/truescotian/jlox/syntax"
)

// flags
var execprog = flag.String("c", "", "execute program `prog`")

func main() {
	os.Exit(doMain())
}

func doMain() int {
	log.SetPrefix("jlox: ")
	log.SetFlags(0)
	flag.Parse()

	switch {
	case flag.NArg() == 1 || *execprog != "":
		var src []byte
		if *execprog != "" {
			src = []byte(*execprog)
		} else {
			b, err := os.ReadFile(flag.Arg(0))
			check(err)
			src = b
		}
		return runFile(string(src))

	case flag.NArg() == 0:
		fmt.Println("jlox")
		repl.REPL(interp.NewThread(nil))
		return 0

	default:
		log.Print("want at most one Lox file name")
		return 64
	}
}

// runFile scans, parses, resolves, and interprets src in full. It
// returns 65 for any static (scan/parse/resolve) diagnostic, 70 for an
// unhandled runtime error, 0 otherwise.
func runFile(src string) int {
	sink := diag.NewSink()

	stmts, hadError := syntax.Parse(src, sink)
	if hadError {
		printDiagnostics(sink)
		return 65
	}

	table, hadError := resolve.NewResolver(sink).Resolve(stmts)
	if hadError {
		printDiagnostics(sink)
		return 65
	}

	thread := interp.NewThread(table)
	if err := thread.Interpret(stmts); err != nil {
		repl.PrintError(err)
		return 70
	}
	return 0
}

func printDiagnostics(sink *diag.Sink) {
	for _, e := range sink.Errors() {
		fmt.Fprintln(os.Stderr, e.Error())
	}
}

func check(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
