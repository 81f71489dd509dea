// Copyright 2026 The jlox Authors. All rights reserved.

// Package syntax provides a Lox scanner and recursive-descent parser,
// producing the ast package's syntax tree.
package syntax

import (
	"github.com/truescotian/jlox/ast"
	"github.com/truescotian/jlox/diag"
)

// Parse scans and parses src, reporting diagnostics to sink. It always
// terminates and always returns; the returned bool is true if any scan
// or parse diagnostic was reported, in which case later phases must not
// run on the result.
func Parse(src string, sink *diag.Sink) ([]ast.Stmt, bool) {
	tokens := NewScanner(src, sink).ScanTokens()
	stmts, parseErr := NewParser(tokens, sink).Parse()
	return stmts, sink.HadError() || parseErr
}
