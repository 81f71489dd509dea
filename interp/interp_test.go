package interp_test

import (
	"strings"
	"testing"

	"github.com/truescotian/jlox/diag"
	"github.com/truescotian/jlox/interp"
	"github.com/truescotian/jlox/resolve"
	"github.com/truescotian/jlox/syntax"
)

// run scans, parses, resolves, and interprets src, returning everything
// printed via "print" statements and the error the run stopped on, if
// any. It fails the test outright on a static (scan/parse/resolve)
// diagnostic, since these tests are about evaluator behavior.
func run(t *testing.T, src string) (string, error) {
	t.Helper()
	sink := diag.NewSink()
	stmts, hadError := syntax.Parse(src, sink)
	if hadError {
		t.Fatalf("parse(%q): unexpected diagnostics: %v", src, sink.Errors())
	}
	table, hadError := resolve.NewResolver(sink).Resolve(stmts)
	if hadError {
		t.Fatalf("resolve(%q): unexpected diagnostics: %v", src, sink.Errors())
	}

	var out strings.Builder
	thread := interp.NewThread(table)
	thread.Print = func(s string) { out.WriteString(s); out.WriteString("\n") }

	err := thread.Interpret(stmts)
	return out.String(), err
}

func TestClosureCapture(t *testing.T) {
	out, err := run(t, `
		var a = "global";
		{ fun show() { print a; }
		  show();
		  var a = "block";
		  show(); }
	`)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if out != "global\nglobal\n" {
		t.Errorf("output = %q, want %q", out, "global\nglobal\n")
	}
}

func TestClassInitAndMethod(t *testing.T) {
	out, err := run(t, `
		class Cake { taste() { var adj = "delicious"; print adj + " " + this.flavor + " cake"; } }
		var c = Cake(); c.flavor = "German chocolate"; c.taste();
	`)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	want := "delicious German chocolate cake\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestInheritanceAndSuper(t *testing.T) {
	out, err := run(t, `
		class A { method() { print "A"; } }
		class B < A { method() { print "B"; } test() { super.method(); } }
		class C < B {} C().test();
	`)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if out != "A\n" {
		t.Errorf("output = %q, want %q", out, "A\n")
	}
}

func TestForLoopDesugarEquivalence(t *testing.T) {
	forOut, forErr := run(t, `for (var i = 0; i < 3; i = i + 1) print i;`)
	if forErr != nil {
		t.Fatalf("unexpected runtime error: %v", forErr)
	}
	if forOut != "0\n1\n2\n" {
		t.Errorf("for-loop output = %q, want %q", forOut, "0\n1\n2\n")
	}

	whileOut, whileErr := run(t, `
		var i = 0;
		while (i < 3) { print i; i = i + 1; }
	`)
	if whileErr != nil {
		t.Fatalf("unexpected runtime error: %v", whileErr)
	}
	if forOut != whileOut {
		t.Errorf("for-loop and hand-written while gave different output: %q vs %q", forOut, whileOut)
	}
}

func TestInitializerAlwaysReturnsThis(t *testing.T) {
	out, err := run(t, `
		class Point {
			init(x, y) { this.x = x; this.y = y; }
		}
		var p = Point(1, 2);
		print p.x + p.y;
	`)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if out != "3\n" {
		t.Errorf("output = %q, want %q", out, "3\n")
	}
}

func TestDivisionByZeroIsNotAnError(t *testing.T) {
	out, err := run(t, `print 1 / 0; print -1 / 0; print 0 / 0;`)
	if err != nil {
		t.Fatalf("division by zero must not raise a runtime error: %v", err)
	}
	if out != "Infinity\n-Infinity\nNaN\n" {
		t.Errorf("output = %q, want %q", out, "Infinity\n-Infinity\nNaN\n")
	}
}

func TestUndefinedVariableRuntimeError(t *testing.T) {
	_, err := run(t, `print nope;`)
	if err == nil {
		t.Fatal("expected a runtime error for an undefined variable")
	}
	rerr, ok := err.(*interp.RuntimeError)
	if !ok {
		t.Fatalf("err = %T, want *interp.RuntimeError", err)
	}
	if !strings.Contains(rerr.Message, "Undefined variable") {
		t.Errorf("Message = %q", rerr.Message)
	}
}

func TestOperandTypeErrors(t *testing.T) {
	_, err := run(t, `print "a" - 1;`)
	if err == nil {
		t.Fatal("expected a runtime error mixing string and number with -")
	}

	_, err = run(t, `print "a" + 1;`)
	if err == nil {
		t.Fatal("expected a runtime error for mixed + operands")
	}
	rerr := err.(*interp.RuntimeError)
	if !strings.Contains(rerr.Message, "two numbers or two strings") {
		t.Errorf("Message = %q", rerr.Message)
	}
}

func TestStringConcatenation(t *testing.T) {
	out, err := run(t, `print "foo" + "bar";`)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if out != "foobar\n" {
		t.Errorf("output = %q, want %q", out, "foobar\n")
	}
}

func TestTruthiness(t *testing.T) {
	out, err := run(t, `
		if (0) print "zero is truthy"; else print "zero is falsy";
		if ("") print "empty string is truthy"; else print "empty string is falsy";
		if (nil) print "nil is truthy"; else print "nil is falsy";
		if (false) print "false is truthy"; else print "false is falsy";
	`)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	want := "zero is truthy\nempty string is truthy\nnil is falsy\nfalse is falsy\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestNaNInequality(t *testing.T) {
	out, err := run(t, `
		var nan = 0 / 0;
		print nan == nan;
	`)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if out != "false\n" {
		t.Errorf("output = %q, want %q (IEEE-754: NaN != NaN)", out, "false\n")
	}
}

func TestNumberStringification(t *testing.T) {
	out, err := run(t, `print 3.0; print 3.14; print 1.0 + 2.0;`)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if out != "3\n3.14\n3\n" {
		t.Errorf("output = %q, want %q (no trailing .0 on integral doubles)", out, "3\n3.14\n3\n")
	}
}

func TestCallArityMismatch(t *testing.T) {
	_, err := run(t, `
		fun one(a) { return a; }
		one(1, 2);
	`)
	if err == nil {
		t.Fatal("expected a runtime error for an arity mismatch")
	}
	rerr := err.(*interp.RuntimeError)
	if !strings.Contains(rerr.Message, "Expected 1 arguments but got 2") {
		t.Errorf("Message = %q", rerr.Message)
	}
}

func TestClockBuiltin(t *testing.T) {
	out, err := run(t, `print clock() >= 0;`)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if out != "true\n" {
		t.Errorf("output = %q, want %q", out, "true\n")
	}
}

func TestEnvironmentRestoredAfterBlock(t *testing.T) {
	out, err := run(t, `
		var a = "outer";
		{
			var a = "inner";
			print a;
		}
		print a;
	`)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if out != "inner\nouter\n" {
		t.Errorf("output = %q, want %q", out, "inner\nouter\n")
	}
}
