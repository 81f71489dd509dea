package interp

import (
	"bytes"
	"fmt"

	"github.com/truescotian/jlox/token"
)

// A RuntimeError is a dynamic evaluation failure and the call stack it
// unwound through. It is constructed once at the point of failure, then
// threaded unchanged as an ordinary Go error value up through exec/eval
// until the driver prints its Backtrace and exits — never accumulated
// in a sink, since only one can ever be live at a time.
type RuntimeError struct {
	Token   token.Token
	Message string
	Frame   *Frame // innermost frame active when the error occurred
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d]", e.Message, e.Token.Line)
}

// Backtrace returns a user-friendly multi-line description of the call
// stack active when e occurred, innermost call last. Every RuntimeError
// construction site attaches the active Frame, but a nil Frame still
// renders the fault line on its own rather than dropping it.
func (e *RuntimeError) Backtrace() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s\n", e.Message)
	if e.Frame == nil {
		fmt.Fprintf(&buf, "[line %d]\n", e.Token.Line)
		return buf.String()
	}
	var writeFrame func(fr *Frame)
	writeFrame = func(fr *Frame) {
		if fr == nil {
			return
		}
		writeFrame(fr.parent)
		name := "<script>"
		if fr.fn != nil {
			name = fr.fn.String()
		}
		fmt.Fprintf(&buf, "[line %d] in %s\n", e.Token.Line, name)
	}
	writeFrame(e.Frame)
	return buf.String()
}

// returnSignal is the sentinel threaded through exec as an ordinary
// error to unwind out of a function body on "return". It is never shown
// to the user and never wrapped in a RuntimeError.
type returnSignal struct {
	value Value
}

func (r *returnSignal) Error() string { return "return" }
