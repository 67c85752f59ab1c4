// Package crash is the single failure-escalation path of the runtime: it
// prints a diagnostic and terminates the process.
package crash

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Exit status used when the runtime terminates on a fatal error.
const ExitCode = 3

// Reporter writes fatal diagnostics to Out and terminates through Exit.
type Reporter struct {
	mu   sync.Mutex
	Out  io.Writer
	Exit func(code int)
}

// Terminated is the panic value raised when a Reporter's Exit hook returns.
type Terminated struct {
	Message string
}

func (t Terminated) String() string {
	return "fatal error: " + t.Message
}

// Default reporter writing to stderr and exiting the process.
var Default = &Reporter{Out: os.Stderr, Exit: os.Exit}

// Fatal reports msg and terminates. It never returns to its caller.
func (r *Reporter) Fatal(msg string) {
	if msg == "" {
		msg = "unknown"
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.Out
	if out == nil {
		out = os.Stderr
	}
	fmt.Fprintf(out, "fatal error: %s\n", msg)

	exit := r.Exit
	if exit == nil {
		exit = os.Exit
	}
	exit(ExitCode)

	panic(Terminated{msg})
}

func (r *Reporter) Fatalf(format string, args ...any) {
	r.Fatal(fmt.Sprintf(format, args...))
}

// Assert terminates with the given message when cond is false.
func (r *Reporter) Assert(cond bool, msgAndArgs ...any) {
	if !cond {
		msg := fmt.Sprint(msgAndArgs...)
		if msg == "" {
			msg = "assertion failed"
		}
		r.Fatal(msg)
	}
}

func Fatal(msg string) {
	Default.Fatal(msg)
}

func Fatalf(format string, args ...any) {
	Default.Fatalf(format, args...)
}

func Assert(cond bool, msgAndArgs ...any) {
	Default.Assert(cond, msgAndArgs...)
}

type msgWithArgs struct {
	msg  string
	args []any
}

func (m msgWithArgs) String() string {
	if len(m.args) == 0 {
		return m.msg
	} else {
		return fmt.Sprintf(m.msg, m.args...)
	}
}

// Msg builds a lazily formatted assertion message.
func Msg(msg string, args ...any) fmt.Stringer {
	return msgWithArgs{msg, args}
}
