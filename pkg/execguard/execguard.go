// Package execguard wraps external process invocation with strict argument
// validation and uniform, diagnostic-rich failure reporting.
//
// The underlying os/exec primitive rejects NUL bytes in arguments at spawn
// time with an error that names neither the argument nor its position, which
// turns a bad constructed flag into a confusing compile or link failure much
// later. Command therefore refuses NUL-containing arguments up front and
// always logs the fully resolved command line before running anything.
package execguard

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"unicode/utf8"
)

// Command owns a program path and a validated argument list. Arguments can
// only be added through Arg and Args, which reject embedded NUL bytes; the
// unchecked os/exec surface is never exposed.
type Command struct {
	prog  string
	args  []string
	trace io.Writer
}

// New returns a Command for prog. Arguments are validated the same way Arg
// validates them.
func New(prog string, args ...string) (*Command, error) {
	c := &Command{prog: prog, trace: os.Stderr}
	if err := c.Args(args...); err != nil {
		return nil, err
	}
	return c, nil
}

// SetTrace redirects the pre-execution command-line trace, which defaults to
// stderr. Passing io.Discard silences it.
func (c *Command) SetTrace(w io.Writer) {
	c.trace = w
}

// Arg appends one argument, rejecting it if it contains a NUL byte.
func (c *Command) Arg(arg string) error {
	if i := strings.IndexByte(arg, 0); i >= 0 {
		return fmt.Errorf("argument %s contains a NUL byte at offset %d", escapeArg(arg), i)
	}
	c.args = append(c.args, arg)
	return nil
}

// Args appends arguments in order, stopping at the first invalid one. The
// error identifies the offending argument by its 1-based position within the
// full argument list.
func (c *Command) Args(args ...string) error {
	for _, arg := range args {
		if err := c.Arg(arg); err != nil {
			return fmt.Errorf("argument %d of %q: %w", len(c.args)+1, c.prog, err)
		}
	}
	return nil
}

// String renders the program and every argument. Arguments that are not
// valid UTF-8 have their non-ASCII bytes hex-escaped so the trace stays
// printable no matter what was constructed.
func (c *Command) String() string {
	quoted := make([]string, len(c.args))
	for i, arg := range c.args {
		quoted[i] = `"` + escapeArg(arg) + `"`
	}
	return fmt.Sprintf("'%s' with %d args: %s", c.prog, len(c.args), strings.Join(quoted, " "))
}

// Status logs the command line, runs the process with stderr passed through,
// and returns its exit code. The error is non-nil only when the process could
// not be run at all; in that case the message carries the full command line
// and the underlying OS error. A signal-terminated process reports exit code
// -1 with a nil error, mirroring the exit-status contract of the shell.
func (c *Command) Status() (int, error) {
	_, code, err := c.run(false)
	return code, err
}

// Output is Status but with standard output captured and returned.
func (c *Command) Output() ([]byte, int, error) {
	return c.run(true)
}

// Run executes the process and fails unless it exits zero. The returned error
// for a non-zero exit names the exit code (or the signal) and includes
// remediation hints, because in practice the command here is a C compiler and
// the usual root cause is a missing development package.
func (c *Command) Run() error {
	code, err := c.Status()
	if err != nil {
		return err
	}
	return c.checkExit(code)
}

// RunOutput is Run but returns captured standard output on success.
func (c *Command) RunOutput() ([]byte, error) {
	out, code, err := c.run(true)
	if err != nil {
		return nil, err
	}
	if err := c.checkExit(code); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Command) checkExit(code int) error {
	switch {
	case code == 0:
		return nil
	case code < 0:
		return fmt.Errorf("command %s was terminated by a signal. %s", c.String(), remediation)
	default:
		return fmt.Errorf("command %s failed with exit code %d. %s", c.String(), code, remediation)
	}
}

const remediation = "Is ncurses installed? pkg-config or pkgconf too? " +
	"It's 'ncurses-devel' on Fedora; run `nix-shell` first on NixOS. " +
	"The diagnostics above may name a different cause."

func (c *Command) run(capture bool) ([]byte, int, error) {
	if c.trace != nil {
		fmt.Fprintf(c.trace, "cursegen: running %s\n", c.String())
	}
	// Arg and Args already validated everything, but re-check before spawn so
	// a Command mutated through a future entry point can never slip a NUL
	// past the guard.
	for i, arg := range c.args {
		if strings.IndexByte(arg, 0) >= 0 {
			return nil, -1, fmt.Errorf("argument %d of %s contains a NUL byte", i+1, c.String())
		}
	}

	cmd := exec.Command(c.prog, c.args...)
	cmd.Stderr = os.Stderr
	var stdout bytes.Buffer
	if capture {
		cmd.Stdout = &stdout
	} else {
		cmd.Stdout = os.Stdout
	}

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, -1, fmt.Errorf("failed to run %s: %w", c.String(), err)
		}
	}
	return stdout.Bytes(), cmd.ProcessState.ExitCode(), nil
}

// escapeArg keeps valid UTF-8 arguments as-is and renders anything else as
// ASCII with the broken bytes hex-escaped.
func escapeArg(arg string) string {
	if utf8.ValidString(arg) && !strings.ContainsRune(arg, 0) {
		return arg
	}
	var b strings.Builder
	for i := 0; i < len(arg); i++ {
		ch := arg[i]
		if ch >= 0x20 && ch < 0x7f {
			b.WriteByte(ch)
		} else {
			fmt.Fprintf(&b, "\\x%02X", ch)
		}
	}
	return b.String()
}
