// Package emit produces the build-signal stream consumed by the embedding
// build. Directives go to one writer (normally stdout) as "cursegen:" prefixed
// lines; warnings go to another (normally stderr) so piping the directive
// stream stays clean.
package emit

import (
	"fmt"
	"io"

	"github.com/gookit/color"
)

// Directive prefixes forming the wire contract with the embedding build.
const (
	prefixLinkLib   = "cursegen:link-lib="
	prefixLinkFlags = "cursegen:link-flags="
	prefixCfg       = "cursegen:cfg="
	prefixRerunEnv  = "cursegen:rerun-if-env-changed="
	prefixRerunFile = "cursegen:rerun-if-changed="
	prefixWarning   = "cursegen:warning="
)

// Emitter appends build signals to its writers. Signals are never retracted;
// link-lib directives are deduplicated so a library resolved through the
// metadata capability (which emits as a side effect) is not linked twice.
type Emitter struct {
	out    io.Writer
	warn   io.Writer
	colors bool
	linked map[string]bool
}

// New returns an Emitter writing directives to out and warnings to warn.
func New(out, warn io.Writer) *Emitter {
	return &Emitter{out: out, warn: warn, linked: make(map[string]bool)}
}

// EnableColor turns on colored warnings. Off by default so captured streams
// stay byte-comparable.
func (e *Emitter) EnableColor(on bool) {
	e.colors = on
}

// LinkLib emits a linker directive for name unless one was already emitted.
func (e *Emitter) LinkLib(name string) {
	if e.linked[name] {
		return
	}
	e.linked[name] = true
	fmt.Fprintf(e.out, "%s%s\n", prefixLinkLib, name)
}

// Emitted reports whether a link-lib directive for name has been emitted.
func (e *Emitter) Emitted(name string) bool {
	return e.linked[name]
}

// LinkFlags passes raw supplementary linker flags through verbatim.
func (e *Emitter) LinkFlags(raw string) {
	fmt.Fprintf(e.out, "%s%s\n", prefixLinkFlags, raw)
}

// Cfg emits a conditional-compilation signal, e.g. "wide_chtype".
func (e *Emitter) Cfg(flag string) {
	fmt.Fprintf(e.out, "%s%s\n", prefixCfg, flag)
}

// RerunIfEnvChanged asks the embedding build to re-run this tool when the
// named environment variable changes.
func (e *Emitter) RerunIfEnvChanged(name string) {
	fmt.Fprintf(e.out, "%s%s\n", prefixRerunEnv, name)
}

// RerunIfChanged asks the embedding build to re-run this tool when the named
// file changes.
func (e *Emitter) RerunIfChanged(path string) {
	fmt.Fprintf(e.out, "%s%s\n", prefixRerunFile, path)
}

// Verbatim copies introspection-program output to the directive stream
// unmodified. The program's stdout is already in wire format; no trimming,
// parsing, or reordering happens here.
func (e *Emitter) Verbatim(b []byte) {
	e.out.Write(b)
}

// Warnf emits a warning with remediation text. Warnings are advisory: every
// caller continues with a defined fallback after warning.
func (e *Emitter) Warnf(format string, a ...any) {
	msg := prefixWarning + fmt.Sprintf(format, a...)
	if e.colors {
		msg = color.Warn.Render(msg)
	}
	fmt.Fprintln(e.warn, msg)
}
