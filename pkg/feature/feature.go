// Package feature determines ABI-relevant facts about the discovered ncurses
// installation by compiling and running a small introspection program: the
// bit width of chtype and the active mouse protocol version. Its findings are
// streamed verbatim as conditional-compilation signals.
package feature

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cursegen/cursegen/pkg/cc"
	"github.com/cursegen/cursegen/pkg/emit"
	"github.com/cursegen/cursegen/pkg/execguard"
	"github.com/cursegen/cursegen/pkg/pkgconf"
)

// EnvCFlags is the base name of the introspection compiler flags override,
// resolved through the per-target chain documented on cc.FlagsFromEnv.
const EnvCFlags = "CURSEGEN_CFLAGS"

// chtypeProgram prints a cfg signal per detected feature. A chtype that is
// neither 32 nor 64 bits trips the assert: unsupported configuration, not
// recoverable.
const chtypeProgram = `
#include <assert.h>
#include <limits.h>
#include <stdio.h>

#include <ncurses.h>

int main(void)
{
    if (sizeof(chtype)*CHAR_BIT == 64) {
        puts("cursegen:cfg=wide_chtype");
    } else {
        /* Only 32-bit and 64-bit chtype are supported. */
        assert(sizeof(chtype)*CHAR_BIT == 32 && "unsupported size for chtype");
    }

#if defined(NCURSES_MOUSE_VERSION) && NCURSES_MOUSE_VERSION == 1
    puts("cursegen:cfg=mouse_v1");
#endif
    return 0;
}
`

// Check writes the introspection source into outDir, compiles it against the
// resolved library's include paths (lib may be nil) plus the environment
// CFLAGS chain, runs the binary, and copies its stdout verbatim to the
// directive stream. Compile failure, a tripped assert, and any inability to
// clean up are all fatal. Probe artifacts are removed unless keep is set.
func Check(comp *cc.Compiler, lib *pkgconf.Library, outDir string, em *emit.Emitter, keep bool) error {
	src := filepath.Join(outDir, "chtype_size.c")
	bin := filepath.Join(outDir, "chtype_size")

	if err := os.WriteFile(src, []byte(chtypeProgram), 0o644); err != nil {
		return fmt.Errorf("cannot create %q: %w", src, err)
	}

	cmd, err := execguard.New(comp.Path(), "-o", bin, src)
	if err != nil {
		return err
	}
	if lib != nil {
		for _, dir := range lib.IncludeDirs {
			if err := cmd.Args("-I", dir); err != nil {
				return err
			}
		}
	}
	if err := cmd.Args(comp.FlagsFromEnv(EnvCFlags)...); err != nil {
		return err
	}
	if err := cmd.Run(); err != nil {
		return err
	}

	probe, err := execguard.New(bin)
	if err != nil {
		return err
	}
	out, err := probe.RunOutput()
	if err != nil {
		return fmt.Errorf("feature probe failed: %w", err)
	}
	em.Verbatim(out)

	if !keep {
		if err := os.Remove(src); err != nil {
			return fmt.Errorf("cannot delete generated file %q: %w", src, err)
		}
		if err := os.Remove(bin); err != nil {
			return fmt.Errorf("cannot delete compiled file %q: %w", bin, err)
		}
	}
	return nil
}
