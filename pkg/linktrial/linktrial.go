// Package linktrial asks the linker directly whether a library exists. It is
// the fallback used when the package-metadata capability cannot resolve a
// required sub-library: a trivial program is compiled and linked against each
// candidate name, and the first one the linker accepts wins.
package linktrial

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cursegen/cursegen/pkg/cc"
	"github.com/cursegen/cursegen/pkg/execguard"
	"github.com/cursegen/cursegen/pkg/probe"
)

// trialSource always compiles; only the link step against -l<name> can fail.
const trialSource = "int main() { return 0; }"

// Try reports whether the linker can link against libName. linkDirs carries
// -L search paths learned from a previously resolved library (typically
// empty when the metadata capability is absent, which is exactly when trials
// run). The trial binary is never executed; only the link exit status counts.
// Trial artifacts are deleted unless keep is set; a failed deletion is an
// error so filesystem problems surface here rather than as stale artifacts.
func Try(comp *cc.Compiler, outDir, libName string, linkDirs []string, keep bool) (bool, error) {
	base := "try_link_with_" + libName
	src := filepath.Join(outDir, base+".c")
	bin := filepath.Join(outDir, base)

	if err := os.WriteFile(src, []byte(trialSource), 0o644); err != nil {
		return false, fmt.Errorf("cannot create trial source %q: %w", src, err)
	}

	cmd, err := execguard.New(comp.Path(), "-o", bin, src, "-l", libName)
	if err != nil {
		return false, err
	}
	for _, dir := range linkDirs {
		if err := cmd.Args("-L", dir); err != nil {
			return false, err
		}
	}

	code, err := cmd.Status()
	if err != nil {
		return false, err
	}
	linked := code == 0

	if !keep {
		if linked {
			if err := os.Remove(bin); err != nil {
				return false, fmt.Errorf("cannot delete trial binary %q: %w", bin, err)
			}
		}
		if err := os.Remove(src); err != nil {
			return false, fmt.Errorf("cannot delete trial source %q: %w", src, err)
		}
	}
	return linked, nil
}

// Select tries each candidate in declared order and returns the first that
// links. Multiple candidates may link on a given system (symlinked
// libraries), so this is first-match, never best-match. Returns ok=false when
// none link, which callers treat as non-fatal: some platforms link the
// library transitively.
func Select(comp *cc.Compiler, outDir string, names probe.Candidates, linkDirs []string, keep bool) (string, bool, error) {
	for _, name := range names {
		linked, err := Try(comp, outDir, name, linkDirs, keep)
		if err != nil {
			return "", false, err
		}
		if linked {
			return name, true, nil
		}
	}
	return "", false, nil
}
