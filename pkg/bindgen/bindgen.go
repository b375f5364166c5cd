// Package bindgen compiles and executes introspection C programs that print
// symbolic-constant definitions, capturing their output as generated Go
// source. The generated files are load-bearing: any failure here is fatal,
// with no fallback or retry.
package bindgen

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cursegen/cursegen/pkg/cc"
	"github.com/cursegen/cursegen/pkg/emit"
	"github.com/cursegen/cursegen/pkg/execguard"
	"github.com/cursegen/cursegen/pkg/feature"
	"github.com/cursegen/cursegen/pkg/pkgconf"
)

// Source names one introspection program. Exactly one of Path and Content is
// used: Path points at an on-disk file (watched via a rerun directive) while
// Content carries an embedded copy written into the output directory first.
type Source struct {
	Path    string
	Content []byte
}

// Generate compiles src against the resolved library's include and link paths
// and -l<libName>, runs the resulting binary, and writes its entire standard
// output byte-for-byte to outDir/outFile. The binary stays in outDir; only
// trial and feature probes are transient, generated artifacts are the
// deliverable.
//
// Known gap, kept on purpose: only libName is linked here, never a tinfo
// fallback selected by link trial. If pkg-config did not report tinfo among
// the constituent libs, this link carries on without it, which has not needed
// fixing in practice.
func Generate(comp *cc.Compiler, em *emit.Emitter, outDir string, src Source, binName, outFile string, lib *pkgconf.Library, libName string) error {
	srcPath := src.Path
	if srcPath == "" {
		srcPath = filepath.Join(outDir, binName+".c")
		if err := os.WriteFile(srcPath, src.Content, 0o644); err != nil {
			return fmt.Errorf("cannot create %q: %w", srcPath, err)
		}
	} else {
		em.RerunIfChanged(srcPath)
	}
	em.RerunIfEnvChanged(feature.EnvCFlags)

	bin := filepath.Join(outDir, binName)
	cmd, err := execguard.New(comp.Path(), "-o", bin, srcPath)
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
	if err := cmd.Args("-l", libName); err != nil {
		return err
	}
	if lib != nil {
		for _, dir := range lib.LinkDirs {
			if err := cmd.Args("-L", dir); err != nil {
				return err
			}
		}
	}
	if err := cmd.Args(comp.FlagsFromEnv(feature.EnvCFlags)...); err != nil {
		return err
	}
	if err := cmd.Run(); err != nil {
		return err
	}

	gen, err := execguard.New(bin)
	if err != nil {
		return err
	}
	out, err := gen.RunOutput()
	if err != nil {
		return fmt.Errorf("running %q: %w", bin, err)
	}

	outPath := filepath.Join(outDir, outFile)
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return fmt.Errorf("cannot write generated file %q: %w", outPath, err)
	}
	return nil
}
