// cursegen.go
package cursegen

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/cursegen/cursegen/pkg/bindgen"
	"github.com/cursegen/cursegen/pkg/cc"
	"github.com/cursegen/cursegen/pkg/emit"
	"github.com/cursegen/cursegen/pkg/feature"
	"github.com/cursegen/cursegen/pkg/linktrial"
	"github.com/cursegen/cursegen/pkg/pkgconf"
	"github.com/cursegen/cursegen/pkg/probe"
)

// cursesSubstring identifies the terminal-control library among the
// constituent lib names reported by the metadata capability. The exact name
// can be ncurses, ncursesw, ncurses5, ncursesw5..., and it is not guaranteed
// to be first in the reported list.
const cursesSubstring = "curses"

// Orchestrator sequences discovery, feature probing, binding generation and
// support-archive compilation for one build invocation. Strictly linear, no
// retries across steps.
type Orchestrator struct {
	cfg    *Config
	em     *emit.Emitter
	prober probe.Prober
	comp   *cc.Compiler
	wide   bool
	keep   bool
}

// New builds an Orchestrator from resolved configuration. A missing C
// compiler is fatal here; a missing metadata capability is not — discovery
// then falls through to link trials and configured fallback names.
func New(cfg *Config) (*Orchestrator, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	em := emit.New(os.Stdout, os.Stderr)
	em.EnableColor(true)

	comp, err := cc.Resolve(cfg.Compiler)
	if err != nil {
		return nil, &Error{Op: "resolving compiler", Err: fmt.Errorf("%w: %v", ErrCompilerNotFound, err)}
	}

	o := &Orchestrator{
		cfg:  cfg,
		em:   em,
		comp: comp,
		wide: ResolveWide(cfg.Wide, runtime.GOOS),
		keep: cfg.keepArtifacts(),
	}

	// The pkg-config adapter emits link directives on successful queries, so
	// it shares the orchestrator's emitter.
	if client, err := pkgconf.New(em); err == nil {
		o.prober = client
	}
	return o, nil
}

// Run executes the full pipeline: resolve the four logical libraries, decide
// the final primary link name, probe ABI features, generate both constants
// files, and compile the support archive. Discovery misses degrade to
// warnings with fallbacks; everything after discovery is fatal on failure.
func (o *Orchestrator) Run() error {
	o.em.RerunIfEnvChanged("PKG_CONFIG_PATH")
	o.em.RerunIfEnvChanged(EnvLinkFlags)
	o.em.RerunIfEnvChanged(EnvLinkLib)

	if err := os.MkdirAll(o.cfg.OutDir, 0o755); err != nil {
		return &Error{Op: "creating output dir", Err: err}
	}

	ncurses := probe.Find(o.prober, probe.Names(probe.Curses, o.wide))

	// Extension modules are assumed present whenever the primary library is:
	// no link trial, just the unconditional last-candidate fallback.
	if o.cfg.Menu {
		if probe.Find(o.prober, probe.Names(probe.Menu, o.wide)) == nil {
			o.em.LinkLib(probe.Names(probe.Menu, o.wide).Fallback())
		}
	}
	if o.cfg.Panel {
		if probe.Find(o.prober, probe.Names(probe.Panel, o.wide)) == nil {
			o.em.LinkLib(probe.Names(probe.Panel, o.wide).Fallback())
		}
	}

	if err := o.resolveTinfo(ncurses); err != nil {
		return err
	}

	libName := o.cursesLibName(ncurses)

	if raw := os.Getenv(EnvLinkFlags); raw != "" {
		o.em.LinkFlags(raw)
	}

	if err := feature.Check(o.comp, ncurses, o.cfg.OutDir, o.em, o.keep); err != nil {
		return &Error{Op: "feature probe", Err: err}
	}

	if err := bindgen.Generate(o.comp, o.em, o.cfg.OutDir,
		o.source("genconstants.c", genConstantsC),
		"genconstants", "raw_constants.go", ncurses, libName); err != nil {
		return &Error{Op: "generating constants", Err: err}
	}
	if err := bindgen.Generate(o.comp, o.em, o.cfg.OutDir,
		o.source("genmenuconstants.c", genMenuConstantsC),
		"genmenuconstants", "menu_constants.go", ncurses, libName); err != nil {
		return &Error{Op: "generating menu constants", Err: err}
	}

	if err := o.buildWrap(ncurses); err != nil {
		return &Error{Op: "building support archive", Err: err}
	}
	return nil
}

// resolveTinfo handles the split low-level terminfo sub-library. Fedora and
// Gentoo split it out of ncurses; without -ltinfo, linking fails with
// unrelated-looking undefined symbols like 'noraw'. When the metadata lookup
// misses, the linker itself is asked which tinfo variant exists.
func (o *Orchestrator) resolveTinfo(ncurses *pkgconf.Library) error {
	names := probe.Names(probe.Tinfo, o.wide)
	if probe.Find(o.prober, names) != nil {
		return nil
	}

	var linkDirs []string
	if ncurses != nil {
		linkDirs = ncurses.LinkDirs
	}
	name, ok, err := linktrial.Select(o.comp, o.cfg.OutDir, names, linkDirs, o.keep)
	if err != nil {
		return &Error{Op: "link trial", Lib: string(probe.Tinfo), Err: err}
	}
	if ok {
		o.em.Warnf("Found tinfo fallback '%s'", name)
		o.em.LinkLib(name)
	}
	// No candidate linking is non-fatal: some platforms fold terminfo into
	// the curses library itself and link it transitively.
	return nil
}

// cursesLibName decides the final primary library name. Precedence:
// environment override, then the constituent lib containing the recognition
// substring, then the configured last-resort fallback with a remediation
// warning. The directive is emitted here unless the metadata query already
// emitted one for the same name.
func (o *Orchestrator) cursesLibName(ncurses *pkgconf.Library) string {
	candidates := probe.Names(probe.Curses, o.wide)

	name := os.Getenv(EnvLinkLib)
	if name == "" {
		switch {
		case ncurses != nil:
			for _, l := range ncurses.Libs {
				if strings.Contains(l, cursesSubstring) {
					name = l
					break
				}
			}
			if name == "" {
				// Odd but survivable: the query succeeded yet none of the
				// reported libs looks like a curses library. Builds have
				// been seen to work anyway, so warn instead of failing.
				queries := make([]string, len(candidates))
				for i, c := range candidates {
					queries[i] = "pkg-config --libs " + c
				}
				o.em.Warnf("the metadata query found the ncurses libs but the substring '%s' was not among them, i.e. in the output of `%s`",
					cursesSubstring, strings.Join(queries, "` or `"))
				name = candidates.Fallback()
			}
		default:
			name = candidates.Fallback()
			o.em.Warnf("Using fallback lib name '%s'. If linking fails below, that is why. "+
				"It's likely you have not installed 'pkg-config' or 'pkgconf', and/or the ncurses development files "+
				"(package 'ncurses-devel' on Fedora; run `nix-shell` first on NixOS). "+
				"FreeBSD 14 tends to work regardless, but `pkg install ncurses pkgconf` makes it certain.", name)
		}
	}

	if !o.em.Emitted(name) {
		o.em.LinkLib(name)
	}
	return name
}

// source picks the on-disk introspection source when csrc_dir is configured,
// otherwise the embedded copy.
func (o *Orchestrator) source(name string, embedded []byte) bindgen.Source {
	if o.cfg.CsrcDir != "" {
		return bindgen.Source{Path: filepath.Join(o.cfg.CsrcDir, name)}
	}
	return bindgen.Source{Content: embedded}
}

// buildWrap compiles the auxiliary C support source into a static archive.
// Opt level 1 rather than 0: _FORTIFY_SOURCE on hardened distros warns
// without optimization, and -O1 keeps the archive debuggable.
func (o *Orchestrator) buildWrap(ncurses *pkgconf.Library) error {
	src := filepath.Join(o.cfg.OutDir, "wrap.c")
	if o.cfg.CsrcDir != "" {
		src = filepath.Join(o.cfg.CsrcDir, "wrap.c")
		o.em.RerunIfChanged(src)
	} else if err := os.WriteFile(src, wrapC, 0o644); err != nil {
		return fmt.Errorf("cannot create %q: %w", src, err)
	}

	var includes []string
	if ncurses != nil {
		includes = ncurses.IncludeDirs
	}
	_, err := o.comp.BuildArchive(src, o.cfg.OutDir, "wrap", includes, 1, o.keep)
	return err
}
