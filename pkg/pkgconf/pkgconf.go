// Package pkgconf is the thin adapter around pkg-config (or pkgconf), the
// package-metadata capability. It answers "is this library installed, and
// with which include paths, link paths and constituent libs" and emits a
// linker directive for every constituent lib it reports, matching the
// behavior downstream consumers rely on.
package pkgconf

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/cursegen/cursegen/pkg/emit"
	"github.com/cursegen/cursegen/pkg/execguard"
)

// Library describes one resolved library. Immutable after creation; a nil
// *Library means "not found via metadata".
type Library struct {
	// Name is the candidate name the query matched, e.g. "ncursesw".
	Name string
	// IncludeDirs are -I search paths reported for the library.
	IncludeDirs []string
	// LinkDirs are -L search paths reported for the library.
	LinkDirs []string
	// Libs are the constituent linkable names, e.g. ["ncursesw", "tinfo"].
	// The primary library is not guaranteed to be first.
	Libs []string
}

// Client queries pkg-config. A nil Client is not usable; construct with New.
type Client struct {
	exe string
	em  *emit.Emitter
	// run is the query executor, replaceable in tests. It returns the
	// combined --cflags --libs output for one library name.
	run func(exe, name string) ([]byte, error)
}

// New locates the metadata query tool and returns a Client that emits link
// directives through em on each successful query. The PKG_CONFIG environment
// variable overrides the tool; otherwise pkg-config then pkgconf are tried.
// Returns an error when no tool is available at all, which callers treat as
// "every probe misses" rather than as fatal.
func New(em *emit.Emitter) (*Client, error) {
	if exe := os.Getenv("PKG_CONFIG"); exe != "" {
		return &Client{exe: exe, em: em, run: runQuery}, nil
	}
	for _, exe := range []string{"pkg-config", "pkgconf"} {
		if _, err := exec.LookPath(exe); err == nil {
			return &Client{exe: exe, em: em, run: runQuery}, nil
		}
	}
	return nil, fmt.Errorf("neither pkg-config nor pkgconf found in PATH")
}

// Probe queries one candidate name. On a hit it emits a link-lib directive
// per constituent lib (intentional pass-through side effect) and returns the
// parsed Library. On a miss it returns nil and the query error.
func (c *Client) Probe(name string) (*Library, error) {
	out, err := c.run(c.exe, name)
	if err != nil {
		return nil, fmt.Errorf("probing %q: %w", name, err)
	}
	lib := parseFlags(name, string(out))
	if c.em != nil {
		for _, l := range lib.Libs {
			c.em.LinkLib(l)
		}
	}
	return lib, nil
}

func runQuery(exe, name string) ([]byte, error) {
	cmd, err := execguard.New(exe, "--cflags", "--libs", name)
	if err != nil {
		return nil, err
	}
	out, code, err := cmd.Output()
	if err != nil {
		return nil, err
	}
	if code != 0 {
		return nil, fmt.Errorf("%s exited with code %d", exe, code)
	}
	return out, nil
}

// parseFlags splits pkg-config output into include dirs, link dirs and
// constituent lib names. Unknown flags are ignored; pkg-config output for
// curses libraries never needs more than -I, -L and -l here.
func parseFlags(name, out string) *Library {
	lib := &Library{Name: name}
	for _, tok := range strings.Fields(out) {
		switch {
		case strings.HasPrefix(tok, "-I"):
			lib.IncludeDirs = append(lib.IncludeDirs, tok[2:])
		case strings.HasPrefix(tok, "-L"):
			lib.LinkDirs = append(lib.LinkDirs, tok[2:])
		case strings.HasPrefix(tok, "-l"):
			lib.Libs = append(lib.Libs, tok[2:])
		}
	}
	return lib
}
