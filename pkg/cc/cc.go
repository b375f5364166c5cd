// Package cc models the C compiler capability: locating a compiler, resolving
// the per-target environment flag chain, and building the auxiliary static
// archive. It deliberately mirrors how native build helpers behave so users
// can carry over CC, AR and per-target CFLAGS habits unchanged.
package cc

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/cursegen/cursegen/pkg/execguard"
)

// Compiler is a resolved C compiler plus the target/host triples used for
// environment flag lookup. Immutable after construction.
type Compiler struct {
	path   string
	target string
	host   string
}

// Resolve locates a C compiler. Order: the override argument (from config),
// the CC environment variable, then cc, gcc and clang on PATH. The TARGET and
// HOST environment variables override the triples, which otherwise both
// default to the running platform.
func Resolve(override string) (*Compiler, error) {
	triple := hostTriple()
	c := &Compiler{
		target: envOr("TARGET", triple),
		host:   envOr("HOST", triple),
	}

	candidates := []string{override, os.Getenv("CC"), "cc", "gcc", "clang"}
	for _, name := range candidates {
		if name == "" {
			continue
		}
		path, err := exec.LookPath(name)
		if err == nil {
			c.path = path
			return c, nil
		}
		if override != "" && name == override {
			return nil, fmt.Errorf("configured compiler %q not found: %w", override, err)
		}
	}
	return nil, fmt.Errorf("no C compiler found (tried CC, cc, gcc, clang)")
}

// New returns a Compiler using an explicit path and the running platform's
// triple for both target and host. Used by tests and by callers that already
// know their compiler.
func New(path string) *Compiler {
	triple := hostTriple()
	return &Compiler{path: path, target: triple, host: triple}
}

// Path returns the compiler executable path.
func (c *Compiler) Path() string {
	return c.path
}

// Target returns the target triple.
func (c *Compiler) Target() string {
	return c.target
}

// FlagsFromEnv resolves base (e.g. "CURSEGEN_CFLAGS") through the per-target
// override chain and returns the flags split on whitespace, or nil when no
// variable in the chain is set. For base "X" and target
// "x86_64-unknown-linux-gnu" the chain is:
//
//  1. X_x86_64-unknown-linux-gnu
//  2. X_x86_64_unknown_linux_gnu
//  3. HOST_X (or TARGET_X when cross compiling)
//  4. X
//
// The first variable that exists wins, even when empty.
func (c *Compiler) FlagsFromEnv(base string) []string {
	crossPrefix := "HOST_"
	if c.target != c.host {
		crossPrefix = "TARGET_"
	}
	chain := []string{
		base + "_" + c.target,
		base + "_" + strings.ReplaceAll(c.target, "-", "_"),
		crossPrefix + base,
		base,
	}
	for _, name := range chain {
		if v, ok := os.LookupEnv(name); ok {
			return strings.Fields(v)
		}
	}
	return nil
}

// BuildArchive compiles src into an object file at the given optimization
// level and packs it into outDir/lib<name>.a with ar (AR env overrides the
// tool). The intermediate object is removed unless keep is set; the archive
// itself is a deliverable and is always left in place. Returns the archive
// path.
func (c *Compiler) BuildArchive(src, outDir, name string, includeDirs []string, optLevel int, keep bool) (string, error) {
	obj := filepath.Join(outDir, name+".o")
	archive := filepath.Join(outDir, "lib"+name+".a")

	cmd, err := execguard.New(c.path, "-c", src, "-o", obj, fmt.Sprintf("-O%d", optLevel))
	if err != nil {
		return "", err
	}
	for _, dir := range includeDirs {
		if err := cmd.Args("-I", dir); err != nil {
			return "", err
		}
	}
	if err := cmd.Run(); err != nil {
		return "", err
	}

	ar := envOr("AR", "ar")
	arCmd, err := execguard.New(ar, "rcs", archive, obj)
	if err != nil {
		return "", err
	}
	if err := arCmd.Run(); err != nil {
		return "", err
	}

	if !keep {
		if err := os.Remove(obj); err != nil {
			return "", fmt.Errorf("cannot delete object file %q: %w", obj, err)
		}
	}
	return archive, nil
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

// hostTriple derives a GNU-style triple from the running platform. Only the
// platforms the discovery logic itself supports are mapped; anything else
// falls back to a GOARCH-GOOS pair, which still yields a usable env var name.
func hostTriple() string {
	cpu := map[string]string{
		"amd64": "x86_64",
		"arm64": "aarch64",
		"386":   "i686",
		"arm":   "armv7",
	}[runtime.GOARCH]
	if cpu == "" {
		cpu = runtime.GOARCH
	}
	switch runtime.GOOS {
	case "linux":
		return cpu + "-unknown-linux-gnu"
	case "darwin":
		return cpu + "-apple-darwin"
	case "freebsd":
		return cpu + "-unknown-freebsd"
	case "netbsd":
		return cpu + "-unknown-netbsd"
	case "openbsd":
		return cpu + "-unknown-openbsd"
	default:
		return cpu + "-" + runtime.GOOS
	}
}
