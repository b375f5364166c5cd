package bindgen

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cursegen/cursegen/pkg/cc"
	"github.com/cursegen/cursegen/pkg/emit"
	"github.com/cursegen/cursegen/pkg/pkgconf"
)

const generatedConstants = "// Code generated by cursegen. DO NOT EDIT.\n\npackage nc\n\nconst OK int32 = 0\nconst ERR int32 = -1\n"

// fakeCompiler installs a binary that prints generatedConstants, and logs the
// compiler's argv to args.log for inspection.
func fakeCompiler(t *testing.T, dir string) *cc.Compiler {
	t.Helper()
	payload := filepath.Join(dir, "payload.sh")
	require.NoError(t, os.WriteFile(payload,
		[]byte("#!/bin/sh\ncat <<'EOF'\n"+generatedConstants+"EOF\n"), 0o755))

	body := `#!/bin/sh
echo "$@" >> "` + filepath.Join(dir, "args.log") + `"
out=
prev=
for a in "$@"; do
	[ "$prev" = "-o" ] && out="$a"
	prev="$a"
done
cat "` + payload + `" > "$out"
chmod +x "$out"
`
	path := filepath.Join(dir, "fake-cc")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o755))
	return cc.New(path)
}

func TestGenerateRoundTripsBinaryOutput(t *testing.T) {
	dir := t.TempDir()
	comp := fakeCompiler(t, dir)
	var out, warn bytes.Buffer
	em := emit.New(&out, &warn)

	src := Source{Content: []byte("/* introspection program */")}
	err := Generate(comp, em, dir, src, "genconstants", "raw_constants.go", nil, "ncursesw")
	require.NoError(t, err)

	// The generated file is exactly the binary's stdout, byte for byte.
	got, err := os.ReadFile(filepath.Join(dir, "raw_constants.go"))
	require.NoError(t, err)
	assert.Equal(t, generatedConstants, string(got))

	// Embedded sources are materialized into the output directory.
	matSrc, err := os.ReadFile(filepath.Join(dir, "genconstants.c"))
	require.NoError(t, err)
	assert.Equal(t, "/* introspection program */", string(matSrc))

	// No on-disk source, no rerun-if-changed directive.
	assert.NotContains(t, out.String(), "rerun-if-changed")
}

func TestGeneratePassesLibraryPaths(t *testing.T) {
	dir := t.TempDir()
	comp := fakeCompiler(t, dir)
	em := emit.New(&bytes.Buffer{}, &bytes.Buffer{})

	lib := &pkgconf.Library{
		Name:        "ncursesw",
		IncludeDirs: []string{"/usr/include/ncursesw"},
		LinkDirs:    []string{"/usr/lib64"},
	}
	src := Source{Content: []byte("x")}
	require.NoError(t, Generate(comp, em, dir, src, "genconstants", "raw_constants.go", lib, "ncursesw"))

	argsLog, err := os.ReadFile(filepath.Join(dir, "args.log"))
	require.NoError(t, err)
	args := string(argsLog)
	assert.Contains(t, args, "-I /usr/include/ncursesw")
	assert.Contains(t, args, "-l ncursesw")
	assert.Contains(t, args, "-L /usr/lib64")
}

func TestGenerateWatchesOnDiskSource(t *testing.T) {
	dir := t.TempDir()
	comp := fakeCompiler(t, dir)
	var out bytes.Buffer
	em := emit.New(&out, &bytes.Buffer{})

	srcPath := filepath.Join(dir, "genconstants.c")
	require.NoError(t, os.WriteFile(srcPath, []byte("x"), 0o644))

	src := Source{Path: srcPath}
	require.NoError(t, Generate(comp, em, dir, src, "genconstants", "raw_constants.go", nil, "ncursesw"))

	assert.Contains(t, out.String(), "cursegen:rerun-if-changed="+srcPath+"\n")
	assert.Contains(t, out.String(), "cursegen:rerun-if-env-changed=CURSEGEN_CFLAGS\n")
}

func TestGenerateFailsWhenBinaryFails(t *testing.T) {
	dir := t.TempDir()

	// Compiler that installs a failing binary.
	body := `#!/bin/sh
out=
prev=
for a in "$@"; do
	[ "$prev" = "-o" ] && out="$a"
	prev="$a"
done
printf '#!/bin/sh\nexit 1\n' > "$out"
chmod +x "$out"
`
	path := filepath.Join(dir, "fake-cc")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o755))

	em := emit.New(&bytes.Buffer{}, &bytes.Buffer{})
	err := Generate(cc.New(path), em, dir, Source{Content: []byte("x")}, "genconstants", "raw_constants.go", nil, "ncurses")
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "raw_constants.go"))
}
