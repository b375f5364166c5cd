package linktrial

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cursegen/cursegen/pkg/cc"
	"github.com/cursegen/cursegen/pkg/probe"
)

// fakeLinker creates a compiler script that "links" successfully only for the
// library names listed in ok. An empty ok list accepts every name.
func fakeLinker(t *testing.T, dir string, ok ...string) *cc.Compiler {
	t.Helper()
	body := `#!/bin/sh
out=
lib=
prev=
for a in "$@"; do
	[ "$prev" = "-o" ] && out="$a"
	[ "$prev" = "-l" ] && lib="$a"
	prev="$a"
done
`
	if len(ok) == 0 {
		body += `: > "$out"` + "\nexit 0\n"
	} else {
		body += `case "$lib" in` + "\n"
		for _, name := range ok {
			body += name + `) : > "$out"; exit 0 ;;` + "\n"
		}
		body += `esac` + "\nexit 1\n"
	}
	path := filepath.Join(dir, "fake-cc")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o755))
	return cc.New(path)
}

func TestTryLinksAndCleansUp(t *testing.T) {
	dir := t.TempDir()
	comp := fakeLinker(t, dir, "tinfo")

	linked, err := Try(comp, dir, "tinfo", nil, false)
	require.NoError(t, err)
	assert.True(t, linked)

	assert.NoFileExists(t, filepath.Join(dir, "try_link_with_tinfo.c"))
	assert.NoFileExists(t, filepath.Join(dir, "try_link_with_tinfo"))
}

func TestTryFailedLink(t *testing.T) {
	dir := t.TempDir()
	comp := fakeLinker(t, dir, "tinfo")

	linked, err := Try(comp, dir, "tinfow", nil, false)
	require.NoError(t, err)
	assert.False(t, linked)

	// The source is cleaned up even after a failed trial.
	assert.NoFileExists(t, filepath.Join(dir, "try_link_with_tinfow.c"))
}

func TestTryKeepsArtifactsInDebugMode(t *testing.T) {
	dir := t.TempDir()
	comp := fakeLinker(t, dir, "tinfo")

	linked, err := Try(comp, dir, "tinfo", nil, true)
	require.NoError(t, err)
	assert.True(t, linked)

	assert.FileExists(t, filepath.Join(dir, "try_link_with_tinfo.c"))
	assert.FileExists(t, filepath.Join(dir, "try_link_with_tinfo"))
}

func TestSelectFirstMatchNotBestMatch(t *testing.T) {
	dir := t.TempDir()
	// Every candidate links (symlinked libraries do this in the wild); the
	// declared order must still decide.
	comp := fakeLinker(t, dir)

	name, ok, err := Select(comp, dir, probe.Candidates{"a", "b"}, nil, false)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a", name)
}

func TestSelectSkipsNonLinkingCandidates(t *testing.T) {
	dir := t.TempDir()
	comp := fakeLinker(t, dir, "tinfo")

	name, ok, err := Select(comp, dir, probe.Candidates{"tinfow5", "tinfow", "tinfo"}, nil, false)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tinfo", name)
}

func TestSelectNoneLink(t *testing.T) {
	dir := t.TempDir()
	comp := fakeLinker(t, dir, "nothing-matches")

	name, ok, err := Select(comp, dir, probe.Candidates{"tinfow5", "tinfow"}, nil, false)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, name)
}
