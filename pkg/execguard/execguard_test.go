package execguard

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgRejectsNUL(t *testing.T) {
	c, err := New("cc")
	require.NoError(t, err)

	err = c.Arg("a\x00rg2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NUL byte")
	assert.Contains(t, err.Error(), `a\x00rg2`)
}

func TestArgsReportsPosition(t *testing.T) {
	c, err := New("cc", "fine")
	require.NoError(t, err)

	err = c.Args("also fine", "bad\x00arg", "never reached")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "argument 3")

	// Nothing after the offending argument may have been appended.
	assert.Equal(t, `'cc' with 2 args: "fine" "also fine"`, c.String())
}

func TestNewRejectsNUL(t *testing.T) {
	_, err := New("cc", "ok", "with\x00nul")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "argument 2")
}

func TestStringEscapesNonUTF8(t *testing.T) {
	c, err := New("cc")
	require.NoError(t, err)
	require.NoError(t, c.Arg("ar♥g1"))
	require.NoError(t, c.Arg("my\xffarg3"))

	s := c.String()
	assert.Contains(t, s, `"ar♥g1"`)
	assert.Contains(t, s, `"my\xFFarg3"`)
	assert.True(t, strings.HasPrefix(s, "'cc' with 2 args:"), s)
}

func TestStatusReturnsExitCode(t *testing.T) {
	c, err := New("sh", "-c", "exit 42")
	require.NoError(t, err)
	c.SetTrace(io.Discard)

	code, err := c.Status()
	require.NoError(t, err)
	assert.Equal(t, 42, code)
}

func TestStatusFailsForMissingProgram(t *testing.T) {
	c, err := New("definitely-not-a-real-command", "ar♥g1")
	require.NoError(t, err)
	c.SetTrace(io.Discard)

	_, err = c.Status()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "definitely-not-a-real-command")
	assert.Contains(t, err.Error(), `"ar♥g1"`)
}

func TestRunSucceedsOnZeroExit(t *testing.T) {
	c, err := New("sh", "-c", "exit 0")
	require.NoError(t, err)
	c.SetTrace(io.Discard)

	assert.NoError(t, c.Run())
}

func TestRunReportsExitCodeWithRemediation(t *testing.T) {
	c, err := New("sh", "-c", "exit 43")
	require.NoError(t, err)
	c.SetTrace(io.Discard)

	err = c.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit code 43")
	assert.Contains(t, err.Error(), "Is ncurses installed?")
}

func TestRunOutputCapturesStdout(t *testing.T) {
	c, err := New("sh", "-c", "printf hello")
	require.NoError(t, err)
	c.SetTrace(io.Discard)

	out, err := c.RunOutput()
	require.NoError(t, err)
	assert.Equal(t, "hello", string(out))
}

func TestTraceLogsCommandLine(t *testing.T) {
	var trace strings.Builder
	c, err := New("sh", "-c", "exit 0")
	require.NoError(t, err)
	c.SetTrace(&trace)

	_, err = c.Status()
	require.NoError(t, err)
	assert.Contains(t, trace.String(), `'sh' with 2 args: "-c" "exit 0"`)
}
