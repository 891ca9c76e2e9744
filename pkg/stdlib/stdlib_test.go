package stdlib_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/agenthands/minitri/pkg/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleReadInt(t *testing.T) {
	c := stdlib.NewConsole(strings.NewReader("  3\n-12\t+7 \n"), &bytes.Buffer{})

	for _, want := range []int64{3, -12, 7} {
		n, err := c.ReadInt()
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	_, err := c.ReadInt()
	assert.ErrorIs(t, err, stdlib.ErrNoInput)
}

func TestConsoleBadInput(t *testing.T) {
	c := stdlib.NewConsole(strings.NewReader("4x 99999999999999999999"), &bytes.Buffer{})

	_, err := c.ReadInt()
	var ierr *stdlib.InputError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, "4x", ierr.Word)
	assert.ErrorIs(t, err, strconv.ErrSyntax)

	_, err = c.ReadInt()
	assert.ErrorIs(t, err, strconv.ErrRange)
}

func TestConsoleWriteInt(t *testing.T) {
	var out bytes.Buffer
	c := stdlib.NewConsole(strings.NewReader(""), &out)

	require.NoError(t, c.WriteInt(120))
	require.NoError(t, c.WriteInt(-5))
	assert.Equal(t, "120\n-5\n", out.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestConsoleWriteError(t *testing.T) {
	c := stdlib.NewConsole(strings.NewReader(""), failingWriter{})
	assert.EqualError(t, c.WriteInt(1), "closed")
}

func TestSandbox(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ok.mt"), []byte("let var x: Integer in x := 1"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "big.mt"), bytes.Repeat([]byte("!"), 65), 0o644))

	sb, err := stdlib.NewSandbox(dir, 64)
	require.NoError(t, err)

	data, err := sb.ReadFile("ok.mt")
	require.NoError(t, err)
	assert.Contains(t, string(data), "let var x")

	_, err = sb.ReadFile(filepath.Join(dir, "ok.mt"))
	assert.NoError(t, err)

	_, err = sb.ReadFile("big.mt")
	assert.ErrorIs(t, err, stdlib.ErrFileTooLarge)

	_, err = sb.ReadFile("../outside.mt")
	assert.ErrorIs(t, err, stdlib.ErrPathEscape)

	_, err = sb.ReadFile(dir + "-sibling/x.mt")
	assert.ErrorIs(t, err, stdlib.ErrPathEscape)

	_, err = sb.ReadFile("missing.mt")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSandboxDefaultLimit(t *testing.T) {
	sb, err := stdlib.NewSandbox(t.TempDir(), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(stdlib.DefaultMaxSourceSize), sb.MaxFileSize)
}
