package transcript

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesParentDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "import.log")
	tr := New(path)

	w, err := tr.Open()
	require.NoError(t, err)
	defer w.Close()

	_, err = w.Write([]byte("hello\n"))
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(b))
}

func TestOpen_AppendsAcrossRuns(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "import.log")
	tr := New(path)

	for _, block := range []string{"first run\n", "second run\n"} {
		w, err := tr.Open()
		require.NoError(t, err)
		_, err = w.Write([]byte(block))
		require.NoError(t, err)
		require.NoError(t, w.Close())
	}

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first run\nsecond run\n", string(b))
}

func TestTail(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "import.log")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\nc\nd\n"), 0o644))

	tr := New(path)

	lines, err := tr.Tail(2)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "d"}, lines)

	lines, err = tr.Tail(0)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, lines)
}

func TestTail_MissingFile(t *testing.T) {
	t.Parallel()

	tr := New(filepath.Join(t.TempDir(), "never-written.log"))

	lines, err := tr.Tail(10)
	require.NoError(t, err)
	assert.Empty(t, lines)
}
