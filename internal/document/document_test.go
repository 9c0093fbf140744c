package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	start = "<!-- start -->"
	end   = "<!-- end -->"
)

func TestSplice(t *testing.T) {
	original := "# Title\n\n" + start + "\nold stuff\n" + end + "\n\nfooter\n"
	got, err := Splice(original, start, end, "\nnew\n")
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\n"+start+"\nnew\n"+end+"\n\nfooter\n", got)
}

func TestSpliceIsIdempotent(t *testing.T) {
	original := "head\n" + start + "x" + end + "tail"
	once, err := Splice(original, start, end, Section("body"))
	require.NoError(t, err)
	twice, err := Splice(once, start, end, Section("body"))
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestSpliceUsesFirstEndAfterStart(t *testing.T) {
	original := end + " early\n" + start + "a" + end + "b" + end
	got, err := Splice(original, start, end, "X")
	require.NoError(t, err)
	assert.Equal(t, end+" early\n"+start+"X"+end+"b"+end, got)
}

func TestSpliceMissingMarkers(t *testing.T) {
	tests := map[string]string{
		"no start":         "text " + end,
		"no end":           start + " text",
		"end before start": end + " text " + start,
		"empty":            "",
	}
	for name, original := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Splice(original, start, end, "X")
			assert.ErrorIs(t, err, ErrMarkerNotFound)
		})
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0600))

	require.NoError(t, WriteFileAtomic(path, []byte("new")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestWriteFileAtomicMissingDir(t *testing.T) {
	err := WriteFileAtomic(filepath.Join(t.TempDir(), "missing", "README.md"), []byte("x"))
	assert.Error(t, err)
}
