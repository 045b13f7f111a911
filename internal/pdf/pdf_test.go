package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactLines(t *testing.T) {
	text := "Alice knows Go\r\n\n   Bob\tknows   Rust  \n\n\nCarol knows networking"
	assert.Equal(t, []string{"Alice knows Go", "Bob knows Rust", "Carol knows networking"}, FactLines(text))
	assert.Empty(t, FactLines(" \n\t\n"))
}

func TestReadText_PlainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "experts.txt")
	require.NoError(t, os.WriteFile(path, []byte("Alice knows Go\nBob knows Rust\n"), 0o644))

	txt, err := ReadText(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice knows Go", "Bob knows Rust"}, FactLines(txt))
}

func TestReadText_Missing(t *testing.T) {
	_, err := ReadText(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestExtractText_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o644))

	_, err := ReadText(path)
	assert.Error(t, err)
}
