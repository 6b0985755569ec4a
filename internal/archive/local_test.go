package archive

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestObjectPathStable(t *testing.T) {
	t.Parallel()

	a := ObjectPath("https://example.com/post")
	b := ObjectPath("https://example.com/post")
	require.Equal(t, a, b)
	require.NotEqual(t, a, ObjectPath("https://example.com/other"))
	require.Regexp(t, `^pages/[0-9a-f]{2}/[0-9a-f]{64}\.html$`, a)
}

func TestLocalArchiverWritesSnapshot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	a, err := NewLocal(root, 1<<20)
	require.NoError(t, err)

	url := "https://example.com/post"
	require.NoError(t, a.Archive(context.Background(), url, []byte("<html>hi</html>")))

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(ObjectPath(url))))
	require.NoError(t, err)
	require.Equal(t, "<html>hi</html>", string(data))
}

func TestLocalArchiverRejectsOversize(t *testing.T) {
	t.Parallel()

	a, err := NewLocal(t.TempDir(), 4)
	require.NoError(t, err)
	require.Error(t, a.Archive(context.Background(), "https://example.com/big", []byte("too large")))
}
