package labels

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pybash1/provoke/internal/store"
)

func TestAppendLabelWritesHeaderOnce(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "labels", "corpus.csv")
	corpus, err := NewCorpus(path)
	require.NoError(t, err)
	corpus.now = func() time.Time { return time.Unix(1700000000, 0) }

	ctx := context.Background()
	require.NoError(t, corpus.AppendLabel(ctx, store.Page{URL: "https://a.example/1", Title: "One"}, "bad"))
	require.NoError(t, corpus.AppendLabel(ctx, store.Page{URL: "https://a.example/2", Title: "Two"}, "good"))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []string{"url", "title", "label", "labeled_at"}, rows[0])
	require.Equal(t, "https://a.example/1", rows[1][0])
	require.Equal(t, "bad", rows[1][2])
	require.Equal(t, "good", rows[2][2])
}
