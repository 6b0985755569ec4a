package crawler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAdmissibleRejectsBinaryExtensions(t *testing.T) {
	t.Parallel()

	f := NewAdmissionFilter(nil)

	ok, reason := f.Admissible("https://example.com/photo.JPG")
	require.False(t, ok)
	require.Equal(t, "binary extension", reason)

	// PDFs are allowed; essays are often published as PDF.
	ok, _ = f.Admissible("https://example.com/essay.pdf")
	require.True(t, ok)
}

func TestAdmissibleRejectsListingURLs(t *testing.T) {
	t.Parallel()

	f := NewAdmissionFilter(nil)
	for _, u := range []string{
		"https://example.com/tag/golang",
		"https://example.com/category/life",
		"https://example.com/wp-json/wp/v2/posts",
		"https://example.com/?p=123",
	} {
		ok, reason := f.Admissible(u)
		require.False(t, ok, u)
		require.Equal(t, "excluded url pattern", reason)
	}

	ok, _ := f.Admissible("https://example.com/posts/my-tags-explained")
	require.True(t, ok)
}

func TestAdmissibleBlacklistMatchesSubdomains(t *testing.T) {
	t.Parallel()

	f := NewAdmissionFilter(map[string]struct{}{"spam.example": {}})

	ok, reason := f.Admissible("https://spam.example/post")
	require.False(t, ok)
	require.Equal(t, "blacklisted domain", reason)

	ok, _ = f.Admissible("https://blog.spam.example/post")
	require.False(t, ok)

	ok, _ = f.Admissible("https://notspam.example/post")
	require.True(t, ok)
}

func TestBlockAddsDomainMidRun(t *testing.T) {
	t.Parallel()

	f := NewAdmissionFilter(nil)
	ok, _ := f.Admissible("https://late.example/post")
	require.True(t, ok)

	f.Block("late.example")
	ok, _ = f.Admissible("https://late.example/post")
	require.False(t, ok)
}
