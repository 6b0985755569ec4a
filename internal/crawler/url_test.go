package crawler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanonicalizeStripsQueryAndFragment(t *testing.T) {
	t.Parallel()

	got, err := Canonicalize("https://Example.com/Posts/1?utm_source=x#section")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/Posts/1", got)
}

func TestCanonicalizeRejectsNonHTTP(t *testing.T) {
	t.Parallel()

	_, err := Canonicalize("mailto:someone@example.com")
	require.Error(t, err)

	_, err = Canonicalize("ftp://example.com/file")
	require.Error(t, err)
}

func TestResolveLinkRelative(t *testing.T) {
	t.Parallel()

	got, err := ResolveLink("https://example.com/blog/post", "../about?ref=footer")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/about", got)
}

func TestDomainOf(t *testing.T) {
	t.Parallel()

	require.Equal(t, "blog.example.com", DomainOf("https://Blog.Example.com:8080/x"))
	require.Equal(t, "", DomainOf("://bad"))
}
