package crawler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDomainBreakerTripsOnce(t *testing.T) {
	t.Parallel()

	b := newDomainBreaker(3)
	require.False(t, b.recordRejection("spam.example"))
	require.False(t, b.recordRejection("spam.example"))
	require.True(t, b.recordRejection("spam.example"))
	require.False(t, b.recordRejection("spam.example"), "trip reported only once")
	require.True(t, b.isTripped("spam.example"))
	require.False(t, b.isTripped("other.example"))
}

func TestDomainBreakerDisabled(t *testing.T) {
	t.Parallel()

	b := newDomainBreaker(0)
	for i := 0; i < 100; i++ {
		require.False(t, b.recordRejection("spam.example"))
	}
}

func TestGlobalBreakerResetsOnAcceptance(t *testing.T) {
	t.Parallel()

	b := newGlobalBreaker(3)
	require.False(t, b.recordRejection())
	require.False(t, b.recordRejection())
	b.recordAcceptance()
	require.False(t, b.recordRejection())
	require.False(t, b.recordRejection())
	require.True(t, b.recordRejection())
	require.True(t, b.stopRequested())
}
