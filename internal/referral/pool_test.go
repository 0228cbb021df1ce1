package referral

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddressPoolRotation(t *testing.T) {
	pool, err := NewAddressPool([]string{"a", "b", "c"})
	require.NoError(t, err)

	got := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		got = append(got, pool.Next())
	}
	require.Equal(t, []string{"a", "b", "c", "a", "b", "c", "a"}, got)
	require.Equal(t, uint64(7), pool.Issued())
}

func TestAddressPoolRejectsEmpty(t *testing.T) {
	_, err := NewAddressPool(nil)
	require.ErrorIs(t, err, ErrPoolMisconfigured)

	_, err = NewAddressPool([]string{"a", "  "})
	require.ErrorIs(t, err, ErrPoolMisconfigured)
}

func TestAddressPoolPeekDoesNotAdvance(t *testing.T) {
	pool, err := NewAddressPool([]string{"a", "b"})
	require.NoError(t, err)

	require.Equal(t, "a", pool.Peek())
	require.Equal(t, "a", pool.Peek())
	require.Equal(t, uint64(0), pool.Issued())

	pool.Advance()
	require.Equal(t, "b", pool.Peek())
	require.Equal(t, uint64(1), pool.Issued())
}
