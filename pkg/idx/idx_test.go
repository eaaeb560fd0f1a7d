package idx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/bookstore/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNewIsSortable(t *testing.T) {
	t.Parallel()

	a := idx.NewAt(time.Unix(1000, 0).UTC())
	b := idx.NewAt(time.Unix(2000, 0).UTC())
	require.Less(t, a.String(), b.String())
}

func TestParse(t *testing.T) {
	t.Parallel()

	id := idx.New()
	parsed, err := idx.Parse(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)

	_, err = idx.Parse("")
	require.ErrorIs(t, err, idx.ErrInvalid)

	_, err = idx.Parse("not-a-ulid")
	require.ErrorIs(t, err, idx.ErrInvalid)
}

func TestTimeRoundTrip(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	id := idx.NewAt(at)
	require.WithinDuration(t, at, id.Time(), time.Millisecond)
	require.True(t, idx.Zero.Time().IsZero())
}
