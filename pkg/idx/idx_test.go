package idx_test

import (
	"sort"
	"testing"
	"time"

	"github.com/aussiebroadwan/bookshelf/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNewAndParse(t *testing.T) {
	t.Parallel()
	id := idx.New()
	require.False(t, id.IsZero())

	parsed, err := idx.Parse(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		in    string
		valid bool
	}{
		{"canonical", "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV", true},
		{"lower case", "01hq7t3z1mz0jq3m6mzq1fq3zv", true},
		{"padded", "  01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV ", true},
		{"empty", "", false},
		{"too short", "01HQ7T3Z", false},
		{"bad alphabet", "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZU", false},
		{"uuid", "9b2f0e1c-6a3c-4c1e-9f0b-3a3b2c1d0e9f", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.valid, idx.Valid(tt.in))
		})
	}
}

// Not parallel: ids generated for other timestamps in between would reseed
// the monotonic entropy.
func TestMonotonicOrdering(t *testing.T) {
	at := time.Unix(1_700_000_000, 0).UTC()
	ids := make([]string, 100)
	for i := range ids {
		ids[i] = idx.NewAt(at).String()
	}
	require.True(t, sort.StringsAreSorted(ids), "ids from the same millisecond must sort in creation order")
}

func TestTimeExtraction(t *testing.T) {
	t.Parallel()

	tm := time.Unix(1_700_000_000, 0).UTC()
	require.WithinDuration(t, tm, idx.NewAt(tm).Time(), time.Millisecond)
	require.True(t, idx.ID("not-an-id").Time().IsZero())
}
