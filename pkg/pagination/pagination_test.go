package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	p, err := Parse("", "")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Equal(t, 0, p.Offset())
}

func TestParseExplicit(t *testing.T) {
	p, err := Parse("3", "50")
	require.NoError(t, err)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 50, p.Limit)
	assert.Equal(t, 100, p.Offset())
}

func TestParseRejectsOutOfRange(t *testing.T) {
	cases := []struct {
		name  string
		page  string
		limit string
	}{
		{"zero page", "0", "20"},
		{"negative page", "-1", "20"},
		{"zero limit", "1", "0"},
		{"limit over max", "1", "101"},
		{"non-numeric page", "abc", "20"},
		{"non-numeric limit", "1", "x"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.page, tc.limit)
			assert.ErrorIs(t, err, ErrInvalidPagination)
		})
	}
}

func TestParseAcceptsBounds(t *testing.T) {
	p, err := Parse("1", "1")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Limit)

	p, err = Parse("1", "100")
	require.NoError(t, err)
	assert.Equal(t, MaxLimit, p.Limit)
}

func TestMetaHasMore(t *testing.T) {
	// 45 rows, 20 per page: pages 1 and 2 have more, page 3 does not.
	assert.True(t, Params{Page: 1, Limit: 20}.NewMeta(45).HasMore)
	assert.True(t, Params{Page: 2, Limit: 20}.NewMeta(45).HasMore)
	assert.False(t, Params{Page: 3, Limit: 20}.NewMeta(45).HasMore)
}

func TestMetaExactLastPage(t *testing.T) {
	// Total divisible by limit: the last full page reports no more.
	meta := Params{Page: 2, Limit: 20}.NewMeta(40)
	assert.False(t, meta.HasMore)
	assert.Equal(t, 40, meta.Total)
}

func TestMetaEmptyResult(t *testing.T) {
	meta := Params{Page: 1, Limit: 20}.NewMeta(0)
	assert.False(t, meta.HasMore)
	assert.Equal(t, 0, meta.Total)
}

func TestWindowsTileWithoutOverlap(t *testing.T) {
	// Consecutive pages cover [0, total) exactly once.
	const total = 73
	const limit = 10
	covered := make(map[int]bool)
	for page := 1; ; page++ {
		p := Params{Page: page, Limit: limit}
		start := p.Offset()
		if start >= total {
			break
		}
		end := start + limit
		if end > total {
			end = total
		}
		for i := start; i < end; i++ {
			assert.False(t, covered[i], "row %d covered twice", i)
			covered[i] = true
		}
		if !p.NewMeta(total).HasMore {
			break
		}
	}
	assert.Len(t, covered, total)
}
