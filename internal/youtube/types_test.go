package youtube

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	yterrors "github.com/Aman-CERP/ytsearch/internal/errors"
)

func TestParseSortOrder(t *testing.T) {
	tests := []struct {
		in      string
		want    SortOrder
		wantErr bool
	}{
		{"", SortRelevance, false},
		{"relevance", SortRelevance, false},
		{"date", SortDate, false},
		{" Rating ", SortRating, false},
		{"viewCount", "", true},
		{"newest", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSortOrder(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, yterrors.ErrCodeInvalidSort, yterrors.GetCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSortOrder_NextCycles(t *testing.T) {
	assert.Equal(t, SortDate, SortRelevance.Next())
	assert.Equal(t, SortRating, SortDate.Next())
	assert.Equal(t, SortRelevance, SortRating.Next())
	assert.Equal(t, SortRelevance, SortOrder("bogus").Next())
}

func TestValidateVideoID(t *testing.T) {
	assert.NoError(t, ValidateVideoID("dQw4w9WgXcQ"))
	assert.NoError(t, ValidateVideoID("a-b_c"))

	for _, bad := range []string{"", "  ", "a/b", "a?b=c", "id with space"} {
		err := ValidateVideoID(bad)
		require.Error(t, err, bad)
		assert.Equal(t, yterrors.ErrCodeInvalidVideoID, yterrors.GetCode(err))
	}
}
