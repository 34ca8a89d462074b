package row_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/invoicer/internal/importer/row"
)

func TestMapHeader(t *testing.T) {
	type testCase struct {
		name        string
		header      []string
		wantMissing []string
	}

	tests := []testCase{
		{
			name:   "Exact",
			header: []string{"DATE", "DESCRIPTION", "HOURS", "RATE", "AMOUNT"},
		},
		{
			name:   "Reordered And Padded",
			header: []string{" amount ", "Rate", "hours", "Description", "date"},
		},
		{
			name:        "Missing Hours",
			header:      []string{"DATE", "DESCRIPTION", "RATE", "AMOUNT"},
			wantMissing: []string{"HOURS"},
		},
		{
			name:        "Empty",
			header:      nil,
			wantMissing: []string{"DATE", "DESCRIPTION", "HOURS", "RATE", "AMOUNT"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols, err := row.MapHeader(tt.header)

			if tt.wantMissing != nil {
				var mhe *row.MissingHeaderError
				require.True(t, errors.As(err, &mhe))
				assert.Equal(t, tt.wantMissing, mhe.Missing)

				for _, name := range tt.wantMissing {
					assert.Contains(t, err.Error(), name)
				}

				return
			}

			require.NoError(t, err)
			assert.Len(t, cols, 5)
		})
	}
}

func TestColumns_Build(t *testing.T) {
	cols, err := row.MapHeader([]string{"DESCRIPTION", "DATE", "HOURS", "RATE", "AMOUNT"})
	require.NoError(t, err)

	r := cols.Build([]string{" Design review ", "2024-01-15", "1.5", "abc"})

	assert.Equal(t, "Design review", r.Description)
	assert.Equal(t, "2024-01-15", r.Date)
	assert.True(t, decimal.RequireFromString("1.5").Equal(r.Hours))
	assert.True(t, r.Rate.IsZero(), "unparseable rate coerces to zero")
	assert.True(t, r.Amount.IsZero(), "missing amount coerces to zero")
}

func TestColumns_Collect_DropsUnusableRows(t *testing.T) {
	cols, err := row.MapHeader(row.RequiredColumns)
	require.NoError(t, err)

	rows := cols.Collect([][]string{
		{"2024-01-15", "Kept", "2", "50", "100"},
		{"2024-01-15", "Zero hours", "0", "50", "0"},
		{"2024-01-15", "Zero rate", "2", "0", "0"},
		{"2024-01-15", "", "2", "50", "100"},
		{"", "", "", "", ""},
		{"2024-01-16", "Negative", "-1", "50", "-50"},
	})

	require.Len(t, rows, 1)
	assert.Equal(t, "Kept", rows[0].Description)
}

func TestHeaderIndex(t *testing.T) {
	assert.Equal(t, 2, row.HeaderIndex([][]string{{""}, {" ", ""}, {"DATE"}}))
	assert.Equal(t, -1, row.HeaderIndex([][]string{{""}}))
	assert.Equal(t, -1, row.HeaderIndex(nil))
}
