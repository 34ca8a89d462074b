package xlsxfile_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/invoicer/internal/importer/row"
	"github.com/MrJamesThe3rd/invoicer/internal/importer/xlsxfile"
)

func workbook(t *testing.T, rows ...[]any) *bytes.Reader {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	return bytes.NewReader(buf.Bytes())
}

func TestParser_Workbook(t *testing.T) {
	r := workbook(t,
		[]any{"DATE", "DESCRIPTION", "HOURS", "RATE", "AMOUNT"},
		[]any{"2024-01-15", "Migration", "6", "95.5", "0"},
		[]any{"2024-01-16", "Zero hours", "0", "95.5", "0"},
	)

	rows, err := xlsxfile.New().Parse(r)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "Migration", rows[0].Description)
	assert.True(t, decimal.RequireFromString("95.5").Equal(rows[0].Rate))
}

func TestParser_MissingHeaders(t *testing.T) {
	r := workbook(t,
		[]any{"DATE", "DESCRIPTION", "AMOUNT"},
		[]any{"2024-01-15", "Migration", "0"},
	)

	_, err := xlsxfile.New().Parse(r)

	var mhe *row.MissingHeaderError
	require.True(t, errors.As(err, &mhe))
	assert.Equal(t, []string{"HOURS", "RATE"}, mhe.Missing)
}

func TestParser_NotAWorkbook(t *testing.T) {
	_, err := xlsxfile.New().Parse(strings.NewReader("DATE,DESCRIPTION"))
	assert.Error(t, err)
}
