package importer_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/invoicer/internal/importer"
)

func TestDatesFromFilename(t *testing.T) {
	type args struct {
		name    string
		dueDays int
	}

	type testCase struct {
		name        string
		args        args
		wantIssue   string
		wantDue     string
		wantProblem string
	}

	tests := []testCase{
		{
			name:      "ValidCSV",
			args:      args{name: "2024-01-15.csv", dueDays: 30},
			wantIssue: "2024-01-15",
			wantDue:   "2024-02-14",
		},
		{
			name:      "ValidWithDirectory",
			args:      args{name: "/tmp/uploads/2024-03-01.xlsx", dueDays: 14},
			wantIssue: "2024-03-01",
			wantDue:   "2024-03-15",
		},
		{
			name:        "WrongPattern",
			args:        args{name: "invoice.csv", dueDays: 30},
			wantProblem: importer.MsgFilenameFormat,
		},
		{
			name:        "ExtraTextAroundDate",
			args:        args{name: "timesheet-2024-01-15.csv", dueDays: 30},
			wantProblem: importer.MsgFilenameFormat,
		},
		{
			name:        "ImpossibleDate",
			args:        args{name: "2024-13-40.csv", dueDays: 30},
			wantProblem: importer.MsgFilenameDate,
		},
		{
			name:        "NotALeapYear",
			args:        args{name: "2023-02-29.csv", dueDays: 30},
			wantProblem: importer.MsgFilenameDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issue, due, problem := importer.DatesFromFilename(tt.args.name, tt.args.dueDays)

			if tt.wantProblem != "" {
				assert.Equal(t, tt.wantProblem, problem)
				assert.Nil(t, issue)
				assert.Nil(t, due)

				return
			}

			assert.Empty(t, problem)
			require.NotNil(t, issue)
			require.NotNil(t, due)
			assert.Equal(t, tt.wantIssue, issue.Format(time.DateOnly))
			assert.Equal(t, tt.wantDue, due.Format(time.DateOnly))
		})
	}
}
