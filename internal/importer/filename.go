package importer

import (
	"path/filepath"
	"regexp"
	"time"
)

const (
	MsgFilenameFormat = "Filename must be in YYYY-MM-DD.csv format"
	MsgFilenameDate   = "Invalid date in filename"
)

var filenamePattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\.[A-Za-z0-9]+$`)

// DatesFromFilename derives the issue date from a YYYY-MM-DD.<ext> file name and
// puts the due date dueDays after it. On failure both dates are nil and problem
// holds the user-facing message.
func DatesFromFilename(name string, dueDays int) (issue, due *time.Time, problem string) {
	m := filenamePattern.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return nil, nil, MsgFilenameFormat
	}

	d, err := time.Parse(time.DateOnly, m[1])
	if err != nil {
		return nil, nil, MsgFilenameDate
	}

	return new(d), new(d.AddDate(0, 0, dueDays)), ""
}
