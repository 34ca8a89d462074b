// Package csvfile reads comma-separated timesheet exports.
package csvfile

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	enc "github.com/MrJamesThe3rd/invoicer/internal/encoding"
	"github.com/MrJamesThe3rd/invoicer/internal/importer/row"
)

type Parser struct{}

func New() *Parser {
	return &Parser{}
}

// Parse decodes r to UTF-8, checks the header and returns the usable rows.
// Every line is split on its own, so a malformed line can only lose itself.
func (p *Parser) Parse(r io.Reader) ([]row.Row, error) {
	utf8r, charset, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	if charset != enc.CharsetUTF8 {
		slog.Debug("decoding csv upload", "charset", charset)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	lines := strings.Split(string(data), "\n")
	records := make([][]string, 0, len(lines))

	for _, line := range lines {
		records = append(records, SplitLine(strings.TrimSuffix(line, "\r")))
	}

	headerIdx := row.HeaderIndex(records)
	if headerIdx < 0 {
		return nil, &row.MissingHeaderError{Missing: row.RequiredColumns}
	}

	cols, err := row.MapHeader(records[headerIdx])
	if err != nil {
		return nil, err
	}

	return cols.Collect(records[headerIdx+1:]), nil
}

// SplitLine splits one line on commas outside double quotes. Inside quotes a
// doubled quote is a literal quote. Fields are trimmed after extraction, and an
// unterminated quote runs to the end of the line.
func SplitLine(line string) []string {
	var (
		fields   []string
		field    strings.Builder
		inQuotes bool
	)

	for i := 0; i < len(line); i++ {
		c := line[i]

		switch {
		case c == '"' && inQuotes && i+1 < len(line) && line[i+1] == '"':
			field.WriteByte('"')
			i++
		case c == '"':
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(field.String()))
			field.Reset()
		default:
			field.WriteByte(c)
		}
	}

	return append(fields, strings.TrimSpace(field.String()))
}
