package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Charset names the source encoding detected for an upload.
type Charset string

const (
	CharsetUTF8        Charset = "UTF-8"
	CharsetUTF8BOM     Charset = "UTF-8 (BOM)"
	CharsetUTF16LE     Charset = "UTF-16LE"
	CharsetUTF16BE     Charset = "UTF-16BE"
	CharsetWindows1252 Charset = "windows-1252"
	CharsetISO88599    Charset = "ISO-8859-9"
)

const sniffLen = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// NewUTF8Reader wraps r so that it yields UTF-8 and reports the charset it decided on.
// Timesheets exported from spreadsheet tools on Windows frequently arrive as
// Windows-1252 or UTF-16, so the decision is made in this order:
//  1. BOM (UTF-8 BOM stripped, UTF-16 decoded)
//  2. valid UTF-8 passes through
//  3. chardet heuristics
//  4. Windows-1252
func NewUTF8Reader(r io.Reader) (io.Reader, Charset, error) {
	br := bufio.NewReaderSize(r, sniffLen)

	buf, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peek: %w", err)
	}

	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return br, CharsetUTF8BOM, nil
	case bytes.HasPrefix(buf, bomUTF16LE):
		return decode(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)), CharsetUTF16LE, nil
	case bytes.HasPrefix(buf, bomUTF16BE):
		return decode(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM)), CharsetUTF16BE, nil
	case utf8.Valid(buf):
		return br, CharsetUTF8, nil
	}

	switch sniff(buf) {
	case CharsetUTF8:
		return br, CharsetUTF8, nil
	case CharsetISO88599:
		return decode(br, charmap.ISO8859_9), CharsetISO88599, nil
	}

	return decode(br, charmap.Windows1252), CharsetWindows1252, nil
}

// sniff asks chardet for its best guess. Latin-1 is folded into Windows-1252,
// which is a superset for every printable byte.
func sniff(buf []byte) Charset {
	result, err := chardet.NewTextDetector().DetectBest(buf)
	if err != nil {
		return CharsetWindows1252
	}

	switch result.Charset {
	case "UTF-8":
		return CharsetUTF8
	case "ISO-8859-9":
		return CharsetISO88599
	}

	return CharsetWindows1252
}

func decode(r io.Reader, enc encoding.Encoding) io.Reader {
	return transform.NewReader(r, enc.NewDecoder())
}
