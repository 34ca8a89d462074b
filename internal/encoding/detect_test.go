package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/invoicer/internal/encoding"
)

func readAll(t *testing.T, input []byte) (string, encoding.Charset) {
	t.Helper()

	r, charset, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got), charset
}

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	input := "DATE,DESCRIPTION,HOURS,RATE,AMOUNT\n2024-01-15,Café réunion,2,80,160\n"

	got, charset := readAll(t, []byte(input))
	assert.Equal(t, input, got)
	assert.Equal(t, encoding.CharsetUTF8, charset)
}

func TestNewUTF8Reader_Windows1252(t *testing.T) {
	latin1, err := charmap.Windows1252.NewEncoder().Bytes([]byte("Descrição;Réunion\n"))
	require.NoError(t, err)

	got, charset := readAll(t, latin1)
	assert.Equal(t, "Descrição;Réunion\n", got)
	assert.Contains(t, []encoding.Charset{encoding.CharsetWindows1252, encoding.CharsetISO88599}, charset)
}

func TestNewUTF8Reader_UTF8BOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("DATE,DESCRIPTION\n")...)

	got, charset := readAll(t, input)
	assert.Equal(t, "DATE,DESCRIPTION\n", got)
	assert.Equal(t, encoding.CharsetUTF8BOM, charset)
}

func TestNewUTF8Reader_UTF16LE(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	input, err := enc.Bytes([]byte("DATE,HOURS\n"))
	require.NoError(t, err)

	got, charset := readAll(t, input)
	assert.Equal(t, "DATE,HOURS\n", got)
	assert.Equal(t, encoding.CharsetUTF16LE, charset)
}

func TestNewUTF8Reader_Empty(t *testing.T) {
	got, charset := readAll(t, nil)
	assert.Empty(t, got)
	assert.Equal(t, encoding.CharsetUTF8, charset)
}
