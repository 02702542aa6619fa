package ingest

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/cleared-dev/ledgernorm/internal/model"
)

// maxLineBytes bounds a single text row.
const maxLineBytes = 1 << 20

// TextSource reads one row per line. Input that is not valid UTF-8 is decoded as
// ISO-8859-1, the usual encoding of Brazilian accounting exports.
type TextSource struct {
	// Latin1 forces ISO-8859-1 decoding.
	Latin1 bool
}

// Format returns the source name.
func (s *TextSource) Format() string { return "text" }

// Extensions returns the handled file extensions.
func (s *TextSource) Extensions() []string { return []string{".txt", ".text"} }

// Read returns the lines of r, with trailing carriage returns removed.
func (s *TextSource) Read(r io.Reader) (*model.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading text: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	var rd io.Reader = bytes.NewReader(data)
	if s.Latin1 || !utf8.Valid(data) {
		rd = transform.NewReader(rd, charmap.ISO8859_1.NewDecoder())
	}

	var lines []string
	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scanning text: %w", err)
	}
	return &model.Document{Lines: lines}, nil
}
