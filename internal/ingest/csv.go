package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/ledgernorm/internal/model"
)

// fieldJoiner is the delimiter rows are rebuilt with; the tokenizer splits on it.
const fieldJoiner = " | "

// CSVSource reads delimited exports. The delimiter is ';' or ',', whichever is more
// frequent on the first line.
type CSVSource struct{}

// Format returns the source name.
func (s *CSVSource) Format() string { return "csv" }

// Extensions returns the handled file extensions.
func (s *CSVSource) Extensions() []string { return []string{".csv"} }

// Read returns one line per record, fields joined with " | ".
func (s *CSVSource) Read(r io.Reader) (*model.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = sniffComma(data)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}

	var lines []string
	for _, rec := range records {
		if line := joinCells(rec); line != "" {
			lines = append(lines, line)
		}
	}
	return &model.Document{Lines: lines}, nil
}

func sniffComma(data []byte) rune {
	first, _ := bufio.NewReader(bytes.NewReader(data)).ReadString('\n')
	if strings.Count(first, ";") >= strings.Count(first, ",") && strings.Contains(first, ";") {
		return ';'
	}
	return ','
}

// joinCells drops empty cells and joins the rest. Spreadsheet rows often pad
// with blanks.
func joinCells(cells []string) string {
	var parts []string
	for _, c := range cells {
		if c = strings.TrimSpace(c); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, fieldJoiner)
}
