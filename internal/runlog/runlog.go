// Package runlog keeps an append-only CSV record of normalization runs.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgernorm/internal/model"
)

// Entry is one row in the run log.
type Entry struct {
	Timestamp     time.Time
	RunID         string
	Source        string
	DocumentType  model.DocumentType
	Accounts      int
	Balanced      bool
	LowConfidence bool
	Discrepancy   decimal.Decimal
}

// Header is the CSV header for the run log.
const Header = "timestamp,run_id,source,document_type,accounts,balanced,low_confidence,discrepancy"

const (
	numFields        = 8
	colTimestamp     = 0
	colRunID         = 1
	colSource        = 2
	colDocumentType  = 3
	colAccounts      = 4
	colBalanced      = 5
	colLowConfidence = 6
	colDiscrepancy   = 7
)

// FromResult builds the log entry for one finished run.
func FromResult(ts time.Time, runID, source string, res *model.Result) Entry {
	return Entry{
		Timestamp:     ts,
		RunID:         runID,
		Source:        source,
		DocumentType:  res.Summary.DocumentType,
		Accounts:      len(res.Accounts),
		Balanced:      res.Summary.IsBalanced,
		LowConfidence: res.Summary.LowConfidence,
		Discrepancy:   res.Summary.DiscrepancyAmount,
	}
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colSource] = e.Source
	row[colDocumentType] = string(e.DocumentType)
	row[colAccounts] = strconv.Itoa(e.Accounts)
	row[colBalanced] = strconv.FormatBool(e.Balanced)
	row[colLowConfidence] = strconv.FormatBool(e.LowConfidence)
	row[colDiscrepancy] = e.Discrepancy.StringFixed(2)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	accounts, err := strconv.Atoi(record[colAccounts])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing accounts %q: %w", record[colAccounts], err)
	}
	balanced, err := strconv.ParseBool(record[colBalanced])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing balanced %q: %w", record[colBalanced], err)
	}
	lowConf, err := strconv.ParseBool(record[colLowConfidence])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing low_confidence %q: %w", record[colLowConfidence], err)
	}
	disc, err := decimal.NewFromString(record[colDiscrepancy])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing discrepancy %q: %w", record[colDiscrepancy], err)
	}

	return Entry{
		Timestamp:     ts,
		RunID:         record[colRunID],
		Source:        record[colSource],
		DocumentType:  model.DocumentType(record[colDocumentType]),
		Accounts:      accounts,
		Balanced:      balanced,
		LowConfidence: lowConf,
		Discrepancy:   disc,
	}, nil
}

// Append writes entries to path, creating the file, its directory and the header
// if needed.
func Append(path string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating run log dir: %w", err)
	}

	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return cw.Error()
}

// Read returns all entries in path. A missing file yields no entries.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
