// Package report serializes normalization results as a JSON envelope or an
// accounts CSV.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cleared-dev/ledgernorm/internal/model"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Envelope wraps a Result with run metadata.
type Envelope struct {
	RunID       string        `json:"run_id"`
	Source      string        `json:"source"`
	GeneratedAt time.Time     `json:"generated_at"`
	Result      *model.Result `json:"result"`
}

// NewEnvelope stamps res with a fresh run ID.
func NewEnvelope(source string, res *model.Result, now time.Time) Envelope {
	return Envelope{
		RunID:       uuid.NewString(),
		Source:      source,
		GeneratedAt: now.UTC(),
		Result:      res,
	}
}

// WriteJSON writes env as indented JSON.
func WriteJSON(w io.Writer, env Envelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(env); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

// ReadJSON decodes an envelope written by WriteJSON.
func ReadJSON(r io.Reader) (Envelope, error) {
	var env Envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return Envelope{}, fmt.Errorf("decoding report: %w", err)
	}
	if _, err := uuid.Parse(env.RunID); err != nil {
		return Envelope{}, fmt.Errorf("invalid run_id %q: %w", env.RunID, err)
	}
	return env, nil
}

// Write renders env in format to w.
func Write(w io.Writer, env Envelope, format string) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		return WriteJSON(w, env)
	case FormatCSV:
		return WriteAccounts(w, env.Result.Accounts)
	}
	return fmt.Errorf("unknown output format %q", format)
}

// Path returns the report path for source in dir: dir/<source base name>.<format>.
// The source extension is kept so balancete.txt and balancete.csv get distinct reports.
func Path(dir, source, runID, format string) string {
	base := filepath.Base(source)
	if source == "" || base == "." || base == string(filepath.Separator) {
		base = runID
	}
	return filepath.Join(dir, base+"."+strings.ToLower(format))
}

// WriteFile writes env to Path(dir, ...) and returns the path.
func WriteFile(dir string, env Envelope, format string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}
	path := Path(dir, env.Source, env.RunID, format)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating report: %w", err)
	}
	if err := Write(f, env, format); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing report: %w", err)
	}
	return path, nil
}
