package ingest

import (
	"encoding/json"
	"fmt"
	"io"

	jsonrepair "github.com/RealAlexandreAI/json-repair"

	"github.com/cleared-dev/ledgernorm/internal/model"
)

// extraction is the response shape of the extraction service.
type extraction struct {
	DocumentType string                 `json:"document_type"`
	Lines        []string               `json:"lines"`
	SpellCheck   []model.SpellCheckItem `json:"spell_check"`
}

// JSONSource reads the extraction service's JSON response. Model output is often
// slightly malformed (markdown fences, trailing commas, single quotes), so it is
// repaired before decoding.
type JSONSource struct{}

// Format returns the source name.
func (s *JSONSource) Format() string { return "json" }

// Extensions returns the handled file extensions.
func (s *JSONSource) Extensions() []string { return []string{".json"} }

// Read decodes the response. The document type is left empty when the response
// carries none.
func (s *JSONSource) Read(r io.Reader) (*model.Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading json: %w", err)
	}

	var ext extraction
	if err := json.Unmarshal(raw, &ext); err != nil {
		repaired, rerr := jsonrepair.RepairJSON(string(raw))
		if rerr != nil {
			return nil, fmt.Errorf("repairing json: %w", rerr)
		}
		if err := json.Unmarshal([]byte(repaired), &ext); err != nil {
			return nil, fmt.Errorf("decoding extraction: %w", err)
		}
	}

	doc := &model.Document{
		Lines:      ext.Lines,
		SpellCheck: ext.SpellCheck,
	}
	if ext.DocumentType != "" {
		doc.Type = ResolveDocumentType(ext.DocumentType)
	}
	return doc, nil
}
