package ingest

import (
	"strings"

	"github.com/schollz/closestmatch"

	"github.com/cleared-dev/ledgernorm/internal/classify"
	"github.com/cleared-dev/ledgernorm/internal/model"
)

var (
	aliasTypes   = make(map[string]model.DocumentType)
	aliasMatcher *closestmatch.ClosestMatch
)

func init() {
	var aliases []string
	for dt, list := range model.DocumentTypeAliases {
		for _, a := range list {
			aliasTypes[a] = dt
			aliases = append(aliases, a)
		}
	}
	aliasMatcher = closestmatch.New(aliases, []int{2, 3})
}

// ResolveDocumentType maps a free-form hint such as "Balancete" or "balanco
// patrimonal" to a document type: exact alias first, then the closest alias when it
// shares a four-letter run with the hint. Anything else is DocOther.
func ResolveDocumentType(hint string) model.DocumentType {
	if dt, ok := model.ParseDocumentType(hint); ok {
		return dt
	}
	folded := classify.Fold(hint)
	if dt, ok := model.ParseDocumentType(folded); ok {
		return dt
	}
	if len(folded) < 4 {
		return model.DocOther
	}
	best := aliasMatcher.Closest(folded)
	if best == "" || !shareRun(folded, best, 4) {
		return model.DocOther
	}
	return aliasTypes[best]
}

func shareRun(a, b string, n int) bool {
	for i := 0; i+n <= len(a); i++ {
		if strings.Contains(b, a[i:i+n]) {
			return true
		}
	}
	return false
}

// titleScanLines is how many leading lines DetectDocumentType looks at.
const titleScanLines = 15

// titleRules map report titles to types, most specific first.
var titleRules = []struct {
	phrase string
	typ    model.DocumentType
}{
	{"demonstracao do resultado", model.DocIncomeStatement},
	{"demonstracao de resultado", model.DocIncomeStatement},
	{"dre", model.DocIncomeStatement},
	{"income statement", model.DocIncomeStatement},
	{"profit and loss", model.DocIncomeStatement},
	{"balancete", model.DocTrialBalance},
	{"trial balance", model.DocTrialBalance},
	{"balanco patrimonial", model.DocBalanceSheet},
	{"balance sheet", model.DocBalanceSheet},
}

// DetectDocumentType guesses the document type from report titles near the top.
func DetectDocumentType(lines []string) model.DocumentType {
	for i, line := range lines {
		if i >= titleScanLines {
			break
		}
		text := " " + classify.Fold(line) + " "
		for _, r := range titleRules {
			if strings.Contains(text, " "+r.phrase+" ") {
				return r.typ
			}
		}
	}
	return model.DocOther
}
