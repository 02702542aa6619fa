// Package tokenize splits one raw extracted text row into code, name, amounts and a
// nature indicator. Two strategies are tried in order: an explicit field delimiter
// split, then a right-to-left scan for trailing amounts.
package tokenize

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgernorm/internal/acctcode"
	"github.com/cleared-dev/ledgernorm/internal/classify"
	"github.com/cleared-dev/ledgernorm/internal/model"
	"github.com/cleared-dev/ledgernorm/internal/numparse"
)

// Strategy names the path that produced a Row.
type Strategy string

const (
	StrategyDelimited   Strategy = "delimited"
	StrategyReverseScan Strategy = "reverse_scan"
)

// Row is the tokenized form of one line.
type Row struct {
	Code      string
	Name      string
	Values    []decimal.Decimal // left to right as printed
	Indicator model.Indicator
	Strategy  Strategy

	// Unparsed holds value tokens that looked like amounts but could not be read.
	// Each one contributed a zero to Values.
	Unparsed []string
}

// Options tune noise rejection and code detection.
type Options struct {
	MinLineLength int // in runes, after trimming
	MaxCodeLength int
	MaxValues     int
}

// DefaultOptions returns the settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		MinLineLength: 5,
		MaxCodeLength: 20,
		MaxValues:     4,
	}
}

// Tokenizer turns lines into Rows. It is stateless and safe for concurrent use.
type Tokenizer struct {
	opts Options
}

// New creates a Tokenizer. Zero fields in opts take their defaults.
func New(opts Options) *Tokenizer {
	def := DefaultOptions()
	if opts.MinLineLength <= 0 {
		opts.MinLineLength = def.MinLineLength
	}
	if opts.MaxCodeLength <= 0 {
		opts.MaxCodeLength = def.MaxCodeLength
	}
	if opts.MaxValues <= 0 {
		opts.MaxValues = def.MaxValues
	}
	return &Tokenizer{opts: opts}
}

// headerPatterns run against folded text (see classify.Fold).
var headerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(pagina|page|folha|fls) \d`),
	regexp.MustCompile(`^(cnpj|cpf|crc|nire|inscricao)( |$)`),
	regexp.MustCompile(`^(codigo|cod|classificacao|descricao|historico)( |$)`),
	// Column title rows made only of header words: "Conta | Saldo Anterior | Débito".
	regexp.MustCompile(`^((conta|contas|nome|saldo|saldos|anterior|atual|inicial|final|debito|debitos|credito|creditos|movimento|valor|valores|account|balance|debit|credit|d|c) ?)+$`),
	regexp.MustCompile(`^(exercicio|periodo|competencia|ano)( de)? \d{4}$`),
	regexp.MustCompile(`^(assinatura|contador|contadora|diretor|responsavel|socio administrador)( |$)`),
	regexp.MustCompile(`^(balancete|balanco patrimonial|demonstracao d|trial balance|balance sheet|income statement)`),
}

// datedPrefix marks report metadata ("Período: 01/01/2023 a 31/12/2023"). It only
// counts as noise when the raw line also has a colon or a date, so account names
// like "Data Center Equipamentos" survive.
var (
	datedPrefix = regexp.MustCompile(`^(emitido|emissao|impresso|gerado|data|periodo|exercicio|competencia|printed|period)( |$)`)
	dateOrColon = regexp.MustCompile(`:|\d{1,2}/\d{1,2}/\d{2,4}|\d{1,2}/\d{4}`)
)

const borderRunes = "-=_|+*.:#~─━│┃┼ \t"

// Tokenize parses line. The second result is false when the line is a header,
// separator or noise, or carries no amounts.
func (t *Tokenizer) Tokenize(line string) (Row, bool) {
	line = strings.TrimSpace(line)
	if t.isNoise(line) {
		return Row{}, false
	}

	row, ok := t.delimited(line)
	if !ok {
		row, ok = t.reverseScan(line)
	}
	if !ok {
		return Row{}, false
	}

	row.Name = cleanName(row.Name)
	if utf8.RuneCountInString(row.Name) < 2 || numparse.LooksNumeric(row.Name) {
		return Row{}, false
	}
	return row, true
}

func (t *Tokenizer) isNoise(line string) bool {
	if utf8.RuneCountInString(line) < t.opts.MinLineLength {
		return true
	}
	if strings.Trim(line, borderRunes) == "" {
		return true
	}
	folded := classify.Fold(line)
	for _, re := range headerPatterns {
		if re.MatchString(folded) {
			return true
		}
	}
	return datedPrefix.MatchString(folded) && dateOrColon.MatchString(line)
}

// delimited handles rows with an explicit field separator.
func (t *Tokenizer) delimited(line string) (Row, bool) {
	delim := pickDelimiter(line)
	if delim == "" {
		return Row{}, false
	}
	fields := splitFields(line, delim)
	if len(fields) < 2 {
		return Row{}, false
	}

	row := Row{Strategy: StrategyDelimited}
	rest := fields[1:]
	if acctcode.LooksLikeCode(fields[0], t.opts.MaxCodeLength) {
		if numparse.LooksNumeric(rest[0]) {
			// No name column; let the reverse scan decide.
			return Row{}, false
		}
		row.Code = acctcode.Normalize(fields[0])
		row.Name = rest[0]
		rest = rest[1:]
	} else {
		row.Code, row.Name = t.splitLeadingCode(fields[0])
	}

	for _, f := range rest {
		v, ind := splitIndicator(f)
		// A trailing C in text ("Filial C") is part of the name, not a marker.
		if ind != model.IndicatorNone && v != "" && !numparse.LooksNumeric(v) {
			v, ind = f, model.IndicatorNone
		}
		if ind != model.IndicatorNone {
			row.Indicator = ind
		}
		switch {
		case v == "" || isPercent(v):
		case numparse.LooksNumeric(v):
			row.addValue(v)
		case len(row.Values) == 0:
			// Text before any amount is a continuation of the name.
			row.Name += " " + f
		}
	}
	if len(row.Values) == 0 {
		return Row{}, false
	}
	return row, true
}

// scanState is the reverse scan's position in the line.
type scanState int

const (
	scanValues scanState = iota // collecting trailing amounts
	scanLabel                   // everything left of the amounts
)

// reverseScan walks whitespace tokens from the right, collecting amounts until
// the first token that is neither an amount, a D/C marker nor a currency symbol.
func (t *Tokenizer) reverseScan(line string) (Row, bool) {
	tokens := strings.Fields(strings.NewReplacer("|", " ", "\t", " ", ";", " ").Replace(line))
	if len(tokens) < 2 {
		return Row{}, false
	}

	row := Row{Strategy: StrategyReverseScan}
	var collected []string
	i := len(tokens) - 1
	state := scanValues
	// tokens[0] always stays on the label side.
	for state == scanValues && i > 0 {
		tok := tokens[i]
		v, ind := splitIndicator(tok)
		switch {
		case v == "" && len(collected) > 0 && !valueAt(tokens, i-1):
			// "Classe C 1.000,00": a letter left of the amounts ends the name.
			state = scanLabel
		case v == "":
			if row.Indicator == model.IndicatorNone {
				row.Indicator = ind
			}
			i--
		case numparse.IsCurrencySymbol(tok) || isPercent(tok):
			i--
		case numparse.LooksNumeric(v) && len(collected) < t.opts.MaxValues:
			if ind != model.IndicatorNone && row.Indicator == model.IndicatorNone {
				row.Indicator = ind
			}
			collected = append(collected, v)
			i--
		default:
			state = scanLabel
		}
	}
	if len(collected) == 0 {
		return Row{}, false
	}
	for j := len(collected) - 1; j >= 0; j-- {
		row.addValue(collected[j])
	}

	label := tokens[:i+1]
	if len(label) > 1 && acctcode.LooksLikeCode(label[0], t.opts.MaxCodeLength) {
		row.Code = acctcode.Normalize(label[0])
		label = label[1:]
	}
	row.Name = strings.Join(label, " ")
	return row, true
}

// valueAt reports whether tokens[i] is an amount that the reverse scan may take.
func valueAt(tokens []string, i int) bool {
	if i < 1 {
		return false
	}
	v, _ := splitIndicator(tokens[i])
	return v != "" && numparse.LooksNumeric(v)
}

func (r *Row) addValue(tok string) {
	d, ok := numparse.ParseStrict(tok)
	if !ok {
		r.Unparsed = append(r.Unparsed, tok)
	}
	r.Values = append(r.Values, d)
}

// splitLeadingCode separates "1.01 Caixa" into code and name.
func (t *Tokenizer) splitLeadingCode(field string) (string, string) {
	first, rest, found := strings.Cut(field, " ")
	if found && acctcode.LooksLikeCode(first, t.opts.MaxCodeLength) && strings.TrimSpace(rest) != "" {
		return acctcode.Normalize(first), strings.TrimSpace(rest)
	}
	return "", field
}

func pickDelimiter(line string) string {
	for _, d := range []string{"|", "\t", ";"} {
		if strings.Contains(line, d) {
			return d
		}
	}
	return ""
}

func splitFields(line, delim string) []string {
	var out []string
	for _, f := range strings.Split(line, delim) {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// splitIndicator detaches a D/C marker. "D" -> ("", D); "1.000,00 C" and
// "1.000,00C" -> ("1.000,00", C).
func splitIndicator(tok string) (string, model.Indicator) {
	tok = strings.TrimSpace(tok)
	switch tok {
	case "D", "d":
		return "", model.IndicatorDebit
	case "C", "c":
		return "", model.IndicatorCredit
	}
	if len(tok) < 2 {
		return tok, model.IndicatorNone
	}
	last := tok[len(tok)-1]
	prev := tok[len(tok)-2]
	if (last == 'D' || last == 'C') && (prev == ' ' || prev == ')' || (prev >= '0' && prev <= '9')) {
		ind := model.IndicatorDebit
		if last == 'C' {
			ind = model.IndicatorCredit
		}
		return strings.TrimSpace(tok[:len(tok)-1]), ind
	}
	return tok, model.IndicatorNone
}

func isPercent(tok string) bool {
	return strings.HasSuffix(strings.TrimSpace(tok), "%")
}

var fillerRun = regexp.MustCompile(`[.|_·…]{2,}|-{3,}`)

// cleanName removes visual fillers ("Caixa.........") and the (+)/(-) markers some
// income statements print before a line.
func cleanName(s string) string {
	s = fillerRun.ReplaceAllString(s, " ")
	s = strings.Join(strings.Fields(s), " ")
	for _, marker := range []string{"(+)", "(-)"} {
		s = strings.TrimSpace(strings.TrimPrefix(s, marker))
	}
	return strings.Trim(s, " :-–|")
}
