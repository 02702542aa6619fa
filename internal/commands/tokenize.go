package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgernorm/internal/ingest"
	"github.com/cleared-dev/ledgernorm/internal/model"
	"github.com/cleared-dev/ledgernorm/internal/tokenize"
)

func newTokenizeCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "tokenize <file>",
		Short: "Show how each line of a file is tokenized",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := g.load()
			if err != nil {
				return err
			}
			doc, err := ingest.DefaultRegistry().ReadFile(args[0], "")
			if err != nil {
				return err
			}
			tok := tokenize.New(cfg.NormalizeOptions().Tokenizer)
			printTokens(tok, doc)
			return nil
		},
	}
}

func printTokens(tok *tokenize.Tokenizer, doc *model.Document) {
	fmt.Printf("# %s (%s)\n", doc.Source, doc.Type)
	for i, line := range doc.Lines {
		row, ok := tok.Tokenize(line)
		if !ok {
			fmt.Printf("%4d  skip    %s\n", i+1, line)
			continue
		}
		values := make([]string, len(row.Values))
		for j, v := range row.Values {
			values[j] = v.String()
		}
		ind := "-"
		if row.Indicator != model.IndicatorNone {
			ind = string(row.Indicator)
		}
		fmt.Printf("%4d  %-12s code=%q name=%q values=[%s] ind=%s\n",
			i+1, row.Strategy, row.Code, row.Name, strings.Join(values, " "), ind)
		for _, u := range row.Unparsed {
			fmt.Printf("      unreadable amount %q\n", u)
		}
	}
}
