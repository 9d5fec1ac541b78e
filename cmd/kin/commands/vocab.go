package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/kin/display"
	"github.com/teranos/kin/relation"
	"github.com/teranos/kin/sym"
	"github.com/teranos/kin/vocab"
)

// vocabEntry is one row of kin vocab
type vocabEntry struct {
	Kind      vocab.Kind    `json:"kind" yaml:"kind"`
	Relation  string        `json:"relation" yaml:"relation"`
	Type      relation.Type `json:"type" yaml:"type"`
	Greatable bool          `json:"greatable" yaml:"greatable"`
	Halfable  bool          `json:"halfable" yaml:"halfable"`
	Synonyms  []string      `json:"synonyms" yaml:"synonyms"`
}

func vocabEntries() []vocabEntry {
	kinds := vocab.Kinds()
	entries := make([]vocabEntry, 0, len(kinds))
	for _, k := range kinds {
		r := k.Relation()
		entries = append(entries, vocabEntry{
			Kind:      k,
			Relation:  r.String(),
			Type:      r.Type(),
			Greatable: vocab.Greatable(k),
			Halfable:  vocab.Halfable(k),
			Synonyms:  vocab.Synonyms(k),
		})
	}
	return entries
}

func newVocabCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vocab",
		Short: "List every relation kind and the words that name it",
		Long: `List every relation kind with its canonical relation, its type, whether it
takes "great-" and "half-" modifiers, and every word that names it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := vocabEntries()
			return display.Output(cmd, entries, func(w io.Writer) error {
				return writeVocabTable(w, entries)
			})
		},
	}
}

func writeVocabTable(w io.Writer, entries []vocabEntry) error {
	data := pterm.TableData{{"Kind", "Relation", "Type", "Great", "Half", "Synonyms"}}
	for _, e := range entries {
		data = append(data, []string{
			e.Kind.String(),
			e.Relation,
			sym.Label(e.Type),
			yesNo(e.Greatable),
			yesNo(e.Halfable),
			strings.Join(e.Synonyms, ", "),
		})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, table)
	return err
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}
