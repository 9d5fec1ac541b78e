package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/teranos/kin/display"
	"github.com/teranos/kin/errors"
	"github.com/teranos/kin/graph"
	"github.com/teranos/kin/parser"
	"github.com/teranos/kin/report"
	"github.com/teranos/kin/sym"
)

// parseOutput is one phrase in --json/--yaml output
type parseOutput struct {
	report.Report `yaml:",inline"`
	Graph         *graph.Graph `json:"graph,omitempty" yaml:"graph,omitempty"`
}

func newParseCmd() *cobra.Command {
	var showGraph bool

	cmd := &cobra.Command{
		Use:   "parse PHRASE...",
		Short: sym.Relation + " Resolve kinship phrases to a relation and relatedness",
		Long: sym.Relation + ` parse - Resolve kinship phrases

Each argument is one phrase. Possessives chain relations: "mom's cousin's son".
The relation is printed as its common ancestors, each written (up,down) with
the generations from each person, followed by the relatedness coefficient.

A phrase with more than one reading lists the candidates. A phrase that does
not resolve is reported with the offending span marked, and kin exits 1.`,
		Example: `  kin parse "mom's cousin's son"
  kin parse father "half-brother's daughter" --json
  kin parse --graph "great-uncle" | dot -Tpng > tree.png`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, showGraph)
		},
	}
	cmd.Flags().BoolVar(&showGraph, "graph", false, "Also print the family tree as Graphviz DOT")
	return cmd
}

func runParse(cmd *cobra.Command, phrases []string, showGraph bool) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	structured := display.FormatFor(cmd) != display.FormatText
	out := cmd.OutOrStdout()
	outputs := make([]parseOutput, 0, len(phrases))
	failed := 0

	for _, phrase := range phrases {
		g := newGraph(cfg)
		res, err := newParser(cfg, parser.WithRecorder(g)).Parse(phrase)
		rep := report.New(phrase, res, err)

		if rep.Outcome != report.OutcomeResolved && rep.Outcome != report.OutcomeAmbiguous {
			failed++
		}

		if structured {
			o := parseOutput{Report: rep}
			if showGraph && rep.Outcome == report.OutcomeResolved {
				o.Graph = g.Graph(map[string]string{"phrase": phrase})
			}
			outputs = append(outputs, o)
			continue
		}

		switch {
		case err != nil:
			printParseError(cmd.ErrOrStderr(), err)
		case res.IsAmbiguous():
			fmt.Fprintf(out, "%s %s\n%s\n", sym.Ambiguous, phrase, res.Ambiguity.FormatError(parser.ErrorContextTerminal))
		default:
			printReport(out, rep)
			if showGraph {
				fmt.Fprint(out, g.DOT())
			}
		}
	}

	if structured {
		var v interface{} = outputs
		if len(outputs) == 1 {
			v = outputs[0]
		}
		if err := display.Output(cmd, v, nil); err != nil {
			return err
		}
	}

	if failed > 0 {
		return errors.Newf("%d of %d phrases did not resolve", failed, len(phrases))
	}
	return nil
}

// printReport writes a resolved relation in human-readable form
func printReport(w io.Writer, rep report.Report) {
	fmt.Fprintf(w, "%s %s\n", sym.Relation, rep.Phrase)
	fmt.Fprintf(w, "  %s  %s\n", sym.Label(rep.Relation.Type), rep.Relation.Notation)
	fmt.Fprintf(w, "  relatedness %g (average degree %g)\n",
		rep.Relatedness.Coefficient, rep.Relatedness.AverageDegree)
}

// printParseError writes a parse failure with its span marked
func printParseError(w io.Writer, err error) {
	var perr *parser.ParseError
	if errors.As(err, &perr) {
		marker := sym.Unknown
		if perr.Kind == parser.ErrorKindStepRelation {
			marker = sym.Step
		}
		fmt.Fprintf(w, "%s %s\n", marker, perr.FormatError(parser.ErrorContextTerminal))
		return
	}
	fmt.Fprintf(w, "%s %v\n", sym.Unknown, err)
}
