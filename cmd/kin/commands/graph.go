package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teranos/kin/display"
	"github.com/teranos/kin/errors"
	"github.com/teranos/kin/graph"
	"github.com/teranos/kin/parser"
)

func newGraphCmd() *cobra.Command {
	var (
		format string
		width  int
		size   string
	)

	cmd := &cobra.Command{
		Use:   "graph PHRASE",
		Short: "Draw the family tree implied by a phrase",
		Long: `Draw the family tree implied by a phrase.

Every person the phrase names is drawn, along with the ancestors that connect
them. DOT output can be rendered with Graphviz; JSON output is a node/link
model for force-directed layouts. Words after PHRASE are joined with spaces.`,
		Example: `  kin graph "mom's cousin's son" | dot -Tsvg > tree.svg
  kin graph uncle --format json
  kin graph "half-brother's daughter" --width 0`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if display.ShouldOutputJSON(cmd) {
				format = "json"
			}
			if format != "dot" && format != "json" {
				return errors.WithHint(errors.Newf("unsupported format: %s", format), "use dot or json")
			}

			opts := []graph.Option{graph.WithLabelWidth(cfg.Graph.LabelWidth), graph.WithSize(cfg.Graph.Size)}
			if cmd.Flags().Changed("width") {
				opts = append(opts, graph.WithLabelWidth(width))
			}
			if size != "" {
				opts = append(opts, graph.WithSize(size))
			}
			g := graph.New(opts...)

			phrase := strings.Join(args, " ")
			res, err := newParser(cfg, parser.WithRecorder(g)).Parse(phrase)
			if err != nil {
				printParseError(cmd.ErrOrStderr(), err)
				return errors.Newf("%q did not resolve", phrase)
			}
			if res.IsAmbiguous() {
				fmt.Fprintln(cmd.ErrOrStderr(), res.Ambiguity.FormatError(parser.ErrorContextTerminal))
				return errors.WithHint(errors.Newf("%q is ambiguous", phrase), "graph one of the candidates")
			}

			if format == "json" {
				return display.WriteJSON(cmd.OutOrStdout(), g.Graph(map[string]string{"phrase": phrase}))
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), g.DOT())
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "Output format: dot, json")
	cmd.Flags().IntVar(&width, "width", graph.DefaultLabelWidth, "Wrap node labels to this width, 0 to disable (default: graph.label_width)")
	cmd.Flags().StringVar(&size, "size", "", "Graphviz size attribute (default: graph.size)")
	return cmd
}
