// Package commands implements the kin command line.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/kin/am"
	"github.com/teranos/kin/errors"
	"github.com/teranos/kin/graph"
	"github.com/teranos/kin/logger"
	"github.com/teranos/kin/parser"
)

// NewRootCmd builds the kin command tree
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "kin",
		Short: "Resolve English kinship phrases to a coefficient of relatedness",
		Long: `kin - Kinship phrases to relatedness.

kin reads phrases such as "mom's cousin's son" or "second cousin twice removed",
works out the common ancestors they imply, and reports how closely the two
people are related.

Available commands:
  parse    - Resolve phrases to a relation and relatedness
  graph    - Draw the family tree behind a phrase (Graphviz DOT or JSON)
  suggest  - Complete a partial phrase
  vocab    - List every relation kind and the words that name it
  batch    - Resolve every phrase in a set of files
  serve    - Start the HTTP and websocket server
  mcp      - Serve kin as Model Context Protocol tools over stdio
  am       - Manage kin configuration ("I am")
  version  - Show version information

Examples:
  kin parse "mom's cousin's son"
  kin graph "great-uncle" | dot -Tsvg > tree.svg
  kin suggest "grand"
  kin serve`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			verbosity, _ := cmd.Flags().GetCount("verbose")
			// A broken config is reported by the command that needs it
			jsonLogs := false
			if cfg, err := loadConfig(cmd); err == nil {
				jsonLogs = cfg.Log.JSON
			}
			if err := logger.Initialize(jsonLogs, verbosity); err != nil {
				return errors.Wrap(err, "failed to initialize logger")
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	flags.Bool("json", false, "Output as JSON")
	flags.Bool("yaml", false, "Output as YAML")
	flags.String("config", "", "Config file (default: kin.toml, ~/.kin/am.toml, /etc/kin/config.toml)")

	root.AddCommand(
		newParseCmd(),
		newGraphCmd(),
		newSuggestCmd(),
		newVocabCmd(),
		newBatchCmd(),
		newServeCmd(),
		newMCPCmd(),
		newAmCmd(),
		newVersionCmd(),
	)
	return root
}

// loadConfig reads --config when given, and the standard cascade otherwise
func loadConfig(cmd *cobra.Command) (*am.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	var cfg *am.Config
	var err error
	if path != "" {
		cfg, err = am.LoadFromFile(path)
	} else {
		cfg, err = am.Load()
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newParser(cfg *am.Config, opts ...parser.Option) *parser.Parser {
	return parser.New(append([]parser.Option{parser.WithMaxRemoved(cfg.Parser.MaxRemoved)}, opts...)...)
}

func newGraph(cfg *am.Config) *graph.RelationGraph {
	return graph.New(graph.WithLabelWidth(cfg.Graph.LabelWidth), graph.WithSize(cfg.Graph.Size))
}
