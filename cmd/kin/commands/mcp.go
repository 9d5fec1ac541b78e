package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/kin/errors"
	"github.com/teranos/kin/mcp"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve kin as Model Context Protocol tools over stdio",
		Long: `Serve kin as Model Context Protocol tools over stdin/stdout.

Tools:
  kin_parse    Resolve a phrase to its relation and relatedness
  kin_suggest  Complete a partial phrase
  kin_graph    Draw the family tree behind a phrase (dot or json)
  kin_tokens   Classify each span of a phrase

Logs go to stderr and never mix with the protocol stream.`,
		Example: `  kin mcp
  kin mcp --config ~/.kin/am.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			s, err := mcp.NewServer(cfg)
			if err != nil {
				return errors.Wrap(err, "failed to create MCP server")
			}
			return s.Serve()
		},
	}
}
