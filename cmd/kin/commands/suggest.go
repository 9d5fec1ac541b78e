package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teranos/kin/display"
	"github.com/teranos/kin/suggest"
)

// suggestOutput is the --json/--yaml shape of kin suggest
type suggestOutput struct {
	Query       string   `json:"query" yaml:"query"`
	Suggestions []string `json:"suggestions" yaml:"suggestions"`
	DidYouMean  []string `json:"did_you_mean,omitempty" yaml:"did_you_mean,omitempty"`
}

func newSuggestCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "suggest [PREFIX]",
		Short: "Complete a partial kinship phrase",
		Long: `Complete a partial kinship phrase, most common terms first.

After a possessive ("dad's ") completions are whole phrases that resolve.
With no prefix the most common terms are listed. When nothing completes the
prefix, close spellings are offered instead.`,
		Example: `  kin suggest grand
  kin suggest "dad's co" --limit 5
  kin suggest`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			prefix := strings.Join(args, " ")
			n := cfg.ClampSuggestLimit(limit)
			s := suggest.New(suggest.WithMaxGreats(cfg.Suggest.MaxGreats))

			out := suggestOutput{Query: prefix, Suggestions: s.Suggest(prefix, n)}
			if out.Suggestions == nil {
				out.Suggestions = []string{}
			}
			if len(out.Suggestions) == 0 && prefix != "" {
				out.DidYouMean = s.DidYouMean(prefix, n)
			}

			return display.Output(cmd, out, func(w io.Writer) error {
				for _, text := range out.Suggestions {
					fmt.Fprintln(w, text)
				}
				if len(out.Suggestions) == 0 {
					fmt.Fprintf(w, "No completions for %q\n", prefix)
					if len(out.DidYouMean) > 0 {
						fmt.Fprintf(w, "Did you mean: %s\n", strings.Join(out.DidYouMean, ", "))
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum suggestions (default: suggest.default_limit)")
	return cmd
}
