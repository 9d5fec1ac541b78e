package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/teranos/kin/display"
	"github.com/teranos/kin/errors"
	"github.com/teranos/kin/logger"
	"github.com/teranos/kin/report"
	"github.com/teranos/kin/sym"
)

// batchPhrase is one phrase read from a batch file
type batchPhrase struct {
	File   string
	Line   int
	Phrase string
}

// batchResult is one parsed phrase in --json/--yaml output
type batchResult struct {
	File          string `json:"file" yaml:"file"`
	Line          int    `json:"line" yaml:"line"`
	report.Report `yaml:",inline"`
}

// batchSummary counts outcomes across all files
type batchSummary struct {
	Files    int                    `json:"files" yaml:"files"`
	Phrases  int                    `json:"phrases" yaml:"phrases"`
	Outcomes map[report.Outcome]int `json:"outcomes" yaml:"outcomes"`
}

// batchOutput is the --json/--yaml shape of kin batch
type batchOutput struct {
	Results []batchResult `json:"results" yaml:"results"`
	Summary batchSummary  `json:"summary" yaml:"summary"`
}

// failed counts phrases that neither resolved nor were ambiguous
func (s batchSummary) failed() int {
	return s.Phrases - s.Outcomes[report.OutcomeResolved] - s.Outcomes[report.OutcomeAmbiguous]
}

func newBatchCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "batch GLOB...",
		Short: "Resolve every phrase in a set of files",
		Long: `Resolve every phrase in a set of files and summarise the outcomes.

Patterns support ** for recursive matching. Each line holds one or more
phrases, split like a shell command line, so quote phrases that contain
spaces. Text from # to the end of a line is a comment.

  # family.txt
  father "mom's cousin's son"
  "second cousin twice removed"   # two readings`,
		Example: `  kin batch family.txt
  kin batch 'testdata/**/*.txt' --json
  kin batch phrases/*.txt --strict`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			files, err := expandGlobs(args)
			if err != nil {
				return err
			}

			var phrases []batchPhrase
			for _, file := range files {
				found, err := readPhrases(file)
				if err != nil {
					return err
				}
				phrases = append(phrases, found...)
			}

			p := newParser(cfg)
			out := batchOutput{
				Results: make([]batchResult, 0, len(phrases)),
				Summary: batchSummary{Files: len(files), Phrases: len(phrases), Outcomes: map[report.Outcome]int{}},
			}
			for _, bp := range phrases {
				rep := report.Parse(p, bp.Phrase)
				out.Results = append(out.Results, batchResult{File: bp.File, Line: bp.Line, Report: rep})
				out.Summary.Outcomes[rep.Outcome]++
			}

			if err := display.Output(cmd, out, func(w io.Writer) error {
				writeBatchText(w, out)
				return nil
			}); err != nil {
				return err
			}

			if strict && out.Summary.failed() > 0 {
				return errors.Newf("%d of %d phrases did not resolve", out.Summary.failed(), out.Summary.Phrases)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit 1 when any phrase does not resolve")
	return cmd
}

// expandGlobs resolves every pattern to files, sorted and without duplicates.
// A pattern that matches nothing is an error.
func expandGlobs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "glob error in %q", pattern)
		}

		n := 0
		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}
			n++
			if !seen[match] {
				seen[match] = true
				files = append(files, match)
			}
		}
		if n == 0 {
			return nil, errors.Newf("no files match pattern: %s", pattern)
		}
	}
	sort.Strings(files)
	return files, nil
}

// readPhrases reads every phrase from a batch file
func readPhrases(path string) ([]batchPhrase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()

	var phrases []batchPhrase
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		for _, phrase := range splitLine(scanner.Text()) {
			phrases = append(phrases, batchPhrase{File: path, Line: line, Phrase: phrase})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return phrases, nil
}

// splitLine splits a line into phrases the way a shell splits arguments,
// dropping everything from an unquoted # onwards
func splitLine(line string) []string {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	// Parse args respecting quotes (like shell does)
	args, err := shellquote.Split(line)
	if err != nil {
		// If quote parsing fails, fall back to simple split
		logger.ComponentLogger("batch").Debugw("Quote parsing failed, using simple split",
			"text", line,
			logger.FieldError, err,
		)
		args = strings.Fields(line)
	}

	var phrases []string
	for _, arg := range args {
		if strings.HasPrefix(arg, "#") {
			break
		}
		if arg = strings.TrimSpace(arg); arg != "" {
			phrases = append(phrases, arg)
		}
	}
	return phrases
}

func writeBatchText(w io.Writer, out batchOutput) {
	for _, r := range out.Results {
		fmt.Fprintf(w, "%s %s:%d  %s", outcomeMarker(r.Outcome), r.File, r.Line, r.Phrase)
		switch {
		case r.Relation != nil:
			fmt.Fprintf(w, "  %s  %g\n", r.Relation.Notation, r.Relatedness.Coefficient)
		case len(r.Candidates) > 0:
			fmt.Fprintf(w, "  %s\n", strings.Join(r.Candidates, " | "))
		case r.Error != nil:
			fmt.Fprintf(w, "  %s\n", r.Error.Message)
		default:
			fmt.Fprintln(w)
		}
	}

	s := out.Summary
	fmt.Fprintf(w, "\n%d phrases in %d files: %d resolved, %d ambiguous, %d unknown, %d step\n",
		s.Phrases, s.Files,
		s.Outcomes[report.OutcomeResolved],
		s.Outcomes[report.OutcomeAmbiguous],
		s.Outcomes[report.OutcomeUnknown],
		s.Outcomes[report.OutcomeStep],
	)
}

func outcomeMarker(o report.Outcome) string {
	switch o {
	case report.OutcomeResolved:
		return sym.Relation
	case report.OutcomeAmbiguous:
		return sym.Ambiguous
	case report.OutcomeStep:
		return sym.Step
	default:
		return sym.Unknown
	}
}
