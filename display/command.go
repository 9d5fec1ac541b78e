package display

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/kin/errors"
)

// Format is a structured output format selected on the command line
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor reads the --json and --yaml flags, local or persistent.
// --json wins when both are set.
func FormatFor(cmd *cobra.Command) Format {
	if cmd == nil {
		return FormatText
	}
	if flagSet(cmd, "json") {
		return FormatJSON
	}
	if flagSet(cmd, "yaml") {
		return FormatYAML
	}
	return FormatText
}

func flagSet(cmd *cobra.Command, name string) bool {
	if f := cmd.Flags().Lookup(name); f != nil {
		if v, err := cmd.Flags().GetBool(name); err == nil && v {
			return true
		}
	}
	if f := cmd.Root().PersistentFlags().Lookup(name); f != nil {
		if v, err := cmd.Root().PersistentFlags().GetBool(name); err == nil && v {
			return true
		}
	}
	return false
}

// ShouldOutputJSON reports whether --json was given
func ShouldOutputJSON(cmd *cobra.Command) bool {
	return FormatFor(cmd) == FormatJSON
}

// Output writes v as JSON or YAML when requested, and otherwise calls text
func Output(cmd *cobra.Command, v interface{}, text func(w io.Writer) error) error {
	w := io.Writer(os.Stdout)
	if cmd != nil {
		w = cmd.OutOrStdout()
	}
	switch FormatFor(cmd) {
	case FormatJSON:
		return WriteJSON(w, v)
	case FormatYAML:
		return WriteYAML(w, v)
	default:
		return text(w)
	}
}

// OutputJSON marshals and prints JSON using display.MarshalJSON
func OutputJSON(v interface{}) error {
	return WriteJSON(os.Stdout, v)
}

// OutputYAML prints v as YAML
func OutputYAML(v interface{}) error {
	return WriteYAML(os.Stdout, v)
}

// WriteJSON writes v to w as indented JSON followed by a newline
func WriteJSON(w io.Writer, v interface{}) error {
	data, err := MarshalJSON(v)
	if err != nil {
		return errors.Wrap(err, "failed to marshal JSON")
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// WriteYAML writes v to w as YAML
func WriteYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "failed to marshal YAML")
	}
	return enc.Close()
}
