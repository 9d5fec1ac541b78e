package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"

	"github.com/teranos/kin/cmd/kin/commands"
	"github.com/teranos/kin/errors"
	"github.com/teranos/kin/logger"
)

func main() {
	err := commands.NewRootCmd().Execute()
	logger.Cleanup()
	if err != nil {
		fmt.Fprintln(os.Stderr, pterm.Red("Error: ")+err.Error())
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintln(os.Stderr, pterm.LightCyan("Hint: ")+hint)
		}
		os.Exit(1)
	}
}
