// Command aigmc is a safety model checker for sequential circuits in AIG
// format, supporting bounded model checking and McMillan-style
// interpolation for unbounded safety.
package main

import (
	"os"

	"github.com/hashicorp/cli"
)

func main() {
	ui := &cli.BasicUi{
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
		Reader:      os.Stdin,
	}
	cmd := &Command{Ui: ui}
	os.Exit(cmd.Run(os.Args[1:]))
}
