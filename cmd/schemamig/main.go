// Command schemamig stores graph elements in versioned groups and queries
// them under either schema version.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/schemamig/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		var exit *cli.ExitError
		if !errors.As(err, &exit) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
