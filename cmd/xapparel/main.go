// Command xapparel is the storefront command line: catalog browsing, a
// persistent cart, checkout and scripted shopping scenarios.
package main

import (
	"os"

	"github.com/roach88/xapparel/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		cli.ReportError(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
