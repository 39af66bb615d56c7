// Command wsgen generates TypeScript workspaces from declarative choices.
package main

import (
	"os"

	"github.com/NielsdaWheelz/wsgen/internal/cli"
	"github.com/NielsdaWheelz/wsgen/internal/errors"
)

func main() {
	err := cli.Run(os.Args[1:], os.Stdout, os.Stderr)
	if err != nil {
		errors.Print(os.Stderr, err)
		os.Exit(errors.ExitCode(err))
	}
}
