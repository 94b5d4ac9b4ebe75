package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dshills/shutter/internal/cli"
)

var (
	rootCommand = cli.NewRootCommand
	osExit      = os.Exit
)

func main() {
	cmd := rootCommand()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		osExit(1)
	}
}
