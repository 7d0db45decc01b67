// Package main is the entry point of the customindent command.
package main

import (
	"context"
	"os"

	"github.com/dshills/customindent/internal/cli"
)

func main() {
	code, _ := cli.Run(context.Background(), cli.OSStreams(), os.Args[1:])
	os.Exit(code)
}
