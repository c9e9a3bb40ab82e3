package main

import (
	"os"

	"github.com/lamar02/guides-cli/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:], os.Stdin, os.Stdout))
}
