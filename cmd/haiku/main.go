// Package main provides the haiku compiler front-end CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/haiku/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
