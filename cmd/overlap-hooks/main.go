package main

import (
	"os"

	"github.com/overlaphq/overlap-cli/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
