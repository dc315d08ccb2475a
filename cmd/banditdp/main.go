package main

import (
	"os"

	"github.com/thalesfsp/bandit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
