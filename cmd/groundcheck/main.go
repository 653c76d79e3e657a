package main

import (
	"os"

	"github.com/mkarpov/groundcheck/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
