package main

import (
	"os"

	"github.com/matchwell/matchwell/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
