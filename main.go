package main

import (
	"os"

	"github.com/miracle2k/elrc-maker/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
