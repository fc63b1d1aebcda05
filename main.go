package main

import (
	"os"

	"github.com/ccasp/ccasp/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
