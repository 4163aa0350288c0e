package main

import (
	"os"

	"github.com/sumrise/sumrise/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
