package main

import (
	"os"

	"github.com/vadiminshakov/tradebook/cmd/tradebook/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
