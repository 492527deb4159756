package main

import (
	"os"

	"github.com/nikkolasg/timed/cmd/timed/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
