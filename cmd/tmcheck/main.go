package main

import (
	"fmt"
	"os"

	"github.com/scbrown/tmcheck/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "tmcheck:", err)
		os.Exit(1)
	}
}
