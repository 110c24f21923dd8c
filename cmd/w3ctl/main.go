// cmd/w3ctl/main.go

package main

import (
	"fmt"
	"os"

	"w3intel/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
