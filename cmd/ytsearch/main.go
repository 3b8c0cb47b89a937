// Package main provides the entry point for the ytsearch CLI.
package main

import (
	"os"

	"github.com/Aman-CERP/ytsearch/cmd/ytsearch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
