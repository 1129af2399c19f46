// Package main provides the barricade CLI: breadth-first move tree
// generation, retrograde barrier analysis, and ratio reporting over a
// durable SQLite store.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}
