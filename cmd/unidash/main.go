package main

import (
	"fmt"
	"os"
)

// ============================================================================
// UNIDASH CLI — university admissions and enrollment dashboard
// ============================================================================

const version = "0.1.0"

func main() {
	if err := newRootCommand(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
