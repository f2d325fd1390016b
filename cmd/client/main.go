package main

import (
	"context"
	"fmt"
	"os"

	"github.com/euforicio/scratchpad/internal/client/cli"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	version := fmt.Sprintf("%s (built %s, commit %s)", Version, BuildDate, GitCommit)

	if err := cli.Execute(context.Background(), version, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
