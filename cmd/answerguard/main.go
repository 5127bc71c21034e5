package main

import (
	"fmt"
	"os"

	"github.com/GF0201/CWKGQA/pkg/cli"
	"github.com/GF0201/CWKGQA/pkg/observability/logging"
)

func main() {
	if _, err := logging.InitFromEnv(); err != nil {
		// Fallback to stderr since logger initialization failed
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
	}
	defer logging.Sync()

	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
