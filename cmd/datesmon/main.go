package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/omar4-4mohsen/dates-monitor/internal/domain"
	"github.com/omar4-4mohsen/dates-monitor/internal/infrastructure/cli"
)

func main() {
	ctx := context.Background()
	opts := cli.Options{Verbose: isVerbose()}

	root := cli.NewRootCmd(opts)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func isVerbose() bool {
	v := os.Getenv(domain.EnvDebug)
	return strings.EqualFold(v, "1") || strings.EqualFold(v, "true")
}
