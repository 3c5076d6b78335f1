package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "nexa",
		Short: "The declarative UI runtime for Go",
		Long: `Nexa is a declarative UI runtime.

Fine-grained reactive state (signals, memos, effects), a virtual
document with a keyed diff engine, and a cooperative scheduler drive
a compact mutation stream that any applier can consume:

  • Signals with equality-gated, glitch-free propagation
  • Keyed reconciliation with minimal moves
  • Binary mutation protocol for thin clients
  • Dev server with SSR shell and live WebSocket sessions`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		devCmd(),
		buildCmd(),
		serveCmd(),
		deployCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}
