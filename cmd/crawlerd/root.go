package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for crawlerd.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawlerd",
		Short: "Same-domain web crawler with a streaming HTTP API",
		Long: `crawlerd runs an HTTP API for crawling websites breadth-first.

Each crawl starts from a seed URL and visits only pages on the seed's
domain. Clients create a crawl task, poll its snapshot, or subscribe to a
server-sent event stream that delivers every discovered URL exactly once.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
