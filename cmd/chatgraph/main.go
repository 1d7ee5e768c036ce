package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "chatgraph",
		Short:   "Extract chat-history exports into a Neo4j conversation graph",
		Version: version,
	}

	rootCmd.AddCommand(ingestCmd())
	rootCmd.AddCommand(dumpCmd())
	rootCmd.AddCommand(browseCmd())
	rootCmd.AddCommand(doctorCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
