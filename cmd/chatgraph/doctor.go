package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chatgraph/chatgraph/internal/config"
	"github.com/chatgraph/chatgraph/internal/graph"
	"github.com/chatgraph/chatgraph/internal/parse"
	"github.com/chatgraph/chatgraph/internal/scan"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor [path|glob]",
		Short: "Self-check: verify config, store connectivity, and scan counts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			fmt.Println("=== Config ===")
			fmt.Printf("  Neo4j URI:  %s\n", cfg.Neo4jURI)
			fmt.Printf("  Neo4j user: %s\n", cfg.Neo4jUser)
			fmt.Printf("  Batch size: %d\n", cfg.BatchSize)
			fmt.Printf("  Queue size: %d\n", cfg.QueueSize)

			fmt.Println("\n=== Store ===")
			ctx := cmd.Context()
			store, err := graph.Connect(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
			if err != nil {
				fmt.Printf("  Status: UNREACHABLE (%v)\n", err)
			} else {
				fmt.Println("  Status: OK")
				store.Close(ctx)
			}

			if len(args) == 0 {
				return nil
			}

			fmt.Println("\n=== File Scan ===")
			files, err := scan.Expand(args[0])
			if err != nil {
				fmt.Printf("  scan error: %v\n", err)
				return nil
			}
			htmlCount, logCount := 0, 0
			for _, f := range files {
				if f.Format == parse.FormatHTML {
					htmlCount++
				} else {
					logCount++
				}
			}
			fmt.Printf("  Structured-markup exports: %d\n", htmlCount)
			fmt.Printf("  Line-oriented transcripts: %d\n", logCount)

			return nil
		},
	}
}
