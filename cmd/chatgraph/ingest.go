package main

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chatgraph/chatgraph/internal/chat"
	"github.com/chatgraph/chatgraph/internal/config"
	"github.com/chatgraph/chatgraph/internal/graph"
	"github.com/chatgraph/chatgraph/internal/ingest"
	"github.com/chatgraph/chatgraph/internal/scan"
)

func ingestCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "ingest <path|glob>",
		Short: "Parse chat exports and load them into Neo4j",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			files, err := scan.Expand(args[0])
			if err != nil {
				return err
			}

			logger := zap.NewNop()
			if verbose {
				logger, err = zap.NewDevelopment()
				if err != nil {
					return fmt.Errorf("init logger: %w", err)
				}
				defer logger.Sync()
			}

			ctx := cmd.Context()
			store, err := graph.Connect(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
			if err != nil {
				return err
			}
			defer store.Close(ctx)

			var bar *progressbar.ProgressBar
			if !verbose {
				bar = progressbar.Default(int64(len(files)), "ingesting")
			}

			stats, err := ingest.Run(ctx, files, store, ingest.Options{
				QueueSize: cfg.QueueSize,
				BatchSize: cfg.BatchSize,
				Logger:    logger,
				OnThread: func(scan.FileInfo, *chat.Thread) {
					if bar != nil {
						bar.Add(1)
					}
				},
			})
			if bar != nil {
				bar.Finish()
			}
			if err != nil {
				return fmt.Errorf("ingest: %w", err)
			}

			fmt.Println("\nRun Statistics:")
			fmt.Printf("Duration: %s\n", stats.Duration.Round(time.Millisecond))
			fmt.Printf("Files processed: %d\n", stats.FilesProcessed)
			fmt.Printf("Messages extracted: %d\n", stats.MessagesExtracted)
			fmt.Printf("Unique participants: %d\n", stats.UniqueParticipants)
			fmt.Printf("Average messages per file: %.2f\n", stats.AvgMessagesPerFile())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log each batch instead of showing a progress bar")
	return cmd
}
