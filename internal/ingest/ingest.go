package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/chatgraph/chatgraph/internal/chat"
	"github.com/chatgraph/chatgraph/internal/graph"
	"github.com/chatgraph/chatgraph/internal/parse"
	"github.com/chatgraph/chatgraph/internal/scan"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultQueueSize = 16

type Options struct {
	QueueSize int // bounded channel capacity between parser and writer
	BatchSize int // threads per store flush
	Logger    *zap.Logger
	// OnThread is called after each document is parsed, before the thread
	// is queued. Used for progress reporting; may be nil.
	OnThread func(file scan.FileInfo, t *chat.Thread)
}

type Stats struct {
	Duration           time.Duration
	FilesProcessed     int
	MessagesExtracted  int
	UniqueParticipants int
	ThreadsWritten     int
}

func (s Stats) AvgMessagesPerFile() float64 {
	if s.FilesProcessed == 0 {
		return 0
	}
	return float64(s.MessagesExtracted) / float64(s.FilesProcessed)
}

func (s Stats) String() string {
	return fmt.Sprintf("files=%d messages=%d participants=%d written=%d avg=%.2f duration=%s",
		s.FilesProcessed, s.MessagesExtracted, s.UniqueParticipants,
		s.ThreadsWritten, s.AvgMessagesPerFile(), s.Duration.Round(time.Millisecond))
}

// Run parses every discovered document in order and streams the resulting
// threads through a bounded channel into the graph writer. The channel
// gives the producer backpressure: parsing suspends while the writer is
// more than the queue capacity behind. Any parse or store failure aborts
// the run; threads flushed in earlier batches stay committed.
func Run(ctx context.Context, files []scan.FileInfo, runner graph.Runner, opts Options) (Stats, error) {
	start := time.Now()
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var stats Stats
	seen := make(map[string]struct{})
	threads := make(chan chat.Thread, opts.QueueSize)
	writer := graph.NewWriter(runner,
		graph.WithBatchSize(opts.BatchSize),
		graph.WithLogger(logger),
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// the writer terminates its receive loop on channel close, so
		// close even when a parse fails partway: already-queued threads
		// still get flushed, matching the writer's remainder semantics
		defer close(threads)

		for _, fi := range files {
			parser, err := parse.ForFormat(fi.Format)
			if err != nil {
				return err
			}
			thread, err := parser.Parse(fi.Path)
			if err != nil {
				return fmt.Errorf("parse %s: %w", fi.Path, err)
			}

			stats.FilesProcessed++
			stats.MessagesExtracted += thread.MessageCount()
			for _, p := range thread.Participants {
				seen[p.Phone] = struct{}{}
			}
			if opts.OnThread != nil {
				opts.OnThread(fi, thread)
			}
			logger.Debug("parsed document",
				zap.String("path", fi.Path),
				zap.Int("messages", thread.MessageCount()))

			select {
			case threads <- *thread:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	g.Go(func() error {
		written, err := writer.Consume(gctx, threads)
		stats.ThreadsWritten = written
		return err
	})

	err := g.Wait()
	stats.UniqueParticipants = len(seen)
	stats.Duration = time.Since(start)
	return stats, err
}
