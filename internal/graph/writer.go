package graph

import (
	"context"
	"fmt"

	"github.com/chatgraph/chatgraph/internal/chat"
	"go.uber.org/zap"
)

// Runner executes one Cypher statement against the store. The writer is
// built over this seam so batching semantics can be exercised without a
// live database.
type Runner interface {
	Run(ctx context.Context, cypher string, params map[string]any) error
}

const defaultBatchSize = 100

const upsertParticipantsCypher = `
UNWIND $participants AS participant
MERGE (p:Participant {phone: participant.phone})
SET p.name = participant.name`

// createMessagesCypher assumes the participant upsert for the same batch
// has already run: the MATCH clauses look up phones introduced there.
const createMessagesCypher = `
UNWIND $messages AS message
MATCH (from:Participant {phone: message.from_phone})
WITH message, from
UNWIND message.to_phones AS to_phone
MATCH (to:Participant {phone: to_phone})
CREATE (m:Message {content: message.content, timestamp: message.timestamp})
CREATE (from)-[:SENT]->(m)
CREATE (m)-[:TO]->(to)`

// Writer accumulates threads into fixed-size batches and flushes each
// batch as two ordered bulk operations. It holds no participant or
// message state across batches; identity consistency between batches is
// entirely the store's merge-by-phone behavior.
type Writer struct {
	runner    Runner
	batchSize int
	log       *zap.Logger
}

type WriterOption func(*Writer)

// WithBatchSize sets how many threads accumulate before a flush.
func WithBatchSize(n int) WriterOption {
	return func(w *Writer) {
		if n > 0 {
			w.batchSize = n
		}
	}
}

func WithLogger(log *zap.Logger) WriterOption {
	return func(w *Writer) {
		if log != nil {
			w.log = log
		}
	}
}

func NewWriter(runner Runner, opts ...WriterOption) *Writer {
	w := &Writer{
		runner:    runner,
		batchSize: defaultBatchSize,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Consume drains threads until the channel closes, flushing every full
// batch and any non-empty remainder at the end. A store failure stops
// consumption immediately: the queue is not drained, nothing is retried,
// and batches flushed earlier stay committed. Returns the number of
// threads written.
func (w *Writer) Consume(ctx context.Context, threads <-chan chat.Thread) (int, error) {
	var batch []chat.Thread
	total := 0

	for t := range threads {
		batch = append(batch, t)
		if len(batch) < w.batchSize {
			continue
		}
		if err := w.flush(ctx, batch); err != nil {
			return total, err
		}
		total += len(batch)
		batch = batch[:0]
	}

	if len(batch) > 0 {
		if err := w.flush(ctx, batch); err != nil {
			return total, err
		}
		total += len(batch)
	}

	w.log.Info("writer done", zap.Int("threads", total))
	return total, nil
}

func (w *Writer) flush(ctx context.Context, batch []chat.Thread) error {
	w.log.Info("flushing batch", zap.Int("threads", len(batch)))

	err := w.runner.Run(ctx, upsertParticipantsCypher, map[string]any{
		"participants": participantParams(batch),
	})
	if err != nil {
		return fmt.Errorf("upsert participants: %w", err)
	}

	err = w.runner.Run(ctx, createMessagesCypher, map[string]any{
		"messages": messageParams(batch),
	})
	if err != nil {
		return fmt.Errorf("create messages: %w", err)
	}
	return nil
}
