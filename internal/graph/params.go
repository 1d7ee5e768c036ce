package graph

import (
	"time"

	"github.com/chatgraph/chatgraph/internal/chat"
)

// Wire payloads for the two bulk operations. Participants are not
// deduplicated across threads before sending; the MERGE on the store side
// is idempotent per phone.

func participantParams(batch []chat.Thread) []map[string]any {
	var out []map[string]any
	for _, t := range batch {
		for _, p := range t.Participants {
			out = append(out, map[string]any{
				"phone": p.Phone,
				"name":  p.Name,
			})
		}
	}
	return out
}

func messageParams(batch []chat.Thread) []map[string]any {
	var out []map[string]any
	for _, t := range batch {
		for _, m := range t.Messages {
			phones := make([]string, 0, len(m.To))
			for _, to := range m.To {
				phones = append(phones, to.Phone)
			}
			out = append(out, map[string]any{
				"from_phone": m.From.Phone,
				"to_phones":  phones,
				"content":    m.Content,
				"timestamp":  m.Timestamp.Format(time.RFC3339),
			})
		}
	}
	return out
}
