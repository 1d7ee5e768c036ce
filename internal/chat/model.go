package chat

import (
	"encoding/json"
	"time"
)

// SelfName is the display name that exports use to mark the archive owner.
const SelfName = "Me"

// UnknownPhone is the sentinel identifier for senders with no contact info.
const UnknownPhone = "Unknown"

// Participant is one contact in a conversation. Phone is the identity key:
// two participants are the same entity iff their phones match. Name is
// informational only and the last-seen value wins on conflict.
type Participant struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Self returns the sentinel participant used when no message in a document
// identifies the archive owner.
func Self() Participant {
	return Participant{Name: SelfName, Phone: UnknownPhone}
}

type Message struct {
	From      Participant   `json:"from"`
	To        []Participant `json:"to"`
	Timestamp time.Time     `json:"timestamp"`
	Content   string        `json:"content"`
}

// Thread is one parsed conversation document: its messages in document
// order, the deduplicated participant set, and the label set. Threads are
// built once per document and not mutated after hand-off to the writer.
type Thread struct {
	Messages     []Message     `json:"messages"`
	Participants []Participant `json:"participants"`
	Labels       []string      `json:"labels"`
}

// MessageCount is derived from the message sequence; it is never stored
// separately from the sequence it summarizes.
func (t Thread) MessageCount() int {
	return len(t.Messages)
}

// AddParticipant merges p into the participant set keyed by phone.
func (t *Thread) AddParticipant(p Participant) {
	for i := range t.Participants {
		if t.Participants[i].Phone == p.Phone {
			t.Participants[i].Name = p.Name
			return
		}
	}
	t.Participants = append(t.Participants, p)
}

func (t Thread) MarshalJSON() ([]byte, error) {
	type alias Thread
	return json.Marshal(struct {
		alias
		MessageCount int `json:"message_count"`
	}{alias(t), len(t.Messages)})
}
