package parse

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chatgraph/chatgraph/internal/chat"
)

const maxLineSize = 10 * 1024 * 1024 // 10MB

const (
	labelPrefix   = "Labels:"
	deletedPrefix = "Deleted:"
	fieldSep      = ": "
)

// logTimeLayouts are the timestamp forms recognized at the start of a log
// line, tried in order. Zone-qualified layouts come before the bare local
// form so a trailing zone name is not mistaken for message content.
var logTimeLayouts = []string{
	"Jan 2, 2006, 3:04:05 PM MST",
	"Jan 2, 2006, 3:04:05 PM -0700",
	"Jan 2, 2006, 3:04:05 PM",
}

// placeholderRecipient stands in for the recipient on every line-oriented
// message: this format carries no group-membership information to infer
// direction from.
var placeholderRecipient = chat.Participant{Name: "Unknown", Phone: chat.UnknownPhone}

// ParseTextLog parses one line-oriented transcript into a Thread. Only an
// unreadable file is fatal; malformed lines are dropped or folded into the
// previous message rather than aborting the document.
func ParseTextLog(path string) (*chat.Thread, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	defer f.Close()

	thread := &chat.Thread{}
	var current *chat.Message

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		current = consumeLine(thread, current, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	flush(thread, current)
	return thread, nil
}

// consumeLine advances the accumulator state machine by one line and
// returns the new in-progress message, if any.
func consumeLine(thread *chat.Thread, current *chat.Message, line string) *chat.Message {
	switch {
	case strings.HasPrefix(line, labelPrefix):
		thread.Labels = SplitLabels(line)
		return current
	case strings.HasPrefix(line, deletedPrefix):
		return current
	}

	prefix, _, found := strings.Cut(line, fieldSep)
	ts, err := parseLogTime(prefix)
	if !found || err != nil {
		// continuation of the previous message; without one the line has
		// nothing to attach to and is dropped
		if current != nil {
			current.Content += "\n" + line
		}
		return current
	}

	flush(thread, current)

	parts := strings.SplitN(line, fieldSep, 3)
	if len(parts) != 3 {
		return nil
	}
	return &chat.Message{
		From:      chat.Participant{Name: parts[1], Phone: chat.UnknownPhone},
		To:        []chat.Participant{placeholderRecipient},
		Timestamp: ts,
		Content:   parts[2],
	}
}

// flush appends the in-progress message, if any, to the thread and folds
// its participants into the thread's set.
func flush(thread *chat.Thread, current *chat.Message) {
	if current == nil {
		return
	}
	thread.Messages = append(thread.Messages, *current)
	thread.AddParticipant(current.From)
	for _, p := range current.To {
		thread.AddParticipant(p)
	}
}

func parseLogTime(s string) (time.Time, error) {
	var err error
	for _, layout := range logTimeLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
