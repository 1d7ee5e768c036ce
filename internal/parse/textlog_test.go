package parse

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chatgraph/chatgraph/internal/chat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLog(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transcript.txt")
	err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644)
	require.NoError(t, err)
	return path
}

func TestParseTextLogSingleMessage(t *testing.T) {
	path := writeLog(t, "Jan 1, 2021, 1:00:00 PM: Alice: Hello")

	thread, err := ParseTextLog(path)
	require.NoError(t, err)
	require.Equal(t, 1, thread.MessageCount())

	msg := thread.Messages[0]
	assert.Equal(t, "Alice", msg.From.Name)
	assert.Equal(t, chat.UnknownPhone, msg.From.Phone)
	assert.Equal(t, "Hello", msg.Content)
	assert.Equal(t, []chat.Participant{{Name: "Unknown", Phone: chat.UnknownPhone}}, msg.To)
}

func TestParseTextLogContinuationAccumulates(t *testing.T) {
	path := writeLog(t,
		"Jan 1, 2021, 1:00:00 PM: Alice: Hello",
		"world")

	thread, err := ParseTextLog(path)
	require.NoError(t, err)
	require.Equal(t, 1, thread.MessageCount())
	assert.Equal(t, "Hello\nworld", thread.Messages[0].Content)
}

func TestParseTextLogZoneQualifiedTimestampWins(t *testing.T) {
	path := writeLog(t, "Jan 1, 2021, 1:00:00 PM UTC: Alice: hi")

	thread, err := ParseTextLog(path)
	require.NoError(t, err)
	require.Equal(t, 1, thread.MessageCount())

	want := time.Date(2021, 1, 1, 13, 0, 0, 0, time.UTC)
	assert.True(t, thread.Messages[0].Timestamp.Equal(want))
}

func TestParseTextLogNumericOffsetTimestamp(t *testing.T) {
	path := writeLog(t, "Jan 1, 2021, 1:00:00 PM -0500: Alice: hi")

	thread, err := ParseTextLog(path)
	require.NoError(t, err)
	require.Equal(t, 1, thread.MessageCount())

	want := time.Date(2021, 1, 1, 18, 0, 0, 0, time.UTC)
	assert.True(t, thread.Messages[0].Timestamp.Equal(want))
}

func TestParseTextLogMultipleMessagesFlushOnTimestamp(t *testing.T) {
	path := writeLog(t,
		"Jan 1, 2021, 1:00:00 PM: Alice: first",
		"continued",
		"Jan 1, 2021, 1:05:00 PM: Bob: second")

	thread, err := ParseTextLog(path)
	require.NoError(t, err)
	require.Equal(t, 2, thread.MessageCount())
	assert.Equal(t, "first\ncontinued", thread.Messages[0].Content)
	assert.Equal(t, "Bob", thread.Messages[1].From.Name)
	assert.Equal(t, "second", thread.Messages[1].Content)
}

func TestParseTextLogLabelsLineReplacesSet(t *testing.T) {
	path := writeLog(t,
		"Labels: Family",
		"Jan 1, 2021, 1:00:00 PM: Alice: hi",
		"Labels: Archived, Work")

	thread, err := ParseTextLog(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Archived", "Work"}, thread.Labels)
	assert.Equal(t, 1, thread.MessageCount())
}

func TestParseTextLogDeletedLineConsumed(t *testing.T) {
	path := writeLog(t,
		"Jan 1, 2021, 1:00:00 PM: Alice: hi",
		"Deleted: media attachment")

	thread, err := ParseTextLog(path)
	require.NoError(t, err)
	require.Equal(t, 1, thread.MessageCount())
	// not treated as a continuation line
	assert.Equal(t, "hi", thread.Messages[0].Content)
}

func TestParseTextLogMalformedSplitDropped(t *testing.T) {
	path := writeLog(t,
		"Jan 1, 2021, 1:00:00 PM: missing second separator",
		"orphan continuation")

	thread, err := ParseTextLog(path)
	require.NoError(t, err)
	// the malformed line starts no message, so the next line has nothing
	// to attach to either
	assert.Equal(t, 0, thread.MessageCount())
}

func TestParseTextLogLeadingContinuationDropped(t *testing.T) {
	path := writeLog(t,
		"stray line before any message",
		"Jan 1, 2021, 1:00:00 PM: Alice: hi")

	thread, err := ParseTextLog(path)
	require.NoError(t, err)
	require.Equal(t, 1, thread.MessageCount())
	assert.Equal(t, "hi", thread.Messages[0].Content)
}

func TestParseTextLogEmptyFile(t *testing.T) {
	path := writeLog(t)

	thread, err := ParseTextLog(path)
	require.NoError(t, err)
	assert.Equal(t, 0, thread.MessageCount())
}

func TestParseTextLogParticipantsFolded(t *testing.T) {
	path := writeLog(t, "Jan 1, 2021, 1:00:00 PM: Alice: hi")

	thread, err := ParseTextLog(path)
	require.NoError(t, err)
	// sender and placeholder share the Unknown identity, so the set
	// collapses to one entry
	require.Len(t, thread.Participants, 1)
	assert.Equal(t, chat.UnknownPhone, thread.Participants[0].Phone)
}

func TestParseTextLogUnreadableFile(t *testing.T) {
	_, err := ParseTextLog(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}
