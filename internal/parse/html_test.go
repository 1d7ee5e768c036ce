package parse

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chatgraph/chatgraph/internal/chat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Alice - Text - 2021-01-01.html")
	err := os.WriteFile(path, []byte("<html><body>"+body+"</body></html>"), 0o644)
	require.NoError(t, err)
	return path
}

// messageBlock builds one hcard message block. Empty title omits the
// datetime element; empty phone omits the tel link.
func messageBlock(phone, name, title, content string) string {
	var b strings.Builder
	b.WriteString(`<div class="message">`)
	if title != "" {
		b.WriteString(fmt.Sprintf(`<abbr class="dt" title="%s">ts</abbr>`, title))
	}
	b.WriteString(`<cite class="sender vcard">`)
	if phone != "" {
		b.WriteString(fmt.Sprintf(`<a class="tel" href="tel:%s"><span class="fn">%s</span></a>`, phone, name))
	} else {
		b.WriteString(fmt.Sprintf(`<span class="fn">%s</span>`, name))
	}
	b.WriteString(`</cite>`)
	b.WriteString(fmt.Sprintf(`<q>%s</q>`, content))
	b.WriteString(`</div>`)
	return b.String()
}

func TestParseHTMLDedupesParticipants(t *testing.T) {
	// four blocks, two distinct phones
	path := writeDoc(t,
		messageBlock("+15550001", "Me", "2021-01-01T13:00:00.000-05:00", "a")+
			messageBlock("+15550002", "Alice", "2021-01-01T13:01:00.000-05:00", "b")+
			messageBlock("+15550001", "Me", "2021-01-01T13:02:00.000-05:00", "c")+
			messageBlock("+15550002", "Alice", "2021-01-01T13:03:00.000-05:00", "d"))

	thread, err := ParseHTML(path)
	require.NoError(t, err)

	require.Len(t, thread.Participants, 2)
	assert.Equal(t, 4, thread.MessageCount())
}

func TestParseHTMLDirection(t *testing.T) {
	path := writeDoc(t,
		messageBlock("+15550001", "Me", "2021-01-01T13:00:00.000-05:00", "hi both")+
			messageBlock("+15550002", "Alice", "2021-01-01T13:01:00.000-05:00", "hey")+
			messageBlock("+15550003", "Bob", "2021-01-01T13:02:00.000-05:00", "yo"))

	thread, err := ParseHTML(path)
	require.NoError(t, err)
	require.Equal(t, 3, thread.MessageCount())

	// self-sent: addressed to every other participant
	selfMsg := thread.Messages[0]
	assert.Equal(t, "+15550001", selfMsg.From.Phone)
	assert.ElementsMatch(t, []chat.Participant{
		{Name: "Alice", Phone: "+15550002"},
		{Name: "Bob", Phone: "+15550003"},
	}, selfMsg.To)

	// inbound: addressed to self only, even in a three-way thread
	for _, m := range thread.Messages[1:] {
		require.Len(t, m.To, 1)
		assert.Equal(t, "+15550001", m.To[0].Phone)
	}
}

func TestParseHTMLSynthesizesSelf(t *testing.T) {
	path := writeDoc(t,
		messageBlock("+15550002", "Alice", "2021-01-01T13:00:00.000-05:00", "hello"))

	thread, err := ParseHTML(path)
	require.NoError(t, err)
	require.Equal(t, 1, thread.MessageCount())

	// no "Me" marker anywhere: inbound messages go to the sentinel self
	require.Len(t, thread.Messages[0].To, 1)
	assert.Equal(t, chat.Self(), thread.Messages[0].To[0])
}

func TestParseHTMLMissingTimestampDefaultsToEpoch(t *testing.T) {
	path := writeDoc(t,
		messageBlock("+15550002", "Alice", "", "no timestamp here"))

	thread, err := ParseHTML(path)
	require.NoError(t, err)
	require.Equal(t, 1, thread.MessageCount())
	assert.True(t, thread.Messages[0].Timestamp.Equal(time.Unix(0, 0)))
	assert.Equal(t, "no timestamp here", thread.Messages[0].Content)
}

func TestParseHTMLUnparseableTimestampDefaultsToEpoch(t *testing.T) {
	path := writeDoc(t,
		messageBlock("+15550002", "Alice", "not a timestamp", "still emitted"))

	thread, err := ParseHTML(path)
	require.NoError(t, err)
	require.Equal(t, 1, thread.MessageCount())
	assert.True(t, thread.Messages[0].Timestamp.Equal(time.Unix(0, 0)))
}

func TestParseHTMLTimestampZoneOffset(t *testing.T) {
	path := writeDoc(t,
		messageBlock("+15550002", "Alice", "2021-06-15T08:30:00.000-04:00", "morning"))

	thread, err := ParseHTML(path)
	require.NoError(t, err)

	want := time.Date(2021, 6, 15, 12, 30, 0, 0, time.UTC)
	assert.True(t, thread.Messages[0].Timestamp.Equal(want))
}

func TestParseHTMLMissingPhoneFallsBackToUnknown(t *testing.T) {
	path := writeDoc(t,
		messageBlock("", "Alice", "2021-01-01T13:00:00.000-05:00", "anonymous"))

	thread, err := ParseHTML(path)
	require.NoError(t, err)
	require.Len(t, thread.Participants, 1)
	assert.Equal(t, chat.UnknownPhone, thread.Participants[0].Phone)
	assert.Equal(t, "Alice", thread.Participants[0].Name)
}

func TestParseHTMLMissingSenderBlockIsFatal(t *testing.T) {
	path := writeDoc(t,
		`<div class="message"><q>orphan message</q></div>`)

	_, err := ParseHTML(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no sender block")
}

func TestParseHTMLNoMessageBlocks(t *testing.T) {
	path := writeDoc(t, `<p>nothing to see</p>`)

	thread, err := ParseHTML(path)
	require.NoError(t, err)
	assert.Equal(t, 0, thread.MessageCount())
	assert.Empty(t, thread.Participants)
}

func TestParseHTMLLabels(t *testing.T) {
	path := writeDoc(t,
		`<div class="tags">Labels: Inbox, Starred</div>`+
			messageBlock("+15550002", "Alice", "2021-01-01T13:00:00.000-05:00", "hi"))

	thread, err := ParseHTML(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Inbox", "Starred"}, thread.Labels)
}

func TestParseHTMLMissingContent(t *testing.T) {
	path := writeDoc(t,
		`<div class="message"><cite class="sender"><a class="tel" href="tel:+15550002"><span class="fn">Alice</span></a></cite></div>`)

	thread, err := ParseHTML(path)
	require.NoError(t, err)
	require.Equal(t, 1, thread.MessageCount())
	assert.Equal(t, "", thread.Messages[0].Content)
}

func TestParseHTMLUnreadableFile(t *testing.T) {
	_, err := ParseHTML(filepath.Join(t.TempDir(), "missing.html"))
	require.Error(t, err)
}
