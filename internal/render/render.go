package render

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/chatgraph/chatgraph/internal/chat"
	"github.com/mattn/go-runewidth"
)

const (
	colorReset = "\033[0m"
	colorSelf  = "\033[1;34m" // bold blue
	colorPeer  = "\033[1;32m" // bold green
	colorDim   = "\033[2m"
)

type Options struct {
	Width int // wrap width (0 = no wrap)
}

// JSON renders a thread as pretty-printed JSON, including the derived
// message_count field.
func JSON(t *chat.Thread) (string, error) {
	out, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal thread: %w", err)
	}
	return string(out), nil
}

// Debug renders a thread as an indented field dump.
func Debug(t *chat.Thread) string {
	var b strings.Builder
	b.WriteString("Thread {\n")
	fmt.Fprintf(&b, "  labels: %v\n", t.Labels)
	fmt.Fprintf(&b, "  participants: %d\n", len(t.Participants))
	for _, p := range t.Participants {
		fmt.Fprintf(&b, "    %q <%s>\n", p.Name, p.Phone)
	}
	fmt.Fprintf(&b, "  messages: %d\n", t.MessageCount())
	for _, m := range t.Messages {
		var to []string
		for _, p := range m.To {
			to = append(to, p.Phone)
		}
		fmt.Fprintf(&b, "    [%s] %s -> %s: %q\n",
			m.Timestamp.Format("2006-01-02 15:04:05"),
			m.From.Phone, strings.Join(to, ","), m.Content)
	}
	b.WriteString("}\n")
	return b.String()
}

// Conversation renders a thread as a readable transcript, wrapped to the
// given width.
func Conversation(name string, t *chat.Thread, opts Options) string {
	var b strings.Builder
	wrapW := opts.Width

	writeLine := func(s string) {
		for _, wl := range wrapLine(s, wrapW) {
			b.WriteString(wl)
			b.WriteString("\n")
		}
	}

	header := fmt.Sprintf("%s--- %s ---%s", colorDim, name, colorReset)
	if len(t.Labels) > 0 {
		header = fmt.Sprintf("%s--- %s [%s] ---%s",
			colorDim, name, strings.Join(t.Labels, ", "), colorReset)
	}
	writeLine(header)

	if t.MessageCount() == 0 {
		writeLine("(empty thread)")
		return b.String()
	}

	separator := colorDim + "--------------------------------------------------" + colorReset
	for i, m := range t.Messages {
		if i > 0 {
			writeLine(separator)
		}

		who := m.From.Name
		if who == "" {
			who = m.From.Phone
		}
		roleColor := colorPeer
		if m.From.Name == chat.SelfName {
			roleColor = colorSelf
		}

		writeLine(fmt.Sprintf("%s%s >%s %s%s%s",
			roleColor, who, colorReset,
			colorDim, m.Timestamp.Format("2006-01-02 15:04:05"), colorReset))

		for _, tl := range strings.Split(indentLines(m.Content, "  "), "\n") {
			writeLine(tl)
		}
		writeLine("")
	}

	return b.String()
}

// indentLines prepends each line of text with the given prefix.
func indentLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// wrapLine breaks a single line into multiple lines that fit within
// maxWidth visible columns, correctly skipping ANSI escape sequences when
// measuring width.
func wrapLine(line string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{line}
	}

	var result []string
	var cur strings.Builder
	visW := 0

	i := 0
	for i < len(line) {
		// check for ANSI escape sequence: ESC[ ... m
		if i+1 < len(line) && line[i] == '\033' && line[i+1] == '[' {
			j := i + 2
			for j < len(line) && line[j] != 'm' {
				j++
			}
			if j < len(line) {
				j++ // include 'm'
			}
			cur.WriteString(line[i:j])
			i = j
			continue
		}

		r, size := utf8.DecodeRuneInString(line[i:])
		rw := runewidth.RuneWidth(r)

		if visW+rw > maxWidth {
			result = append(result, cur.String())
			cur.Reset()
			visW = 0
		}

		cur.WriteRune(r)
		visW += rw
		i += size
	}

	if cur.Len() > 0 {
		result = append(result, cur.String())
	}

	if len(result) == 0 {
		return []string{""}
	}
	return result
}
