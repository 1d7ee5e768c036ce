package parse

import (
	"fmt"

	"github.com/chatgraph/chatgraph/internal/chat"
)

// Format identifies which export layout a document uses.
type Format string

const (
	FormatHTML    Format = "html"
	FormatTextLog Format = "textlog"
)

// ThreadParser turns one export document into a Thread.
type ThreadParser interface {
	Parse(path string) (*chat.Thread, error)
}

// ForFormat returns the parser for a classified document.
func ForFormat(f Format) (ThreadParser, error) {
	switch f {
	case FormatHTML:
		return htmlParser{}, nil
	case FormatTextLog:
		return textLogParser{}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s", f)
	}
}

type htmlParser struct{}

func (htmlParser) Parse(path string) (*chat.Thread, error) { return ParseHTML(path) }

type textLogParser struct{}

func (textLogParser) Parse(path string) (*chat.Thread, error) { return ParseTextLog(path) }
