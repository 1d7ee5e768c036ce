package parse

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chatgraph/chatgraph/internal/chat"
)

// hcard selectors used by the structured-markup export format.
const (
	messageSelector  = ".message"
	datetimeSelector = ".dt"
	senderSelector   = ".sender"
	contentSelector  = "q"
	tagsSelector     = ".tags"
	phoneSelector    = "a.tel"
	nameSelector     = "span.fn, abbr.fn"
)

// htmlTimeLayout matches the .dt title attribute: millisecond precision
// with a colon-separated zone offset.
const htmlTimeLayout = "2006-01-02T15:04:05.000-07:00"

var epochZero = time.Unix(0, 0).UTC()

// ParseHTML parses one structured-markup export document into a Thread.
// A document with no message blocks yields an empty thread, not an error.
// An unreadable file or a message block with no sender element is fatal
// for the document.
func ParseHTML(path string) (*chat.Thread, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	blocks := doc.Find(messageSelector)

	participants, self, err := resolveParticipants(blocks)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	thread := &chat.Thread{
		Participants: participants,
		Labels:       extractLabels(doc),
	}

	blocks.Each(func(_ int, block *goquery.Selection) {
		ts := epochZero
		if title, ok := block.Find(datetimeSelector).First().Attr("title"); ok {
			if t, perr := time.Parse(htmlTimeLayout, title); perr == nil {
				ts = t.UTC()
			}
		}

		from := self
		if p, ok := findByPhone(participants, senderPhone(block.Find(senderSelector))); ok {
			from = p
		}

		thread.Messages = append(thread.Messages, chat.Message{
			From:      from,
			To:        recipients(from, self, participants),
			Timestamp: ts,
			Content:   block.Find(contentSelector).First().Text(),
		})
	})

	return thread, nil
}

// resolveParticipants makes a full pass over every message block before any
// Message is built. Recipient inference needs the complete participant set
// and the resolved self identity, and a later block may still establish who
// self is, so a single pass cannot work.
func resolveParticipants(blocks *goquery.Selection) ([]chat.Participant, chat.Participant, error) {
	var (
		participants []chat.Participant
		byPhone      = make(map[string]int)
		self         chat.Participant
		selfFound    bool
		err          error
	)

	blocks.EachWithBreak(func(i int, block *goquery.Selection) bool {
		sender := block.Find(senderSelector)
		if sender.Length() == 0 {
			err = fmt.Errorf("message block %d has no sender block", i)
			return false
		}

		p := chat.Participant{
			Name:  sender.Find(nameSelector).First().Text(),
			Phone: senderPhone(sender),
		}

		if idx, ok := byPhone[p.Phone]; ok {
			participants[idx].Name = p.Name
		} else {
			byPhone[p.Phone] = len(participants)
			participants = append(participants, p)
		}

		if p.Name == chat.SelfName {
			self = p
			selfFound = true
		}
		return true
	})
	if err != nil {
		return nil, chat.Participant{}, err
	}

	if !selfFound {
		self = chat.Self()
	}
	return participants, self, nil
}

// recipients computes who a message is addressed to. A message from self
// goes to every other participant; anything inbound is addressed to self
// only, regardless of how many participants the thread has.
func recipients(from, self chat.Participant, participants []chat.Participant) []chat.Participant {
	if from.Phone != self.Phone {
		return []chat.Participant{self}
	}
	var to []chat.Participant
	for _, p := range participants {
		if p.Phone != self.Phone {
			to = append(to, p)
		}
	}
	return to
}

// senderPhone pulls the phone number out of a sender block's tel: link.
// A missing link, or an href without the tel: scheme, falls back to the
// Unknown sentinel.
func senderPhone(sender *goquery.Selection) string {
	href, ok := sender.Find(phoneSelector).First().Attr("href")
	if !ok {
		return chat.UnknownPhone
	}
	phone, ok := strings.CutPrefix(href, "tel:")
	if !ok {
		return chat.UnknownPhone
	}
	return phone
}

func findByPhone(participants []chat.Participant, phone string) (chat.Participant, bool) {
	for _, p := range participants {
		if p.Phone == phone {
			return p, true
		}
	}
	return chat.Participant{}, false
}

func extractLabels(doc *goquery.Document) []string {
	tags := doc.Find(tagsSelector).First()
	if tags.Length() == 0 {
		return nil
	}
	return SplitLabels(tags.Text())
}
