package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLabels(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"basic", "Labels: Inbox, Starred", []string{"Inbox", "Starred"}},
		{"no colon", "just some text", nil},
		{"empty tail", "Labels:", nil},
		{"trims and drops empties", "Labels:  a , , b ,", []string{"a", "b"}},
		{"dedupes", "Labels: a, a, b", []string{"a", "b"}},
		{"only first segment after colon", "Labels: a:ignored, also ignored", []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLabels(tt.in))
		})
	}
}
