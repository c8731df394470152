package cli

import (
	"strings"
	"testing"
)

func TestSplitLine(t *testing.T) {
	tests := []struct {
		text    string
		words   string
		partial string
	}{
		{"", "", ""},
		{"show", "", "show"},
		{"show ", "show", ""},
		{"show ent", "show", "ent"},
		{"  show   ent", "show", "ent"},
		{"show entity policy-statement EX", "show|entity|policy-statement", "EX"},
	}
	for _, tt := range tests {
		words, partial := splitLine(tt.text)
		if strings.Join(words, "|") != tt.words || partial != tt.partial {
			t.Errorf("splitLine(%q) = %v, %q; want %q, %q",
				tt.text, words, partial, tt.words, tt.partial)
		}
	}
}
