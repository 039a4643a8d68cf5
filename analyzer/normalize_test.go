package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"lowercases and keeps terminators", "Hello,   WORLD!!  How's it going?", "hello, world!! hows it going?"},
		{"collapses all whitespace kinds", "  Tab\tand\nnewline  ", "tab and newline"},
		{"strips symbols after collapsing", "a - b", "a  b"},
		{"keeps digits", "Order #4521 costs $10.50", "order 4521 costs 10.50"},
		{"folds compatibility characters", "ＨＥＬＬＯ", "hello"},
		{"only punctuation", "--- ### ---", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	in := "My ORDER is late!!! Why?? (again)"
	once := Normalize(in)
	assert.Equal(t, once, Normalize(once))
}

func TestTokensTrimTerminators(t *testing.T) {
	got := tokens("i am angry! really, angry. ok?")
	assert.Equal(t, []string{"i", "am", "angry", "really", "angry", "ok"}, got)
	assert.Empty(t, tokens(""))
	assert.Empty(t, tokens("!! ??"))
	assert.Equal(t, []string{"angry", "furious", "ok"}, tokens("...angry ,furious !ok!"))
}
