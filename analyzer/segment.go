package analyzer

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// terminator, whitespace, capital: the split point of run-on sentences
// that the tokenizer kept together.
var reRunOn = regexp.MustCompile(`[.!?]\s+[A-Z]`)

// Segmenter splits a transcript into utterances. Tokenization is read-only
// after construction, so a Segmenter may be shared.
type Segmenter struct {
	tok *sentences.DefaultSentenceTokenizer
}

func NewSegmenter() (*Segmenter, error) {
	tok, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("load sentence tokenizer: %w", err)
	}
	return &Segmenter{tok: tok}, nil
}

// Segment returns the non-empty, trimmed utterances in transcript order.
func (s *Segmenter) Segment(transcript string) []string {
	var out []string
	for _, sent := range s.tok.Tokenize(transcript) {
		for _, part := range splitRunOn(sent.Text, s.tok.IsAbbr) {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// splitRunOn cuts text after every run-on terminator, except a period that
// closes a known abbreviation ("Mr. Smith").
func splitRunOn(text string, isAbbr func(...string) bool) []string {
	locs := reRunOn.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return []string{text}
	}
	parts := make([]string, 0, len(locs)+1)
	start := 0
	for _, loc := range locs {
		if text[loc[0]] == '.' && isAbbr != nil && isAbbr(wordBefore(text, loc[0])) {
			continue
		}
		// loc[0] is the terminator, loc[1]-1 the capital letter.
		parts = append(parts, text[start:loc[0]+1])
		start = loc[1] - 1
	}
	return append(parts, text[start:])
}

// wordBefore returns the lowercased word ending at end, without leading
// punctuation, in the form the abbreviation table uses.
func wordBefore(text string, end int) string {
	i := strings.LastIndexFunc(text[:end], unicode.IsSpace) + 1
	return strings.ToLower(strings.TrimLeftFunc(text[i:end], func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}))
}
