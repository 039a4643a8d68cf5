// Package analyzer turns a plain-text call transcript into per-utterance
// speaker and sentiment records and conversation-level insights.
//
// Everything here is deterministic and free of I/O. The only shared state is
// the read-only Lexicons value, so an Analyzer may be used from any number
// of goroutines.
package analyzer

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

// UtteranceRecord is the analysis of one utterance. IDs start at 1 and
// follow transcript order.
type UtteranceRecord struct {
	ID             int       `json:"utterance_id"`
	Speaker        Speaker   `json:"speaker"`
	Confidence     float64   `json:"confidence"`
	Text           string    `json:"text"`
	WordCount      int       `json:"word_count"`
	CharCount      int       `json:"char_count"`
	HasQuestion    bool      `json:"has_question"`
	HasExclamation bool      `json:"has_exclamation"`
	Sentiment      Sentiment `json:"sentiment"`
	Intensity      Intensity `json:"intensity"`
	Emotions       Emotions  `json:"emotions"`
	Offensive      int       `json:"offensive_count"`
}

type Option func(*Analyzer)

func WithLogger(log *logrus.Entry) Option {
	return func(a *Analyzer) { a.log = log }
}

type Analyzer struct {
	segmenter  *Segmenter
	classifier *Classifier
	scorer     *Scorer
	log        *logrus.Entry
}

// New builds an analyzer over lex; nil means DefaultLexicons.
func New(lex *Lexicons, opts ...Option) (*Analyzer, error) {
	if lex == nil {
		lex = DefaultLexicons()
	}
	seg, err := NewSegmenter()
	if err != nil {
		return nil, err
	}
	a := &Analyzer{
		segmenter:  seg,
		classifier: NewClassifier(lex),
		scorer:     NewScorer(lex),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		a.log = logrus.NewEntry(l)
	}
	a.log = a.log.WithField("component", "analyzer")
	return a, nil
}

// Analyze segments the transcript and classifies and scores every
// utterance. It fails with ErrInvalidInput for blank or non-UTF-8 input.
func (a *Analyzer) Analyze(transcript string) ([]UtteranceRecord, error) {
	if !utf8.ValidString(transcript) {
		return nil, fmt.Errorf("%w: transcript is not valid UTF-8 text", ErrInvalidInput)
	}
	if strings.TrimSpace(transcript) == "" {
		return nil, fmt.Errorf("%w: transcript is empty", ErrInvalidInput)
	}

	utts := a.segmenter.Segment(transcript)
	records := make([]UtteranceRecord, 0, len(utts))
	for i, u := range utts {
		cls := a.classifier.Classify(u)
		sc := a.scorer.Score(u)
		records = append(records, UtteranceRecord{
			ID:             i + 1,
			Speaker:        cls.Speaker,
			Confidence:     cls.Confidence,
			Text:           u,
			WordCount:      len(strings.Fields(u)),
			CharCount:      utf8.RuneCountInString(u),
			HasQuestion:    strings.Contains(u, "?"),
			HasExclamation: strings.Contains(u, "!"),
			Sentiment:      sc.Sentiment,
			Intensity:      sc.Intensity,
			Emotions:       sc.Emotions,
			Offensive:      sc.Offensive,
		})
		a.log.WithFields(logrus.Fields{
			"utterance_id": i + 1,
			"speaker":      cls.Speaker,
			"employee":     cls.EmployeeScore,
			"customer":     cls.CustomerScore,
		}).Trace("classified utterance")
	}
	a.log.WithField("utterances", len(records)).Debug("transcript analyzed")
	return records, nil
}

// Classify exposes the speaker classifier for single utterances.
func (a *Analyzer) Classify(utterance string) Classification {
	return a.classifier.Classify(utterance)
}

// Score exposes the scorer for single utterances.
func (a *Analyzer) Score(utterance string) Score {
	return a.scorer.Score(utterance)
}

// Segment exposes the segmenter.
func (a *Analyzer) Segment(transcript string) []string {
	return a.segmenter.Segment(transcript)
}
