package analyzer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonreiter/govader"
)

// Sentiment is the VADER polarity quad. Positive, Negative and Neutral sum
// to 1 for any utterance with at least one word.
type Sentiment struct {
	Compound float64 `json:"compound"`
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
}

type Intensity struct {
	Exclamations int     `json:"exclamation_count"`
	Questions    int     `json:"question_count"`
	CapsRatio    float64 `json:"caps_ratio"`
}

type Emotions struct {
	Anger        int `json:"anger"`
	Frustration  int `json:"frustration"`
	Satisfaction int `json:"satisfaction"`
	Urgency      int `json:"urgency"`
}

// Score is everything the scorer derives from one utterance.
type Score struct {
	Sentiment Sentiment `json:"basic_sentiment"`
	Intensity Intensity `json:"intensity_metrics"`
	Emotions  Emotions  `json:"emotion_scores"`
	Offensive int       `json:"offensive_count"`
}

// Scorer computes sentiment, intensity and emotion signals. It only reads
// its analyzer and lexicons, so one Scorer can serve many goroutines.
type Scorer struct {
	lex   *Lexicons
	vader *govader.SentimentIntensityAnalyzer
}

func NewScorer(lex *Lexicons) *Scorer {
	if lex == nil {
		lex = DefaultLexicons()
	}
	return &Scorer{lex: lex, vader: govader.NewSentimentIntensityAnalyzer()}
}

func (s *Scorer) Score(utterance string) Score {
	pol := s.vader.PolarityScores(utterance)
	toks := tokens(Normalize(utterance))

	return Score{
		Sentiment: Sentiment{
			Compound: pol.Compound,
			Positive: pol.Positive,
			Negative: pol.Negative,
			Neutral:  pol.Neutral,
		},
		Intensity: Intensity{
			Exclamations: strings.Count(utterance, "!"),
			Questions:    strings.Count(utterance, "?"),
			CapsRatio:    CapsRatio(utterance),
		},
		Emotions: Emotions{
			Anger:        s.lex.anger.count(toks),
			Frustration:  s.lex.frustration.count(toks),
			Satisfaction: s.lex.satisfaction.count(toks),
			Urgency:      s.lex.urgency.count(toks),
		},
		Offensive: s.lex.offensive.count(toks),
	}
}

// CapsRatio is the share of upper-case runes in text, 0 for "".
func CapsRatio(text string) float64 {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	upper := 0
	for _, r := range text {
		if unicode.IsUpper(r) {
			upper++
		}
	}
	return float64(upper) / float64(n)
}
