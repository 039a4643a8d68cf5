package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreSentimentComponentsSumToOne(t *testing.T) {
	s := NewScorer(nil)
	for _, in := range []string{
		"Thank you so much, that was really helpful!",
		"This is terrible and I hate waiting.",
		"My account number is 4521.",
		"OK",
	} {
		got := s.Score(in).Sentiment
		assert.InDelta(t, 1.0, got.Positive+got.Negative+got.Neutral, 1e-9, in)
		assert.GreaterOrEqual(t, got.Compound, -1.0, in)
		assert.LessOrEqual(t, got.Compound, 1.0, in)
	}
}

func TestScoreSentimentPolarity(t *testing.T) {
	s := NewScorer(nil)
	assert.Greater(t, s.Score("I am very happy, thank you so much!").Sentiment.Compound, 0.0)
	assert.Less(t, s.Score("This is terrible and I hate it.").Sentiment.Compound, 0.0)
}

func TestScoreIntensity(t *testing.T) {
	s := NewScorer(nil)
	got := s.Score("WOW!! Really?").Intensity
	assert.Equal(t, 2, got.Exclamations)
	assert.Equal(t, 1, got.Questions)
	assert.InDelta(t, 4.0/13.0, got.CapsRatio, 1e-9)
}

func TestCapsRatio(t *testing.T) {
	assert.Equal(t, 0.0, CapsRatio(""))
	assert.Equal(t, 0.5, CapsRatio("ABcd"))
	assert.Equal(t, 1.0, CapsRatio("ÉÀ"))
	assert.Equal(t, 0.0, CapsRatio("123 !!"))
}

func TestScoreEmotions(t *testing.T) {
	s := NewScorer(nil)
	got := s.Score("I am so angry and frustrated, this is difficult! I need it ASAP, immediately.")
	assert.Equal(t, Emotions{Anger: 1, Frustration: 2, Satisfaction: 0, Urgency: 2}, got.Emotions)

	got = s.Score("Happy to hear it, I'm satisfied and pleased. Happy happy.")
	assert.Equal(t, 5, got.Emotions.Satisfaction)
	assert.Zero(t, got.Emotions.Anger)
}

func TestScoreOffensive(t *testing.T) {
	s := NewScorer(nil)
	assert.Equal(t, 2, s.Score("You stupid idiot!").Offensive)
	assert.Zero(t, s.Score("Thanks for your help.").Offensive)
}

func TestScoreEmpty(t *testing.T) {
	got := NewScorer(nil).Score("")
	assert.Equal(t, Intensity{}, got.Intensity)
	assert.Equal(t, Emotions{}, got.Emotions)
}
