package analyzer

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id int, sp Speaker, compound float64, words int) UtteranceRecord {
	return UtteranceRecord{
		ID:        id,
		Speaker:   sp,
		WordCount: words,
		Sentiment: Sentiment{Compound: compound, Neutral: 1},
	}
}

func TestSummarizeMetrics(t *testing.T) {
	recs := []UtteranceRecord{
		rec(1, SpeakerEmployee, 0.5, 4),
		rec(2, SpeakerCustomer, -0.5, 6),
		rec(3, SpeakerCustomer, 0.0, 2),
	}
	recs[1].Emotions = Emotions{Anger: 2, Urgency: 1}
	recs[1].Intensity = Intensity{Exclamations: 3, Questions: 1, CapsRatio: 0.3}
	recs[2].Intensity = Intensity{Questions: 2}

	ins := Summarize(recs)

	c := ins.Conversation
	assert.Equal(t, 3, c.TotalUtterances)
	assert.Equal(t, map[Speaker]int{SpeakerEmployee: 1, SpeakerCustomer: 2}, c.SpeakerDistribution)
	assert.InDelta(t, 0.0, c.AvgSentiment.Value, 1e-12)
	assert.InDelta(t, math.Sqrt(0.5/3), c.SentimentStdDev.Value, 1e-12)
	assert.InDelta(t, 4.0, c.AvgWordCount.Value, 1e-12)

	assert.InDelta(t, 2.0/3, ins.Emotion.AvgAnger.Value, 1e-12)
	assert.InDelta(t, 1.0/3, ins.Emotion.AvgUrgency.Value, 1e-12)
	assert.Equal(t, Defined(0), ins.Emotion.AvgSatisfaction)

	assert.Equal(t, 3, ins.Intensity.TotalExclamations)
	assert.Equal(t, 3, ins.Intensity.TotalQuestions)
	assert.InDelta(t, 0.1, ins.Intensity.AvgCapsRatio.Value, 1e-12)

	assert.Equal(t, 1, ins.Speakers.Employee.Utterances)
	assert.Equal(t, Defined(0.5), ins.Speakers.Employee.AvgSentiment)
	assert.InDelta(t, -0.25, ins.Speakers.Customer.AvgSentiment.Value, 1e-12)
	assert.InDelta(t, 4.0, ins.Speakers.Customer.AvgWordCount.Value, 1e-12)

	assert.NoError(t, ins.Err())
}

func TestSummarizeMissingSpeakerIsUndefined(t *testing.T) {
	ins := Summarize([]UtteranceRecord{
		rec(1, SpeakerCustomer, 0.0, 3),
		rec(2, SpeakerCustomer, 0.2, 5),
	})

	assert.False(t, ins.Speakers.Employee.AvgSentiment.Valid)
	assert.False(t, ins.Speakers.Employee.AvgWordCount.Valid)
	// a real zero stays distinguishable from "no data"
	assert.Equal(t, Defined(0.1), roundStat(ins.Speakers.Customer.AvgSentiment))

	err := ins.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDegenerateAggregate))
	var de *DegenerateError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, []string{
		"speaker_metrics.employee.avg_sentiment",
		"speaker_metrics.employee.avg_word_count",
	}, de.Undefined)
}

func TestSummarizeSingleUtterance(t *testing.T) {
	ins := Summarize([]UtteranceRecord{rec(1, SpeakerEmployee, 0.4, 3)})
	assert.Equal(t, Defined(0.4), ins.Conversation.AvgSentiment)
	assert.False(t, ins.Conversation.SentimentStdDev.Valid)

	var de *DegenerateError
	require.ErrorAs(t, ins.Err(), &de)
	assert.Contains(t, de.Undefined, "conversation_metrics.sentiment_std")
}

func TestSummarizeEmpty(t *testing.T) {
	ins := Summarize(nil)
	assert.Equal(t, 0, ins.Conversation.TotalUtterances)
	assert.Equal(t, map[Speaker]int{SpeakerEmployee: 0, SpeakerCustomer: 0}, ins.Conversation.SpeakerDistribution)
	assert.False(t, ins.Conversation.AvgSentiment.Valid)
	assert.False(t, ins.Intensity.AvgCapsRatio.Valid)

	var de *DegenerateError
	require.ErrorAs(t, ins.Err(), &de)
	assert.Len(t, de.Undefined, 12)
}

func TestInsightsJSONUsesNullForUndefined(t *testing.T) {
	ins := Summarize([]UtteranceRecord{rec(1, SpeakerCustomer, 0, 2)})
	b, err := json.Marshal(ins)
	require.NoError(t, err)

	var doc map[string]map[string]any
	require.NoError(t, json.Unmarshal(b, &doc))
	require.Contains(t, doc, "conversation_metrics")
	require.Contains(t, doc, "emotion_metrics")
	require.Contains(t, doc, "intensity_metrics")
	require.Contains(t, doc, "speaker_metrics")

	emp := doc["speaker_metrics"]["employee"].(map[string]any)
	assert.Nil(t, emp["avg_sentiment"])
	cust := doc["speaker_metrics"]["customer"].(map[string]any)
	assert.Equal(t, 0.0, cust["avg_sentiment"])
	assert.Nil(t, doc["conversation_metrics"]["sentiment_std"])

	var back ConversationInsights
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, ins, back)
}

func TestSentimentLabel(t *testing.T) {
	assert.Equal(t, "positive", SentimentLabel(Defined(0.05)))
	assert.Equal(t, "negative", SentimentLabel(Defined(-0.3)))
	assert.Equal(t, "neutral", SentimentLabel(Defined(0.01)))
	assert.Equal(t, "neutral", SentimentLabel(Stat{}))
}

func TestSatisfactionScore(t *testing.T) {
	ins := Summarize([]UtteranceRecord{rec(1, SpeakerCustomer, 0.5, 2)})
	assert.Equal(t, Defined(75), SatisfactionScore(ins))

	ins = Summarize([]UtteranceRecord{rec(1, SpeakerEmployee, 0.5, 2)})
	assert.False(t, SatisfactionScore(ins).Valid)
}

func TestSentimentTrend(t *testing.T) {
	recs := []UtteranceRecord{
		rec(1, SpeakerEmployee, 1, 1),
		rec(2, SpeakerCustomer, 0, 1),
		rec(3, SpeakerCustomer, -1, 1),
		rec(4, SpeakerEmployee, 0.5, 1),
	}
	got := SentimentTrend(recs, 2)
	require.Len(t, got, 4)
	want := []float64{1, 0.5, -0.5, -0.25}
	for i, p := range got {
		assert.Equal(t, recs[i].ID, p.UtteranceID)
		assert.Equal(t, recs[i].Speaker, p.Speaker)
		assert.InDelta(t, want[i], p.Smoothed, 1e-12)
	}

	raw := SentimentTrend(recs, 0)
	assert.Equal(t, -1.0, raw[2].Smoothed)
	assert.Empty(t, SentimentTrend(nil, 3))
}

func TestStatString(t *testing.T) {
	assert.Equal(t, "n/a", Stat{}.String())
	assert.Equal(t, "0.2500", Defined(0.25).String())
}

func roundStat(s Stat) Stat {
	s.Value = math.Round(s.Value*1e9) / 1e9
	return s
}
