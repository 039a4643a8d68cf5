package analyzer

import "sort"

type ConversationMetrics struct {
	TotalUtterances     int             `json:"total_utterances"`
	SpeakerDistribution map[Speaker]int `json:"speaker_distribution"`
	AvgSentiment        Stat            `json:"avg_sentiment"`
	SentimentStdDev     Stat            `json:"sentiment_std"`
	AvgWordCount        Stat            `json:"avg_word_count"`
}

type EmotionMetrics struct {
	AvgAnger        Stat `json:"avg_anger"`
	AvgFrustration  Stat `json:"avg_frustration"`
	AvgSatisfaction Stat `json:"avg_satisfaction"`
	AvgUrgency      Stat `json:"avg_urgency"`
}

type IntensityMetrics struct {
	TotalExclamations int  `json:"total_exclamations"`
	TotalQuestions    int  `json:"total_questions"`
	AvgCapsRatio      Stat `json:"avg_caps_ratio"`
}

type SpeakerBreakdown struct {
	Utterances   int  `json:"utterances"`
	AvgSentiment Stat `json:"avg_sentiment"`
	AvgWordCount Stat `json:"avg_word_count"`
}

type SpeakerMetrics struct {
	Employee SpeakerBreakdown `json:"employee"`
	Customer SpeakerBreakdown `json:"customer"`
}

// ConversationInsights is derived from a record sequence by Summarize.
type ConversationInsights struct {
	Conversation ConversationMetrics `json:"conversation_metrics"`
	Emotion      EmotionMetrics      `json:"emotion_metrics"`
	Intensity    IntensityMetrics    `json:"intensity_metrics"`
	Speakers     SpeakerMetrics      `json:"speaker_metrics"`
}

// Summarize reduces records to conversation insights. It never fails:
// statistics without enough data are left undefined, see Err.
func Summarize(records []UtteranceRecord) ConversationInsights {
	n := len(records)
	compound := make([]float64, 0, n)
	words := make([]float64, 0, n)
	caps := make([]float64, 0, n)
	anger := make([]float64, 0, n)
	frustration := make([]float64, 0, n)
	satisfaction := make([]float64, 0, n)
	urgency := make([]float64, 0, n)
	bySpeaker := map[Speaker]*struct{ compound, words []float64 }{
		SpeakerEmployee: {},
		SpeakerCustomer: {},
	}

	var ins ConversationInsights
	ins.Conversation.TotalUtterances = n
	ins.Conversation.SpeakerDistribution = map[Speaker]int{
		SpeakerEmployee: 0,
		SpeakerCustomer: 0,
	}
	for _, r := range records {
		compound = append(compound, r.Sentiment.Compound)
		words = append(words, float64(r.WordCount))
		caps = append(caps, r.Intensity.CapsRatio)
		anger = append(anger, float64(r.Emotions.Anger))
		frustration = append(frustration, float64(r.Emotions.Frustration))
		satisfaction = append(satisfaction, float64(r.Emotions.Satisfaction))
		urgency = append(urgency, float64(r.Emotions.Urgency))

		ins.Conversation.SpeakerDistribution[r.Speaker]++
		ins.Intensity.TotalExclamations += r.Intensity.Exclamations
		ins.Intensity.TotalQuestions += r.Intensity.Questions

		if s, ok := bySpeaker[r.Speaker]; ok {
			s.compound = append(s.compound, r.Sentiment.Compound)
			s.words = append(s.words, float64(r.WordCount))
		}
	}

	ins.Conversation.AvgSentiment = mean(compound)
	ins.Conversation.SentimentStdDev = popStdDev(compound)
	ins.Conversation.AvgWordCount = mean(words)
	ins.Emotion = EmotionMetrics{
		AvgAnger:        mean(anger),
		AvgFrustration:  mean(frustration),
		AvgSatisfaction: mean(satisfaction),
		AvgUrgency:      mean(urgency),
	}
	ins.Intensity.AvgCapsRatio = mean(caps)

	breakdown := func(sp Speaker) SpeakerBreakdown {
		s := bySpeaker[sp]
		return SpeakerBreakdown{
			Utterances:   len(s.compound),
			AvgSentiment: mean(s.compound),
			AvgWordCount: mean(s.words),
		}
	}
	ins.Speakers = SpeakerMetrics{
		Employee: breakdown(SpeakerEmployee),
		Customer: breakdown(SpeakerCustomer),
	}
	return ins
}

// Err reports every undefined statistic as a *DegenerateError, or nil when
// all of them are defined.
func (ci ConversationInsights) Err() error {
	stats := map[string]Stat{
		"conversation_metrics.avg_sentiment":      ci.Conversation.AvgSentiment,
		"conversation_metrics.sentiment_std":      ci.Conversation.SentimentStdDev,
		"conversation_metrics.avg_word_count":     ci.Conversation.AvgWordCount,
		"emotion_metrics.avg_anger":               ci.Emotion.AvgAnger,
		"emotion_metrics.avg_frustration":         ci.Emotion.AvgFrustration,
		"emotion_metrics.avg_satisfaction":        ci.Emotion.AvgSatisfaction,
		"emotion_metrics.avg_urgency":             ci.Emotion.AvgUrgency,
		"intensity_metrics.avg_caps_ratio":        ci.Intensity.AvgCapsRatio,
		"speaker_metrics.employee.avg_sentiment":  ci.Speakers.Employee.AvgSentiment,
		"speaker_metrics.employee.avg_word_count": ci.Speakers.Employee.AvgWordCount,
		"speaker_metrics.customer.avg_sentiment":  ci.Speakers.Customer.AvgSentiment,
		"speaker_metrics.customer.avg_word_count": ci.Speakers.Customer.AvgWordCount,
	}
	var undefined []string
	for path, s := range stats {
		if !s.Valid {
			undefined = append(undefined, path)
		}
	}
	if len(undefined) == 0 {
		return nil
	}
	sort.Strings(undefined)
	return &DegenerateError{Undefined: undefined}
}

// VADER's conventional cut-offs for a neutral compound score.
const (
	positiveThreshold = 0.05
	negativeThreshold = -0.05
)

// SentimentLabel buckets a compound score into positive, negative or
// neutral. An undefined score is neutral.
func SentimentLabel(compound Stat) string {
	switch {
	case !compound.Valid:
		return "neutral"
	case compound.Value >= positiveThreshold:
		return "positive"
	case compound.Value <= negativeThreshold:
		return "negative"
	}
	return "neutral"
}

// SatisfactionScore maps the customer's average compound sentiment onto
// 0..100. Undefined when the customer never spoke.
func SatisfactionScore(ci ConversationInsights) Stat {
	c := ci.Speakers.Customer.AvgSentiment
	if !c.Valid {
		return Stat{}
	}
	return Defined((c.Value + 1) * 50)
}

type TrendPoint struct {
	UtteranceID int     `json:"utterance_id"`
	Speaker     Speaker `json:"speaker"`
	Compound    float64 `json:"compound"`
	Smoothed    float64 `json:"smoothed"`
}

// SentimentTrend pairs every record's compound score with the trailing
// moving average over the last window records.
func SentimentTrend(records []UtteranceRecord, window int) []TrendPoint {
	if window < 1 {
		window = 1
	}
	out := make([]TrendPoint, 0, len(records))
	var sum float64
	for i, r := range records {
		sum += r.Sentiment.Compound
		if i >= window {
			sum -= records[i-window].Sentiment.Compound
		}
		size := min(i+1, window)
		out = append(out, TrendPoint{
			UtteranceID: r.ID,
			Speaker:     r.Speaker,
			Compound:    r.Sentiment.Compound,
			Smoothed:    sum / float64(size),
		})
	}
	return out
}
