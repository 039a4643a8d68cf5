package orchestrator

import (
	"github.com/maastricht-university/callsense/analyzer"
	"github.com/maastricht-university/callsense/clients"
	"github.com/maastricht-university/callsense/store"
)

func offensive(records []analyzer.UtteranceRecord) bool {
	for _, r := range records {
		if r.Offensive > 0 {
			return true
		}
	}
	return false
}

func timelineRequest(rep *Report, outDir string) clients.TimelineReq {
	req := clients.TimelineReq{
		CallID:       rep.CallID,
		UtteranceIDs: make([]int, 0, len(rep.Trend)),
		Compound:     make([]float64, 0, len(rep.Trend)),
		Smoothed:     make([]float64, 0, len(rep.Trend)),
		Speakers:     make([]string, 0, len(rep.Trend)),
		OutputDir:    outDir,
	}
	for _, pt := range rep.Trend {
		req.UtteranceIDs = append(req.UtteranceIDs, pt.UtteranceID)
		req.Compound = append(req.Compound, pt.Compound)
		req.Smoothed = append(req.Smoothed, pt.Smoothed)
		req.Speakers = append(req.Speakers, string(pt.Speaker))
	}
	return req
}

// radarRequest reports false when any emotion average is undefined; the
// chart has no way to draw a missing axis.
func radarRequest(rep *Report, outDir string) (clients.RadarReq, bool) {
	e := rep.Insights.Emotion
	avgs := []analyzer.Stat{e.AvgAnger, e.AvgFrustration, e.AvgSatisfaction, e.AvgUrgency}
	values := make([]float64, 0, len(avgs))
	for _, a := range avgs {
		if !a.Valid {
			return clients.RadarReq{}, false
		}
		values = append(values, a.Value)
	}
	return clients.RadarReq{
		CallID:     rep.CallID,
		Categories: []string{"anger", "frustration", "satisfaction", "urgency"},
		Values:     values,
		OutputDir:  outDir,
	}, true
}

func callFromReport(rep *Report) store.Call {
	return store.Call{
		ID:             rep.CallID,
		CreatedAt:      rep.GeneratedAt,
		Employee:       rep.Employee,
		Direction:      rep.Direction,
		LengthSeconds:  rep.LengthSeconds,
		Transcript:     rep.Transcript,
		SentimentLabel: rep.SentimentLabel,
		AvgSentiment:   rep.Insights.Conversation.AvgSentiment,
		Satisfaction:   rep.Satisfaction,
		Offensive:      rep.Offensive,
		Utterances:     len(rep.Records),
		Insights:       rep.Insights,
	}
}
