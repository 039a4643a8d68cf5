package orchestrator

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/maastricht-university/callsense/analyzer"
)

type persistBundle struct {
	CallID         string                        `json:"call_id"`
	GeneratedAt    time.Time                     `json:"generated_at"`
	SentimentLabel string                        `json:"sentiment_label"`
	Satisfaction   analyzer.Stat                 `json:"satisfaction"`
	Offensive      bool                          `json:"offensive_content"`
	Insights       analyzer.ConversationInsights `json:"insights"`
	Trend          []analyzer.TrendPoint         `json:"sentiment_trend"`
}

func mkSessionDir(outputsRoot string, rep *Report) (string, error) {
	sid := "session_" + rep.GeneratedAt.Format("20060102-150405") + "_" + rep.CallID[:8]
	dir := filepath.Join(outputsRoot, sid)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// persist writes records.json, records.csv and insights.json into a fresh
// session directory and returns its path.
func persist(outputsRoot string, rep *Report) (string, error) {
	dir, err := mkSessionDir(outputsRoot, rep)
	if err != nil {
		return "", err
	}

	if err = writeJSON(filepath.Join(dir, "records.json"), rep.Records); err != nil {
		return "", err
	}

	f, err := os.Create(filepath.Join(dir, "records.csv"))
	if err != nil {
		return "", err
	}
	if err = WriteRecordsCSV(f, rep.Records); err != nil {
		f.Close()
		return "", err
	}
	if err = f.Close(); err != nil {
		return "", err
	}

	bundle := persistBundle{
		CallID:         rep.CallID,
		GeneratedAt:    rep.GeneratedAt,
		SentimentLabel: rep.SentimentLabel,
		Satisfaction:   rep.Satisfaction,
		Offensive:      rep.Offensive,
		Insights:       rep.Insights,
		Trend:          rep.Trend,
	}
	if err = writeJSON(filepath.Join(dir, "insights.json"), bundle); err != nil {
		return "", err
	}
	return dir, nil
}

var csvHeader = []string{
	"utterance_id", "speaker", "confidence", "text", "word_count", "char_count",
	"has_question", "has_exclamation",
	"compound", "positive", "negative", "neutral",
	"exclamation_count", "question_count", "caps_ratio",
	"anger", "frustration", "satisfaction", "urgency", "offensive_count",
}

// WriteRecordsCSV writes one row per utterance record, header first.
func WriteRecordsCSV(w io.Writer, records []analyzer.UtteranceRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	ff := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.ID),
			string(r.Speaker),
			ff(r.Confidence),
			r.Text,
			strconv.Itoa(r.WordCount),
			strconv.Itoa(r.CharCount),
			strconv.FormatBool(r.HasQuestion),
			strconv.FormatBool(r.HasExclamation),
			ff(r.Sentiment.Compound),
			ff(r.Sentiment.Positive),
			ff(r.Sentiment.Negative),
			ff(r.Sentiment.Neutral),
			strconv.Itoa(r.Intensity.Exclamations),
			strconv.Itoa(r.Intensity.Questions),
			ff(r.Intensity.CapsRatio),
			strconv.Itoa(r.Emotions.Anger),
			strconv.Itoa(r.Emotions.Frustration),
			strconv.Itoa(r.Emotions.Satisfaction),
			strconv.Itoa(r.Emotions.Urgency),
			strconv.Itoa(r.Offensive),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
