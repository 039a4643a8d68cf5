package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/maastricht-university/callsense/orchestrator"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatCSV   = "csv"
)

func checkFormat(f string) error {
	switch f {
	case formatTable, formatJSON, formatCSV:
		return nil
	}
	return fmt.Errorf("invalid format %q: use table, json or csv", f)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeReport(w io.Writer, rep *orchestrator.Report, format string) error {
	switch format {
	case formatJSON:
		return writeJSON(w, rep)
	case formatCSV:
		return orchestrator.WriteRecordsCSV(w, rep.Records)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSPEAKER\tCONF\tCOMPOUND\tEMOTIONS\tTEXT")
	fmt.Fprintln(tw, "--\t-------\t----\t--------\t--------\t----")
	for _, r := range rep.Records {
		e := r.Emotions
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%+.3f\t%d/%d/%d/%d\t%s\n",
			r.ID, r.Speaker, r.Confidence, r.Sentiment.Compound,
			e.Anger, e.Frustration, e.Satisfaction, e.Urgency, truncate(r.Text, 60))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	ci := rep.Insights
	conv := ci.Conversation
	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Call:\t%s\n", rep.CallID)
	fmt.Fprintf(tw, "Utterances:\t%d (employee %d, customer %d)\n",
		conv.TotalUtterances, ci.Speakers.Employee.Utterances, ci.Speakers.Customer.Utterances)
	fmt.Fprintf(tw, "Sentiment:\t%s (avg %s, std %s)\n", rep.SentimentLabel, conv.AvgSentiment, conv.SentimentStdDev)
	fmt.Fprintf(tw, "Customer satisfaction:\t%s\n", rep.Satisfaction)
	fmt.Fprintf(tw, "Employee avg sentiment:\t%s\n", ci.Speakers.Employee.AvgSentiment)
	fmt.Fprintf(tw, "Customer avg sentiment:\t%s\n", ci.Speakers.Customer.AvgSentiment)
	fmt.Fprintf(tw, "Emotions (avg):\tanger %s, frustration %s, satisfaction %s, urgency %s\n",
		ci.Emotion.AvgAnger, ci.Emotion.AvgFrustration, ci.Emotion.AvgSatisfaction, ci.Emotion.AvgUrgency)
	fmt.Fprintf(tw, "Intensity:\t%d exclamations, %d questions, caps %s\n",
		ci.Intensity.TotalExclamations, ci.Intensity.TotalQuestions, ci.Intensity.AvgCapsRatio)
	fmt.Fprintf(tw, "Offensive language:\t%t\n", rep.Offensive)
	if rep.SessionDir != "" {
		fmt.Fprintf(tw, "Session:\t%s\n", rep.SessionDir)
	}
	for _, c := range rep.Charts {
		fmt.Fprintf(tw, "Chart:\t%s\n", c)
	}
	return tw.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
