package cmd

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maastricht-university/callsense/analyzer"
	"github.com/maastricht-university/callsense/config"
	"github.com/maastricht-university/callsense/store"
)

const transcript = "Thank you for calling, how may I help you? My bill is wrong!! " +
	"I apologize for the inconvenience, let me check your account number."

func testDeps(t *testing.T) (*Deps, *config.Root) {
	t.Helper()
	dir := t.TempDir()
	c := &config.Root{
		Pipeline: config.Pipeline{Name: "callsense", LogLvl: "warn", LogFormat: "text"},
		HTTP:     config.HTTP{TimeoutSeconds: 5},
		Analyzer: config.Analyzer{TrendWindow: 3},
		Paths: config.Paths{
			Outputs:  filepath.Join(dir, "outputs"),
			Database: filepath.Join(dir, "calls.db"),
		},
	}
	return &Deps{
		LoadConfig: func(string) (*config.Root, error) {
			cp := *c
			return &cp, nil
		},
		OpenStore: store.Open,
		Clock:     func() time.Time { return time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC) },
	}, c
}

func execute(t *testing.T, deps *Deps, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCommand(deps)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func findSubcommand(root *cobra.Command, name string) *cobra.Command {
	for _, c := range root.Commands() {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

func TestRootCommandTree(t *testing.T) {
	root := NewRootCommand(nil)
	assert.Equal(t, "callsense", root.Use)
	for _, name := range []string{"analyze", "transcribe", "stats", "lexicon"} {
		assert.NotNil(t, findSubcommand(root, name), name)
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
	assert.NotNil(t, root.PersistentFlags().Lookup("log-level"))

	analyze := findSubcommand(root, "analyze")
	for _, flag := range []string{"format", "save", "out", "employee", "direction", "length"} {
		assert.NotNil(t, analyze.Flags().Lookup(flag), flag)
	}
}

func TestAnalyzeTable(t *testing.T) {
	deps, _ := testDeps(t)
	out, _, err := execute(t, deps, transcript, "analyze")
	require.NoError(t, err)

	assert.Contains(t, out, "SPEAKER")
	assert.Contains(t, out, "employee")
	assert.Contains(t, out, "customer")
	assert.Contains(t, out, "Customer satisfaction:")
	assert.Contains(t, out, "Offensive language:")
}

func TestAnalyzeJSONFromFile(t *testing.T) {
	deps, _ := testDeps(t)
	path := filepath.Join(t.TempDir(), "call.txt")
	require.NoError(t, os.WriteFile(path, []byte(transcript), 0o644))

	out, _, err := execute(t, deps, "", "analyze", path, "--format", "json", "--employee", "dana")
	require.NoError(t, err)

	var rep struct {
		CallID   string                     `json:"call_id"`
		Employee string                     `json:"employee"`
		Records  []analyzer.UtteranceRecord `json:"records"`
		Insights map[string]json.RawMessage `json:"insights"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.NotEmpty(t, rep.CallID)
	assert.Equal(t, "dana", rep.Employee)
	require.Len(t, rep.Records, 3)
	assert.Equal(t, analyzer.SpeakerEmployee, rep.Records[0].Speaker)
	assert.Equal(t, analyzer.SpeakerCustomer, rep.Records[1].Speaker)
	assert.Contains(t, rep.Insights, "conversation_metrics")
}

func TestAnalyzeCSV(t *testing.T) {
	deps, _ := testDeps(t)
	out, _, err := execute(t, deps, transcript, "analyze", "-", "--format", "csv")
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "utterance_id", rows[0][0])
	assert.Equal(t, "My bill is wrong!!", rows[2][3])
}

func TestAnalyzeRejectsBadFlags(t *testing.T) {
	deps, _ := testDeps(t)

	_, _, err := execute(t, deps, transcript, "analyze", "--format", "xml")
	assert.ErrorContains(t, err, "invalid format")

	_, _, err = execute(t, deps, transcript, "analyze", "--direction", "sideways")
	assert.ErrorContains(t, err, "invalid direction")

	_, _, err = execute(t, deps, transcript, "analyze", "--length", "-1")
	assert.Error(t, err)

	_, _, err = execute(t, deps, transcript, "analyze", "--log-level", "loud")
	assert.Error(t, err)

	_, _, err = execute(t, deps, transcript, "analyze", "a.txt", "b.txt")
	assert.Error(t, err)
}

func TestAnalyzeEmptyInput(t *testing.T) {
	deps, _ := testDeps(t)
	_, _, err := execute(t, deps, "   \n", "analyze")
	assert.ErrorIs(t, err, analyzer.ErrInvalidInput)
}

func TestAnalyzeOutWritesSession(t *testing.T) {
	deps, c := testDeps(t)
	out, _, err := execute(t, deps, transcript, "analyze", "--out")
	require.NoError(t, err)
	assert.Contains(t, out, "Session:")

	entries, err := os.ReadDir(c.Paths.Outputs)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "session_20261017-090000_"))
	for _, f := range []string{"records.json", "records.csv", "insights.json"} {
		assert.FileExists(t, filepath.Join(c.Paths.Outputs, entries[0].Name(), f))
	}
}

func TestSaveThenStats(t *testing.T) {
	deps, _ := testDeps(t)
	_, _, err := execute(t, deps, transcript, "analyze", "--save", "--employee", "dana", "--length", "1800")
	require.NoError(t, err)
	_, _, err = execute(t, deps, transcript, "analyze", "--save", "--employee", "dana",
		"--direction", "outgoing", "--length", "1800")
	require.NoError(t, err)

	// Clock is one day later, so both calls fall inside the past week.
	deps.Clock = func() time.Time { return time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC) }
	out, _, err := execute(t, deps, "", "stats", "--format", "json", "--employees")
	require.NoError(t, err)

	var res StatsResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 2, res.TotalCalls)
	assert.InDelta(t, 1.0, res.TotalHours, 1e-9)
	assert.True(t, res.AverageSatisfaction.Valid)
	require.Len(t, res.Week, 7)
	assert.Equal(t, "2026-10-17", res.Week[6].Date)
	assert.Equal(t, 2, res.Week[6].TotalCalls)
	require.Len(t, res.Employees, 1)
	assert.Equal(t, 1, res.Employees[0].Outgoing)

	out, _, err = execute(t, deps, "", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Total calls:")
	assert.Contains(t, out, "2026-10-17")
}

func TestSaveWithoutDatabase(t *testing.T) {
	deps, c := testDeps(t)
	c.Paths.Database = ""
	_, _, err := execute(t, deps, transcript, "analyze", "--save")
	assert.ErrorContains(t, err, "paths.database")

	_, _, err = execute(t, deps, "", "stats")
	assert.ErrorContains(t, err, "paths.database")
}

func TestTranscribeNeedsASR(t *testing.T) {
	deps, _ := testDeps(t)
	_, _, err := execute(t, deps, "", "transcribe")
	assert.Error(t, err)

	_, _, err = execute(t, deps, "", "transcribe", "call.wav")
	assert.ErrorContains(t, err, "services.asr.url")
}

func TestLexiconDefaults(t *testing.T) {
	deps, _ := testDeps(t)
	out, _, err := execute(t, deps, "", "lexicon", "--defaults")
	require.NoError(t, err)

	lex, err := analyzer.LoadLexicons(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, analyzer.DefaultLexicons().Employee().Categories(), lex.Employee().Categories())
	assert.Contains(t, out, "thank you for calling")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ééé...", truncate("éééééééé", 6))
}
