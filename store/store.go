// Package store keeps analyzed calls in SQLite and answers the dashboard
// queries: call count, average satisfaction, hours on the phone and
// per-day stats for the past week.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/maastricht-university/callsense/analyzer"
)

var ErrNotFound = errors.New("call not found")

// Fixed width so stored timestamps compare correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const (
	DirectionIncoming = "incoming"
	DirectionOutgoing = "outgoing"
)

const createCallsTableSQL = `
CREATE TABLE IF NOT EXISTS calls (
	id TEXT PRIMARY KEY,
	created_at_utc TEXT NOT NULL,
	employee TEXT NOT NULL DEFAULT '',
	direction TEXT NOT NULL,
	length_seconds REAL NOT NULL,
	transcript TEXT NOT NULL,
	sentiment_label TEXT NOT NULL,
	avg_sentiment REAL,
	satisfaction REAL,
	offensive INTEGER NOT NULL,
	utterances INTEGER NOT NULL,
	insights_json TEXT NOT NULL
)`

var createCallsIndexesSQL = []string{
	`CREATE INDEX IF NOT EXISTS idx_calls_created_at ON calls(created_at_utc)`,
	`CREATE INDEX IF NOT EXISTS idx_calls_employee ON calls(employee)`,
}

const insertCallSQL = `
INSERT INTO calls (
	id,
	created_at_utc,
	employee,
	direction,
	length_seconds,
	transcript,
	sentiment_label,
	avg_sentiment,
	satisfaction,
	offensive,
	utterances,
	insights_json
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectCallSQL = `
SELECT id, created_at_utc, employee, direction, length_seconds, transcript,
	sentiment_label, avg_sentiment, satisfaction, offensive, utterances, insights_json
FROM calls WHERE id = ?`

// Call is one analyzed call as persisted.
type Call struct {
	ID             string
	CreatedAt      time.Time
	Employee       string
	Direction      string
	LengthSeconds  float64
	Transcript     string
	SentimentLabel string
	AvgSentiment   analyzer.Stat
	Satisfaction   analyzer.Stat
	Offensive      bool
	Utterances     int
	Insights       analyzer.ConversationInsights
}

type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("db path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	if _, err := db.Exec(createCallsTableSQL); err != nil {
		return fmt.Errorf("create calls table: %w", err)
	}
	for _, stmt := range createCallsIndexesSQL {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create calls index: %w", err)
		}
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) SaveCall(ctx context.Context, c Call) error {
	if c.ID == "" {
		return errors.New("call id is required")
	}
	switch c.Direction {
	case DirectionIncoming, DirectionOutgoing:
	default:
		return fmt.Errorf("unknown call direction %q", c.Direction)
	}
	insights, err := json.Marshal(c.Insights)
	if err != nil {
		return fmt.Errorf("encode insights: %w", err)
	}
	_, err = s.db.ExecContext(ctx, insertCallSQL,
		c.ID,
		c.CreatedAt.UTC().Format(timeLayout),
		c.Employee,
		c.Direction,
		c.LengthSeconds,
		c.Transcript,
		c.SentimentLabel,
		nullFloat(c.AvgSentiment),
		nullFloat(c.Satisfaction),
		boolToInt(c.Offensive),
		c.Utterances,
		string(insights),
	)
	if err != nil {
		return fmt.Errorf("insert call %s: %w", c.ID, err)
	}
	return nil
}

func (s *Store) GetCall(ctx context.Context, id string) (Call, error) {
	var (
		c                       Call
		createdAt, insights     string
		avgSentiment, satisfied sql.NullFloat64
		offensive               int
	)
	err := s.db.QueryRowContext(ctx, selectCallSQL, id).Scan(
		&c.ID, &createdAt, &c.Employee, &c.Direction, &c.LengthSeconds, &c.Transcript,
		&c.SentimentLabel, &avgSentiment, &satisfied, &offensive, &c.Utterances, &insights,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Call{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Call{}, fmt.Errorf("select call %s: %w", id, err)
	}
	if c.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return Call{}, fmt.Errorf("parse created_at of %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(insights), &c.Insights); err != nil {
		return Call{}, fmt.Errorf("decode insights of %s: %w", id, err)
	}
	c.AvgSentiment = statOf(avgSentiment)
	c.Satisfaction = statOf(satisfied)
	c.Offensive = offensive != 0
	return c, nil
}

func (s *Store) CountCalls(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM calls`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count calls: %w", err)
	}
	return n, nil
}

// AverageSatisfaction skips calls whose satisfaction is undefined.
func (s *Store) AverageSatisfaction(ctx context.Context) (analyzer.Stat, error) {
	var avg sql.NullFloat64
	if err := s.db.QueryRowContext(ctx, `SELECT AVG(satisfaction) FROM calls`).Scan(&avg); err != nil {
		return analyzer.Stat{}, fmt.Errorf("average satisfaction: %w", err)
	}
	return statOf(avg), nil
}

func (s *Store) TotalHours(ctx context.Context) (float64, error) {
	var secs float64
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(length_seconds), 0) FROM calls`).Scan(&secs)
	if err != nil {
		return 0, fmt.Errorf("total hours: %w", err)
	}
	return secs / 3600, nil
}

type DayStats struct {
	Date            string        `json:"date"`
	TotalCalls      int           `json:"total_calls"`
	AvgSatisfaction analyzer.Stat `json:"avg_satisfaction"`
	TotalHours      float64       `json:"total_hours"`
}

// WeeklyStats covers the seven UTC days before now's day; today is not
// included.
func (s *Store) WeeklyStats(ctx context.Context, now time.Time) ([]DayStats, error) {
	y, m, d := now.UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	out := make([]DayStats, 0, 7)
	for i := 7; i >= 1; i-- {
		start := today.AddDate(0, 0, -i)
		end := start.AddDate(0, 0, 1)

		var (
			day  = DayStats{Date: start.Format(time.DateOnly)}
			avg  sql.NullFloat64
			secs float64
		)
		err := s.db.QueryRowContext(ctx, `
SELECT COUNT(*), AVG(satisfaction), COALESCE(SUM(length_seconds), 0)
FROM calls WHERE created_at_utc >= ? AND created_at_utc < ?`,
			start.Format(timeLayout), end.Format(timeLayout),
		).Scan(&day.TotalCalls, &avg, &secs)
		if err != nil {
			return nil, fmt.Errorf("stats for %s: %w", day.Date, err)
		}
		day.AvgSatisfaction = statOf(avg)
		day.TotalHours = secs / 3600
		out = append(out, day)
	}
	return out, nil
}

// EmployeeSummary aggregates the calls handled by one employee.
type EmployeeSummary struct {
	Employee        string        `json:"employee"`
	Calls           int           `json:"calls"`
	Incoming        int           `json:"incoming"`
	Outgoing        int           `json:"outgoing"`
	OffensiveCalls  int           `json:"offensive_calls"`
	AvgCallSeconds  float64       `json:"avg_call_seconds"`
	AvgSentiment    analyzer.Stat `json:"avg_sentiment"`
	AvgSatisfaction analyzer.Stat `json:"avg_satisfaction"`
}

func (s *Store) EmployeeSummaries(ctx context.Context) ([]EmployeeSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT employee,
	COUNT(*),
	SUM(CASE WHEN direction = 'incoming' THEN 1 ELSE 0 END),
	SUM(CASE WHEN direction = 'outgoing' THEN 1 ELSE 0 END),
	SUM(offensive),
	AVG(length_seconds),
	AVG(avg_sentiment),
	AVG(satisfaction)
FROM calls
WHERE employee <> ''
GROUP BY employee
ORDER BY employee`)
	if err != nil {
		return nil, fmt.Errorf("employee summaries: %w", err)
	}
	defer rows.Close()

	var out []EmployeeSummary
	for rows.Next() {
		var (
			e            EmployeeSummary
			sent, satisf sql.NullFloat64
		)
		if err := rows.Scan(&e.Employee, &e.Calls, &e.Incoming, &e.Outgoing, &e.OffensiveCalls,
			&e.AvgCallSeconds, &sent, &satisf); err != nil {
			return nil, fmt.Errorf("scan employee summary: %w", err)
		}
		e.AvgSentiment = statOf(sent)
		e.AvgSatisfaction = statOf(satisf)
		out = append(out, e)
	}
	return out, rows.Err()
}

func nullFloat(s analyzer.Stat) sql.NullFloat64 {
	return sql.NullFloat64{Float64: s.Value, Valid: s.Valid}
}

func statOf(n sql.NullFloat64) analyzer.Stat {
	return analyzer.Stat{Value: n.Float64, Valid: n.Valid}
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
