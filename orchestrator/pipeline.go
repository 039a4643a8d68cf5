package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/maastricht-university/callsense/analyzer"
	"github.com/maastricht-university/callsense/clients"
	cfg "github.com/maastricht-university/callsense/config"
	"github.com/maastricht-university/callsense/store"
)

// CallSaver is the part of the store the pipeline writes to.
type CallSaver interface {
	SaveCall(ctx context.Context, c store.Call) error
}

type Option func(*Pipeline)

func WithStore(s CallSaver) Option { return func(p *Pipeline) { p.store = s } }

func WithLogger(l *logrus.Logger) Option {
	return func(p *Pipeline) { p.log = logrus.NewEntry(l) }
}

func WithClock(now func() time.Time) Option { return func(p *Pipeline) { p.now = now } }

type Pipeline struct {
	cfg      *cfg.Root
	http     *clients.HTTP
	analyzer *analyzer.Analyzer
	store    CallSaver
	log      *logrus.Entry
	now      func() time.Time
}

func NewPipeline(c *cfg.Root, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		cfg:  c,
		http: clients.NewHTTP(cfg.DurSeconds(c.HTTP.TimeoutSeconds)),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logrus.NewEntry(c.Logger())
	}
	p.log = p.log.WithField("component", "pipeline")

	lex := analyzer.DefaultLexicons()
	if path := c.Analyzer.LexiconPath; path != "" {
		var err error
		if lex, err = analyzer.LoadLexiconsFile(path); err != nil {
			return nil, err
		}
		p.log.WithField("path", path).Info("custom lexicon loaded")
	}

	a, err := analyzer.New(lex, analyzer.WithLogger(p.log))
	if err != nil {
		return nil, err
	}
	p.analyzer = a
	return p, nil
}

func (p *Pipeline) Run(ctx context.Context, in Input) (*Report, error) {
	callID := uuid.NewString()
	log := p.log.WithField("call_id", callID)

	transcript, length, err := p.transcript(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, err := p.analyzer.Analyze(transcript)
	if err != nil {
		return nil, err
	}
	insights := analyzer.Summarize(records)
	var degenerate *analyzer.DegenerateError
	if errors.As(insights.Err(), &degenerate) {
		log.WithField("undefined", degenerate.Undefined).Warn("some insights are undefined")
	}

	direction := in.Direction
	if direction == "" {
		direction = store.DirectionIncoming
	}
	rep := &Report{
		CallID:         callID,
		GeneratedAt:    p.now().UTC(),
		Employee:       in.Employee,
		Direction:      direction,
		LengthSeconds:  length,
		Transcript:     transcript,
		SentimentLabel: analyzer.SentimentLabel(insights.Conversation.AvgSentiment),
		Satisfaction:   analyzer.SatisfactionScore(insights),
		Offensive:      offensive(records),
		Records:        records,
		Insights:       insights,
		Trend:          analyzer.SentimentTrend(records, p.cfg.Analyzer.TrendWindow),
	}
	log.WithFields(logrus.Fields{
		"utterances":   len(records),
		"sentiment":    rep.SentimentLabel,
		"satisfaction": rep.Satisfaction.String(),
	}).Info("call analyzed")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if in.Persist {
		dir, err := persist(p.cfg.Paths.Outputs, rep)
		if err != nil {
			return nil, fmt.Errorf("persist: %w", err)
		}
		rep.SessionDir = dir
		log.WithField("dir", dir).Debug("session written")
	}
	if in.Save {
		if p.store == nil {
			return nil, errors.New("save requested but no database is configured")
		}
		if err := p.store.SaveCall(ctx, callFromReport(rep)); err != nil {
			return nil, err
		}
	}
	if url := p.cfg.Services.Visualization.URL; url != "" {
		rep.Charts = p.render(ctx, log, url, rep)
	}
	return rep, nil
}

func (p *Pipeline) transcript(ctx context.Context, in Input) (string, float64, error) {
	if in.AudioPath == "" {
		return in.Transcript, in.LengthSeconds, nil
	}
	url := p.cfg.Services.ASR.URL
	if url == "" {
		return "", 0, errors.New("services.asr.url is not configured")
	}
	asr, err := p.http.Transcribe(ctx, url, in.AudioPath)
	if err != nil {
		return "", 0, err
	}
	length := in.LengthSeconds
	if length == 0 {
		length = asr.Duration()
	}
	p.log.WithFields(logrus.Fields{
		"audio":    in.AudioPath,
		"language": asr.Language,
		"segments": len(asr.Segments),
	}).Info("audio transcribed")
	return asr.Transcript(), length, nil
}

// render asks the chart service for the trend and emotion charts. Chart
// failures are logged and do not fail the run.
func (p *Pipeline) render(ctx context.Context, log *logrus.Entry, url string, rep *Report) []string {
	var paths []string
	tl, err := p.http.GenerateTimeline(ctx, url, timelineRequest(rep, rep.SessionDir))
	if err != nil {
		log.WithError(err).Warn("timeline chart failed")
	} else {
		paths = append(paths, tl.Path)
	}
	req, ok := radarRequest(rep, rep.SessionDir)
	if !ok {
		log.Debug("emotion averages undefined, radar chart skipped")
		return paths
	}
	rd, err := p.http.GenerateRadar(ctx, url, req)
	if err != nil {
		log.WithError(err).Warn("radar chart failed")
	} else {
		paths = append(paths, rd.Path)
	}
	return paths
}
