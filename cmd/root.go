// Package cmd provides the callsense command line.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/maastricht-university/callsense/config"
	"github.com/maastricht-university/callsense/orchestrator"
	"github.com/maastricht-university/callsense/store"
)

// Deps holds what the commands need from the outside world. Tests swap
// the functions; ConfigPath and LogLevel are bound to the global flags.
type Deps struct {
	LoadConfig func(path string) (*config.Root, error)
	OpenStore  func(path string) (*store.Store, error)
	Clock      func() time.Time

	ConfigPath string
	LogLevel   string
}

// DefaultDeps returns the dependencies for production use.
func DefaultDeps() *Deps {
	return &Deps{
		LoadConfig: config.Load,
		OpenStore:  store.Open,
		Clock:      time.Now,
	}
}

// NewRootCommand builds the callsense command tree.
func NewRootCommand(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = DefaultDeps()
	}
	root := &cobra.Command{
		Use:   "callsense",
		Short: "Heuristic analysis of customer service call transcripts",
		Long: `callsense splits a call transcript into utterances, decides for each one
whether the employee or the customer spoke, scores sentiment, emotion and
intensity, and summarizes the whole conversation.

Everything is rule based: keyword lexicons, a few regular expressions and a
lexicon-based sentiment model. No network access is needed unless you
transcribe audio or render charts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&deps.ConfigPath, "config", "", "config file (default: config/$CONFIG_ENV/config.yaml or ./config.yaml)")
	root.PersistentFlags().StringVar(&deps.LogLevel, "log-level", "", "override pipeline.log_level (trace, debug, info, warn, error)")

	root.AddCommand(
		NewAnalyzeCommand(deps),
		NewTranscribeCommand(deps),
		NewStatsCommand(deps),
		NewLexiconCommand(deps),
	)
	return root
}

// Execute runs the root command with the production dependencies.
func Execute() error {
	return NewRootCommand(nil).Execute()
}

func (d *Deps) config(stderr io.Writer) (*config.Root, *logrus.Logger, error) {
	c, err := d.LoadConfig(d.ConfigPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if d.LogLevel != "" {
		if _, err := logrus.ParseLevel(d.LogLevel); err != nil {
			return nil, nil, err
		}
		c.Pipeline.LogLvl = d.LogLevel
	}
	log := c.Logger()
	log.SetOutput(stderr)
	return c, log, nil
}

// pipeline wires a Pipeline for one command run. The returned func closes
// the store, if one was opened.
func (d *Deps) pipeline(c *config.Root, log *logrus.Logger, save bool) (*orchestrator.Pipeline, func(), error) {
	opts := []orchestrator.Option{orchestrator.WithLogger(log)}
	if d.Clock != nil {
		opts = append(opts, orchestrator.WithClock(d.Clock))
	}
	closeFn := func() {}
	if save {
		if c.Paths.Database == "" {
			return nil, nil, errors.New("--save needs paths.database in the config")
		}
		s, err := d.OpenStore(c.Paths.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		opts = append(opts, orchestrator.WithStore(s))
		closeFn = func() {
			if err := s.Close(); err != nil {
				log.WithError(err).Warn("close database")
			}
		}
	}
	p, err := orchestrator.NewPipeline(c, opts...)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return p, closeFn, nil
}
