package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/maastricht-university/callsense/orchestrator"
	"github.com/maastricht-university/callsense/store"
)

// runOptions are the flags shared by analyze and transcribe.
type runOptions struct {
	format    string
	save      bool
	out       bool
	employee  string
	direction string
	length    float64
}

func (o *runOptions) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.format, "format", "f", formatTable, "output format: table, json or csv")
	f.BoolVar(&o.save, "save", false, "store the call in the database (paths.database)")
	f.BoolVar(&o.out, "out", false, "write records and insights to a session directory under paths.outputs")
	f.StringVar(&o.employee, "employee", "", "employee who handled the call")
	f.StringVar(&o.direction, "direction", store.DirectionIncoming, "call direction: incoming or outgoing")
	f.Float64Var(&o.length, "length", 0, "call length in seconds")
}

func (o *runOptions) validate() error {
	if err := checkFormat(o.format); err != nil {
		return err
	}
	switch o.direction {
	case store.DirectionIncoming, store.DirectionOutgoing:
	default:
		return fmt.Errorf("invalid direction %q: use incoming or outgoing", o.direction)
	}
	if o.length < 0 {
		return errors.New("--length must not be negative")
	}
	return nil
}

func (o *runOptions) input() orchestrator.Input {
	return orchestrator.Input{
		Employee:      o.employee,
		Direction:     o.direction,
		LengthSeconds: o.length,
		Persist:       o.out,
		Save:          o.save,
	}
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = DefaultDeps()
	}
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "analyze [file|-]",
		Short: "Analyze a call transcript",
		Long: `Analyze a plain text call transcript read from a file or from stdin.

Prints one row per utterance followed by the conversation summary. With
--format json the full report is printed; --format csv prints the utterance
records only.`,
		Example: `  callsense analyze call.txt
  cat call.txt | callsense analyze --format json
  callsense analyze call.txt --save --employee dana --length 312`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			text, err := readTranscript(cmd, args)
			if err != nil {
				return err
			}
			in := opts.input()
			in.Transcript = text
			return run(cmd, deps, &opts, in)
		},
	}
	opts.bind(cmd)
	return cmd
}

func run(cmd *cobra.Command, deps *Deps, opts *runOptions, in orchestrator.Input) error {
	c, log, err := deps.config(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	p, closeFn, err := deps.pipeline(c, log, opts.save)
	if err != nil {
		return err
	}
	defer closeFn()

	rep, err := p.Run(cmd.Context(), in)
	if err != nil {
		return err
	}
	return writeReport(cmd.OutOrStdout(), rep, opts.format)
}

func readTranscript(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		b, err := os.ReadFile(args[0])
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", errors.New("no transcript: pass a file or pipe text on stdin")
	}
	b, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(b), nil
}
