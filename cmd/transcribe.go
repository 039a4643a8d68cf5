package cmd

import (
	"github.com/spf13/cobra"
)

// NewTranscribeCommand creates the transcribe command.
func NewTranscribeCommand(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = DefaultDeps()
	}
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "transcribe <audio>",
		Short: "Transcribe a call recording and analyze it",
		Long: `Send an audio file (wav, mp3, m4a) to the transcription service configured
under services.asr.url, then analyze the returned transcript.

The call length defaults to the end of the last transcribed segment.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			in := opts.input()
			in.AudioPath = args[0]
			return run(cmd, deps, &opts, in)
		},
	}
	opts.bind(cmd)
	return cmd
}
