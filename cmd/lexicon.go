package cmd

import (
	"github.com/spf13/cobra"

	"github.com/maastricht-university/callsense/analyzer"
)

// NewLexiconCommand creates the lexicon command, which prints the lexicons
// in the YAML format analyzer.lexicon_path accepts.
func NewLexiconCommand(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = DefaultDeps()
	}
	var defaults bool
	cmd := &cobra.Command{
		Use:   "lexicon",
		Short: "Print the active keyword lexicons as YAML",
		Long: `Print the keyword lexicons used for speaker classification and emotion
scoring. The output can be edited and pointed to with analyzer.lexicon_path;
sections left out of that file keep their built-in defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lex := analyzer.DefaultLexicons()
			if !defaults {
				c, _, err := deps.config(cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				if path := c.Analyzer.LexiconPath; path != "" {
					if lex, err = analyzer.LoadLexiconsFile(path); err != nil {
						return err
					}
				}
			}
			return lex.WriteYAML(cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&defaults, "defaults", false, "print the built-in lexicons, ignoring the config")
	return cmd
}
