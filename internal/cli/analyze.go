package cli

import (
	"strings"

	"github.com/escalopa/quran-tajwid-bot/internal/tajwid"
	"github.com/spf13/cobra"
)

func newRulesCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the Tajwid rule catalogue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.write(cmd.OutOrStdout(), tajwid.AvailableRules())
		},
	}
}

func newAnalyzeCommand(opts *rootOptions) *cobra.Command {
	var rules []string

	cmd := &cobra.Command{
		Use:   "analyze <text>",
		Short: "Find Tajwid rule occurrences in Arabic text",
		Long: `Analyze scans the text for every enabled Tajwid rule and prints the
occurrences in document order, the score and a per-rule breakdown.

Example:
  tajwid analyze "مِنْ بَعْدِ"
  tajwid analyze --rules qalqalah,ghunnah "قُلْ هُوَ ٱللَّهُ أَحَدٌ"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var active []string
			if cmd.Flags().Changed("rules") {
				active = make([]string, 0, len(rules))
				for _, id := range rules {
					if id = strings.TrimSpace(id); id != "" {
						active = append(active, id)
					}
				}
			}

			return opts.write(cmd.OutOrStdout(), tajwid.Analyze(strings.Join(args, " "), active))
		},
	}

	cmd.Flags().StringSliceVar(&rules, "rules", nil, "comma-separated rule ids to enable (default: all)")
	return cmd
}

func newCompareCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <expected> <recited>",
		Short: "Compare a recitation transcript with the expected text word by word",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.write(cmd.OutOrStdout(), tajwid.CompareRecitation(args[0], args[1]))
		},
	}
}
