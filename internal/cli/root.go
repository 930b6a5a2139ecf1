// Package cli implements the tajwid command line tool.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

type rootOptions struct {
	v *viper.Viper
}

// NewRootCommand builds the tajwid command tree
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "tajwid",
		Short: "Tajwid analysis and recitation scoring",
		Long: `tajwid annotates Arabic Quranic text with the Tajwid rules that apply to it,
compares a recitation transcript with the expected text and scores a recorded
recitation end to end.

Output is JSON by default, YAML with --format yaml.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch opts.format() {
			case formatJSON, formatYAML:
				return nil
			default:
				return fmt.Errorf("unsupported format %q (want json or yaml)", opts.format())
			}
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config file used by recite (env overrides apply)")
	rootCmd.PersistentFlags().StringP("format", "f", formatJSON, "output format: json or yaml")

	_ = opts.v.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = opts.v.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	opts.v.SetEnvPrefix("TAJWID")
	opts.v.AutomaticEnv()

	rootCmd.AddCommand(
		newRulesCommand(opts),
		newAnalyzeCommand(opts),
		newCompareCommand(opts),
		newReciteCommand(opts),
		newChaptersCommand(opts),
		newVerseCommand(opts),
		newChapterCommand(opts),
	)

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}

func (o *rootOptions) format() string {
	return strings.ToLower(o.v.GetString("format"))
}

func (o *rootOptions) write(w io.Writer, v interface{}) error {
	if o.format() == formatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
