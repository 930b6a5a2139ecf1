package cli

import (
	"fmt"
	"strconv"

	"github.com/escalopa/quran-tajwid-bot/internal/adapter/quranapi"
	"github.com/escalopa/quran-tajwid-bot/internal/config"
	"github.com/escalopa/quran-tajwid-bot/internal/domain"
	"github.com/escalopa/quran-tajwid-bot/internal/tajwid"
	"github.com/spf13/cobra"
)

type verseAnalysis struct {
	Verse    *domain.Verse          `json:"verse" yaml:"verse"`
	Analysis *domain.TajwidAnalysis `json:"analysis" yaml:"analysis"`
}

func (o *rootOptions) quranClient(cmd *cobra.Command) (domain.QuranContentPort, error) {
	cfg, err := config.Load(o.v.GetString("config"))
	if err != nil {
		return nil, err
	}
	logger := config.NewLogger(cfg.Log, cmd.ErrOrStderr())
	return quranapi.NewClient(quranapi.Config{
		BaseURL:            cfg.QuranAPI.BaseURL,
		Language:           cfg.QuranAPI.Language,
		CacheTTL:           cfg.QuranAPI.CacheTTL,
		TranslationID:      cfg.QuranAPI.TranslationID,
		ReciterID:          cfg.QuranAPI.ReciterID,
		AudioBaseURL:       cfg.QuranAPI.AudioBaseURL,
		TransliterationURL: cfg.QuranAPI.TransliterationURL,
	}, logger), nil
}

func parseSurah(raw string) (domain.Surah, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return domain.Surah{}, fmt.Errorf("invalid surah number: %s", raw)
	}
	surah, ok := domain.GetSurah(n)
	if !ok {
		return domain.Surah{}, fmt.Errorf("surah must be between 1 and 114, got %d", n)
	}
	return surah, nil
}

func newChaptersCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chapters",
		Short: "List surah metadata from the Quran content API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.quranClient(cmd)
			if err != nil {
				return err
			}
			chapters, err := client.ListChapters(cmd.Context())
			if err != nil {
				return fmt.Errorf("list chapters: %w", err)
			}
			return opts.write(cmd.OutOrStdout(), chapters)
		},
	}
}

func newVerseCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verse <surah> <ayah>",
		Short: "Fetch an ayah and annotate its Tajwid",
		Example: `  tajwid verse 112 1
  tajwid verse 2 255 --format yaml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			surah, err := parseSurah(args[0])
			if err != nil {
				return err
			}
			ayah, err := strconv.Atoi(args[1])
			if err != nil || ayah < 1 || ayah > surah.Ayahs {
				return fmt.Errorf("ayah must be between 1 and %d for surah %d", surah.Ayahs, surah.Number)
			}

			client, err := opts.quranClient(cmd)
			if err != nil {
				return err
			}
			verse, err := client.GetVerse(cmd.Context(), surah.Number, ayah)
			if err != nil {
				return fmt.Errorf("get verse: %w", err)
			}

			return opts.write(cmd.OutOrStdout(), verseAnalysis{
				Verse:    verse,
				Analysis: tajwid.Analyze(verse.TextUthmani, nil),
			})
		},
	}
}

func newChapterCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chapter <surah>",
		Short: "Fetch every ayah of a surah and annotate its Tajwid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			surah, err := parseSurah(args[0])
			if err != nil {
				return err
			}

			client, err := opts.quranClient(cmd)
			if err != nil {
				return err
			}
			verses, err := client.GetChapterVerses(cmd.Context(), surah.Number)
			if err != nil {
				return fmt.Errorf("get chapter verses: %w", err)
			}

			out := make([]verseAnalysis, len(verses))
			for i := range verses {
				out[i] = verseAnalysis{
					Verse:    &verses[i],
					Analysis: tajwid.Analyze(verses[i].TextUthmani, nil),
				}
			}
			return opts.write(cmd.OutOrStdout(), out)
		},
	}
}
