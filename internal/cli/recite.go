package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/escalopa/quran-tajwid-bot/internal/adapter/whisper"
	"github.com/escalopa/quran-tajwid-bot/internal/application"
	"github.com/escalopa/quran-tajwid-bot/internal/config"
	"github.com/escalopa/quran-tajwid-bot/internal/domain"
	"github.com/spf13/cobra"
)

type reciteOutput struct {
	Result   *domain.RecitationResult `json:"result" yaml:"result"`
	Passed   bool                     `json:"passed" yaml:"passed"`
	Feedback []domain.FeedbackDetail  `json:"feedback" yaml:"feedback"`
}

func newReciteCommand(opts *rootOptions) *cobra.Command {
	var (
		audioPath string
		expected  string
		duration  int
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "recite",
		Short: "Transcribe a recording and score it against the expected text",
		Long: `Recite sends the audio file to the configured Whisper endpoint, compares the
transcript with the expected text and grades Tajwid on the expected text.

The OpenAI settings come from the config file and OPENAI_* environment variables.

Example:
  OPENAI_API_KEY=sk-... tajwid recite --audio ikhlas.wav --expected "قُلْ هُوَ ٱللَّهُ أَحَدٌ"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.v.GetString("config"))
			if err != nil {
				return err
			}
			logger := config.NewLogger(cfg.Log, cmd.ErrOrStderr())

			audio, err := os.Open(audioPath)
			if err != nil {
				return fmt.Errorf("open audio: %w", err)
			}
			defer audio.Close()

			transcriber := whisper.NewTranscriber(whisper.Config{
				APIKey:            cfg.OpenAI.APIKey,
				BaseURL:           cfg.OpenAI.BaseURL,
				Model:             cfg.OpenAI.Model,
				Timeout:           cfg.OpenAI.Timeout,
				RequestsPerSecond: cfg.OpenAI.RequestsPerSecond,
				Burst:             cfg.OpenAI.Burst,
			}, logger)
			service := application.NewRecitationService(transcriber, logger)

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			result, err := service.FullRecitationAnalysis(ctx, audio, filepath.Base(audioPath), expected, duration)
			if errors.Is(err, whisper.ErrMissingAPIKey) {
				return fmt.Errorf("%w: set openai.api_key or OPENAI_API_KEY", err)
			}
			if err != nil {
				return err
			}

			return opts.write(cmd.OutOrStdout(), reciteOutput{
				Result:   result,
				Passed:   result.Passed(),
				Feedback: application.FeedbackDetails(result.Accuracy),
			})
		},
	}

	cmd.Flags().StringVar(&audioPath, "audio", "", "path to the recording (wav, mp3, m4a, ogg)")
	cmd.Flags().StringVar(&expected, "expected", "", "expected Arabic text of the recitation")
	cmd.Flags().IntVar(&duration, "duration", 0, "recording duration in seconds")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall timeout")
	_ = cmd.MarkFlagRequired("audio")
	_ = cmd.MarkFlagRequired("expected")

	return cmd
}
