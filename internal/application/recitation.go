package application

import (
	"context"
	"io"
	"log/slog"
	"math"

	"github.com/escalopa/quran-tajwid-bot/internal/domain"
	"github.com/escalopa/quran-tajwid-bot/internal/tajwid"
	"github.com/google/uuid"
)

// TranscriptionLanguage is the language hint sent to the speech-to-text service
const TranscriptionLanguage = "ar"

// RecordingFilename names the WAV produced from a chat voice message
const RecordingFilename = "recitation.wav"

// Weights of the overall score
const (
	accuracyWeight = 0.6
	tajwidWeight   = 0.4
)

// RecitationService scores a recorded recitation against the canonical text
type RecitationService struct {
	transcriber domain.TranscriberPort
	logger      *slog.Logger
}

func NewRecitationService(transcriber domain.TranscriberPort, logger *slog.Logger) *RecitationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecitationService{
		transcriber: transcriber,
		logger:      logger,
	}
}

// FullRecitationAnalysis transcribes the audio, compares the transcript with
// expectedText and grades Tajwid on expectedText.
//
// filename tells the transcriber the audio format. Errors from the transcriber
// are returned as is so callers can classify them.
func (s *RecitationService) FullRecitationAnalysis(ctx context.Context, audio io.Reader, filename, expectedText string, durationSeconds int) (*domain.RecitationResult, error) {
	transcription, err := s.transcriber.Transcribe(ctx, audio, filename, TranscriptionLanguage)
	if err != nil {
		return nil, err
	}

	comparison := tajwid.CompareRecitation(expectedText, transcription)
	analysis := tajwid.Analyze(expectedText, nil)

	result := &domain.RecitationResult{
		ID:             uuid.NewString(),
		Transcription:  transcription,
		Accuracy:       comparison.Accuracy,
		TajwidAnalysis: analysis,
		OverallScore:   OverallScore(comparison.Accuracy, analysis.Score),
		Differences:    comparison.Differences,
		DurationSec:    durationSeconds,
	}

	s.logger.Info("recitation scored",
		"id", result.ID,
		"accuracy", result.Accuracy,
		"tajwid_score", analysis.Score,
		"overall_score", result.OverallScore,
		"differences", len(result.Differences),
		"duration_seconds", durationSeconds,
	)

	return result, nil
}

// OverallScore combines word accuracy and Tajwid score, 60/40
func OverallScore(accuracy, tajwidScore int) int {
	return int(math.Round(float64(accuracy)*accuracyWeight + float64(tajwidScore)*tajwidWeight))
}
