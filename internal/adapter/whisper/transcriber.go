package whisper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

var (
	// ErrMissingAPIKey is returned when no OpenAI key is configured
	ErrMissingAPIKey = errors.New("openai API key is not configured")
	// ErrEmptyAudio is returned for a recording without any bytes
	ErrEmptyAudio = errors.New("audio is empty")
	// ErrRateLimited is returned when the API answers 429
	ErrRateLimited = errors.New("transcription rate limited")
	// ErrUnauthorized is returned when the API rejects the key
	ErrUnauthorized = errors.New("transcription unauthorized")
)

// bismillahPrompt biases Whisper towards Quranic vocabulary
const bismillahPrompt = "بسم الله الرحمن الرحيم"

const (
	// minAPIKeyLength rejects truncated keys before calling the API
	minAPIKeyLength = 10
	placeholderKey  = "placeholder"
	defaultFilename = "recitation.wav"
)

type Config struct {
	APIKey            string
	BaseURL           string
	Model             string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// Transcriber implements domain.TranscriberPort with the OpenAI audio API
type Transcriber struct {
	client  *openai.Client
	config  Config
	limiter *rate.Limiter
	logger  *slog.Logger
}

func NewTranscriber(config Config, logger *slog.Logger) *Transcriber {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Model == "" {
		config.Model = openai.Whisper1
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	limit := rate.Inf
	if config.RequestsPerSecond > 0 {
		limit = rate.Limit(config.RequestsPerSecond)
	}
	burst := config.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Transcriber{
		client:  openai.NewClientWithConfig(clientConfig),
		config:  config,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}
}

// Transcribe sends the audio to Whisper and returns the plain-text transcript.
// Whisper picks the decoder from the filename extension; an empty filename
// is sent as WAV.
func (t *Transcriber) Transcribe(ctx context.Context, audio io.Reader, filename, language string) (string, error) {
	if !hasAPIKey(t.config.APIKey) {
		return "", ErrMissingAPIKey
	}

	data, err := io.ReadAll(audio)
	if err != nil {
		return "", fmt.Errorf("read audio: %w", err)
	}
	if len(data) == 0 {
		return "", ErrEmptyAudio
	}

	if err := t.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("wait for rate limiter: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, t.config.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.config.Model,
		FilePath: uploadName(filename),
		Reader:   bytes.NewReader(data),
		Prompt:   bismillahPrompt,
		Language: language,
		Format:   openai.AudioResponseFormatText,
	})
	if err != nil {
		return "", classify(err)
	}

	text := strings.TrimSpace(resp.Text)
	t.logger.Debug("audio transcribed",
		"file", uploadName(filename),
		"bytes", len(data),
		"chars", len([]rune(text)),
		"elapsed", time.Since(start),
	)

	return text, nil
}

func hasAPIKey(key string) bool {
	key = strings.TrimSpace(key)
	return key != placeholderKey && len(key) >= minAPIKeyLength
}

func uploadName(filename string) string {
	name := filepath.Base(filename)
	if name == "." || name == string(filepath.Separator) || filepath.Ext(name) == "" {
		return defaultFilename
	}
	return name
}

func classify(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch status {
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return fmt.Errorf("transcribe audio: %w", err)
}
