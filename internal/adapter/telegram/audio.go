package telegram

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Whisper works best on 16 kHz mono speech
const (
	sampleRate = "16000"
	channels   = "1"
)

// downloadFile downloads a file from Telegram
func (b *Bot) downloadFile(ctx context.Context, fileURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed with status: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// convertOGGtoWAV converts OGG/Opus audio to WAV using FFmpeg
func convertOGGtoWAV(ctx context.Context, oggData []byte) ([]byte, error) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, fmt.Errorf("ffmpeg not found: %w", err)
	}

	oggFile, err := os.CreateTemp("", "tajwid-voice-*.ogg")
	if err != nil {
		return nil, fmt.Errorf("create temp ogg file: %w", err)
	}
	oggPath := oggFile.Name()

	wavFile, err := os.CreateTemp("", "tajwid-voice-*.wav")
	if err != nil {
		oggFile.Close()
		os.Remove(oggPath)
		return nil, fmt.Errorf("create temp wav file: %w", err)
	}
	wavPath := wavFile.Name()
	wavFile.Close() // ffmpeg writes it

	defer func() {
		os.Remove(oggPath)
		os.Remove(wavPath)
	}()

	if _, err := oggFile.Write(oggData); err != nil {
		oggFile.Close()
		return nil, fmt.Errorf("write ogg data: %w", err)
	}
	if err := oggFile.Close(); err != nil {
		return nil, fmt.Errorf("close ogg file: %w", err)
	}

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", oggPath,
		"-ar", sampleRate,
		"-ac", channels,
		"-y",
		wavPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg conversion failed: %w: %s", err, lastLine(stderr.Bytes()))
	}

	wavData, err := os.ReadFile(wavPath)
	if err != nil {
		return nil, fmt.Errorf("read wav file: %w", err)
	}

	return wavData, nil
}

func lastLine(output []byte) string {
	lines := bytes.Split(bytes.TrimSpace(output), []byte("\n"))
	return string(lines[len(lines)-1])
}

// processVoiceMessage downloads and converts a Telegram voice message to WAV
func (b *Bot) processVoiceMessage(ctx context.Context, fileID string) (io.Reader, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file info: %w", err)
	}

	oggData, err := b.downloadFile(ctx, file.Link(b.api.Token))
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}

	wavData, err := convertOGGtoWAV(ctx, oggData)
	if err != nil {
		return nil, fmt.Errorf("convert audio: %w", err)
	}

	return bytes.NewReader(wavData), nil
}
