package whisper

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

const testKey = "sk-test-key-123456"

func newTestTranscriber(t *testing.T, handler http.HandlerFunc) *Transcriber {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewTranscriber(Config{
		APIKey:  testKey,
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	}, nil)
}

func TestTranscriber_Success(t *testing.T) {
	tr := newTestTranscriber(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("Expected path /audio/transcriptions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer "+testKey {
			t.Errorf("Unexpected Authorization header: %s", r.Header.Get("Authorization"))
		}
		if got := r.FormValue("language"); got != "ar" {
			t.Errorf("Expected language ar, got %q", got)
		}
		if got := r.FormValue("model"); got != "whisper-1" {
			t.Errorf("Expected model whisper-1, got %q", got)
		}
		if got := r.FormValue("response_format"); got != "text" {
			t.Errorf("Expected response_format text, got %q", got)
		}
		_, _ = w.Write([]byte("  بسم الله الرحمن الرحيم \n"))
	})

	text, err := tr.Transcribe(context.Background(), bytes.NewReader([]byte("RIFF....WAVE")), "recitation.wav", "ar")
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if text != "بسم الله الرحمن الرحيم" {
		t.Errorf("Unexpected transcript: %q", text)
	}
}

func TestTranscriber_Filename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{name: "browser upload", filename: "recitation.webm", want: "recitation.webm"},
		{name: "path", filename: "/tmp/audio/ikhlas.mp3", want: "ikhlas.mp3"},
		{name: "empty", filename: "", want: "recitation.wav"},
		{name: "no extension", filename: "blob", want: "recitation.wav"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTestTranscriber(t, func(w http.ResponseWriter, r *http.Request) {
				_, header, err := r.FormFile("file")
				if err != nil {
					t.Errorf("read file part: %v", err)
				} else if header.Filename != tt.want {
					t.Errorf("filename = %q, want %q", header.Filename, tt.want)
				}
				_, _ = w.Write([]byte("text"))
			})

			if _, err := tr.Transcribe(context.Background(), strings.NewReader("\x1a\x45\xdf\xa3"), tt.filename, "ar"); err != nil {
				t.Fatalf("Transcribe failed: %v", err)
			}
		})
	}
}

func TestTranscriber_MissingAPIKey(t *testing.T) {
	for _, key := range []string{"", "placeholder", " placeholder ", "sk-short"} {
		tr := NewTranscriber(Config{APIKey: key}, nil)
		_, err := tr.Transcribe(context.Background(), strings.NewReader("audio"), "recitation.wav", "ar")
		if !errors.Is(err, ErrMissingAPIKey) {
			t.Errorf("key %q: expected ErrMissingAPIKey, got %v", key, err)
		}
	}
}

func TestTranscriber_EmptyAudio(t *testing.T) {
	tr := newTestTranscriber(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("API must not be called for empty audio")
	})

	_, err := tr.Transcribe(context.Background(), bytes.NewReader(nil), "recitation.wav", "ar")
	if !errors.Is(err, ErrEmptyAudio) {
		t.Fatalf("expected ErrEmptyAudio, got %v", err)
	}
}

func TestTranscriber_RateLimit(t *testing.T) {
	tr := newTestTranscriber(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "Rate limit exceeded", "type": "rate_limit_error"}}`))
	})

	_, err := tr.Transcribe(context.Background(), strings.NewReader("audio"), "recitation.wav", "ar")
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestTranscriber_Unauthorized(t *testing.T) {
	tr := newTestTranscriber(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error"}}`))
	})

	_, err := tr.Transcribe(context.Background(), strings.NewReader("audio"), "recitation.wav", "ar")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestTranscriber_ServerError(t *testing.T) {
	tr := newTestTranscriber(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "Internal Server Error", "type": "server_error"}}`))
	})

	_, err := tr.Transcribe(context.Background(), strings.NewReader("audio"), "recitation.wav", "ar")
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrUnauthorized) {
		t.Errorf("server error misclassified: %v", err)
	}
}

func TestTranscriber_CancelledContext(t *testing.T) {
	tr := newTestTranscriber(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("text"))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := tr.Transcribe(ctx, strings.NewReader("audio"), "recitation.wav", "ar"); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestNewTranscriber_Defaults(t *testing.T) {
	tr := NewTranscriber(Config{APIKey: testKey}, nil)
	if tr.config.Model != "whisper-1" {
		t.Errorf("Model = %q, want whisper-1", tr.config.Model)
	}
	if tr.config.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v, want 60s", tr.config.Timeout)
	}
	if tr.limiter.Limit() != rate.Inf {
		t.Errorf("expected unlimited rate by default, got %v", tr.limiter.Limit())
	}
}
