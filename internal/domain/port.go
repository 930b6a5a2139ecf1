package domain

import (
	"context"
	"io"
)

// TranscriberPort defines the speech-to-text collaborator.
// Implementations return the transcript of the audio or an error; callers
// own timeouts and retries.
type TranscriberPort interface {
	// Transcribe converts an audio recording to text in the given language.
	// filename carries the container format through its extension.
	Transcribe(ctx context.Context, audio io.Reader, filename, language string) (string, error)
}

// QuranContentPort defines the interface for fetching canonical Quran text
type QuranContentPort interface {
	// ListChapters returns metadata for every surah
	ListChapters(ctx context.Context) ([]Chapter, error)

	// GetVerse returns a single ayah
	GetVerse(ctx context.Context, surahNumber, ayahNumber int) (*Verse, error)

	// GetChapterVerses returns every ayah of a surah in order
	GetChapterVerses(ctx context.Context, surahNumber int) ([]Verse, error)
}

// FSMPort defines the interface for finite state machine storage
type FSMPort interface {
	// SetState sets the current state for a user
	SetState(ctx context.Context, userID string, state State) error

	// GetState gets the current state for a user
	GetState(ctx context.Context, userID string) (State, error)

	// DeleteState deletes the state for a user
	DeleteState(ctx context.Context, userID string) error

	// SetData sets temporary data for a user's current session
	SetData(ctx context.Context, userID, key, value string) error

	// GetData gets temporary data for a user's current session.
	// It returns ErrDataNotFound when the key is absent.
	GetData(ctx context.Context, userID, key string) (string, error)

	// DeleteData deletes temporary data for a user
	DeleteData(ctx context.Context, userID, key string) error
}

// I18nPort defines the interface for internationalization
type I18nPort interface {
	// Get retrieves a translated message
	Get(lang Language, key string, args ...interface{}) string

	// GetSurahName retrieves the localized name of a Surah
	GetSurahName(lang Language, surahNumber int) string
}

// BotPort defines the interface for the bot adapter
type BotPort interface {
	// Start starts the bot
	Start(ctx context.Context) error

	// Stop stops the bot
	Stop() error
}

// State represents the FSM states
type State string

const (
	StateStart         State = "start"
	StateSelectSurah   State = "select_surah"
	StateEnterAyah     State = "enter_ayah"
	StateWaitRecording State = "wait_recording"
	StateProcessing    State = "processing"
)

// SessionData keys
const (
	SessionKeySurah        = "surah"
	SessionKeyAyah         = "ayah"
	SessionKeyAyahInput    = "ayah_input" // Accumulated digit input for ayah number
	SessionKeyLanguage     = "language"
	SessionKeyExpectedText = "expected_text"
	SessionKeyRules        = "rules" // Comma-separated enabled rule ids
)
