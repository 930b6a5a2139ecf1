package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/escalopa/quran-tajwid-bot/internal/domain"
)

type memFSM struct {
	mu     sync.Mutex
	states map[string]domain.State
	data   map[string]string
	setErr error
}

func newMemFSM() *memFSM {
	return &memFSM{states: map[string]domain.State{}, data: map[string]string{}}
}

func (m *memFSM) SetState(_ context.Context, userID string, state domain.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.states[userID] = state
	return nil
}

func (m *memFSM) GetState(_ context.Context, userID string) (domain.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.states[userID]; ok {
		return s, nil
	}
	return domain.StateStart, nil
}

func (m *memFSM) DeleteState(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, userID)
	return nil
}

func (m *memFSM) SetData(_ context.Context, userID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[userID+":"+key] = value
	return nil
}

func (m *memFSM) GetData(_ context.Context, userID, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[userID+":"+key]
	if !ok {
		return "", domain.ErrDataNotFound
	}
	return v, nil
}

func (m *memFSM) DeleteData(_ context.Context, userID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, userID+":"+key)
	return nil
}

type fakeQuran struct {
	verses map[string]string
	calls  int
}

func (f *fakeQuran) ListChapters(context.Context) ([]domain.Chapter, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeQuran) GetVerse(_ context.Context, surah, ayah int) (*domain.Verse, error) {
	f.calls++
	key := domain.FormatVerseKey(surah, ayah)
	text, ok := f.verses[key]
	if !ok {
		return nil, fmt.Errorf("verse %s not found", key)
	}
	return &domain.Verse{VerseNumber: ayah, VerseKey: key, TextUthmani: text}, nil
}

func (f *fakeQuran) GetChapterVerses(context.Context, int) ([]domain.Verse, error) {
	return nil, errors.New("not implemented")
}

type keyI18n struct{}

func (keyI18n) Get(_ domain.Language, key string, args ...interface{}) string {
	if len(args) > 0 {
		return key + fmt.Sprintf("%v", args)
	}
	return key
}

func (keyI18n) GetSurahName(_ domain.Language, n int) string {
	return fmt.Sprintf("Surah %d", n)
}

type fakeTranscriber struct {
	text     string
	err      error
	language string
	filename string
	audio    []byte
}

func (f *fakeTranscriber) Transcribe(_ context.Context, audio io.Reader, filename, language string) (string, error) {
	f.language = language
	f.filename = filename
	f.audio, _ = io.ReadAll(audio)
	return f.text, f.err
}
