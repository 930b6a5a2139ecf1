package telegram

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/escalopa/quran-tajwid-bot/internal/adapter/whisper"
	"github.com/escalopa/quran-tajwid-bot/internal/application"
	"github.com/escalopa/quran-tajwid-bot/internal/domain"
	"github.com/escalopa/quran-tajwid-bot/internal/tajwid"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type stubI18n struct{}

func (stubI18n) Get(_ domain.Language, key string, args ...interface{}) string {
	if len(args) > 0 {
		return key + fmt.Sprintf("%v", args)
	}
	return key
}

func (stubI18n) GetSurahName(_ domain.Language, n int) string {
	return fmt.Sprintf("S%d", n)
}

func newTestBot() *Bot {
	return &Bot{
		service: application.NewBotService(nil, nil, stubI18n{}, nil),
		i18n:    stubI18n{},
	}
}

func TestGetSurahKeyboard(t *testing.T) {
	b := newTestBot()

	first := b.getSurahKeyboard(domain.LangEnglish, 0)
	// 5 rows of two surahs plus navigation
	if len(first.InlineKeyboard) != 6 {
		t.Fatalf("rows = %d, want 6", len(first.InlineKeyboard))
	}
	if got := *first.InlineKeyboard[0][0].CallbackData; got != "surah:1" {
		t.Errorf("first button = %q", got)
	}
	nav := first.InlineKeyboard[5]
	if len(nav) != 2 || *nav[1].CallbackData != "spage:1" {
		t.Errorf("unexpected nav row on first page: %+v", nav)
	}

	last := b.getSurahKeyboard(domain.LangEnglish, 99)
	// page 12: surahs 111..114
	if got := *last.InlineKeyboard[0][0].CallbackData; got != "surah:111" {
		t.Errorf("last page first button = %q", got)
	}
	nav = last.InlineKeyboard[len(last.InlineKeyboard)-1]
	if *nav[0].CallbackData != "spage:10" || nav[len(nav)-1].Text != "12/12" {
		t.Errorf("unexpected nav row on last page: %+v", nav)
	}
}

func TestGetAyahKeyboard(t *testing.T) {
	kb := newTestBot().getAyahKeyboard(domain.LangEnglish)
	if len(kb.InlineKeyboard) != 4 {
		t.Fatalf("rows = %d, want 4", len(kb.InlineKeyboard))
	}
	bottom := kb.InlineKeyboard[3]
	if *bottom[0].CallbackData != callbackClear || *bottom[1].CallbackData != "digit:0" || *bottom[2].CallbackData != callbackDone {
		t.Errorf("unexpected bottom row: %+v", bottom)
	}
}

func TestAyahPrompt(t *testing.T) {
	b := newTestBot()
	got := b.ayahPrompt(domain.LangEnglish, 112, "3", "bad")
	for _, want := range []string{"ayah.select[S112 4]", "📝 3", "⚠️ bad"} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt %q missing %q", got, want)
		}
	}
}

func TestRulesKeyboard(t *testing.T) {
	kb := rulesKeyboard([]string{tajwid.RuleQalqalah})

	rules := tajwid.AvailableRules()
	if len(kb.InlineKeyboard) != len(rules) {
		t.Fatalf("rows = %d, want %d", len(kb.InlineKeyboard), len(rules))
	}
	for i, row := range kb.InlineKeyboard {
		btn := row[0]
		if *btn.CallbackData != prefixRule+rules[i].ID {
			t.Errorf("row %d data = %q", i, *btn.CallbackData)
		}
		enabled := strings.HasPrefix(btn.Text, "✅")
		if enabled != (rules[i].ID == tajwid.RuleQalqalah) {
			t.Errorf("row %d (%s) enabled = %v", i, rules[i].ID, enabled)
		}
		if len(*btn.CallbackData) > 64 {
			t.Errorf("callback data too long for telegram: %q", *btn.CallbackData)
		}
	}
}

func TestRecordingErrorKey(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("analyze recitation: %w", whisper.ErrMissingAPIKey), "error.no_api_key"},
		{fmt.Errorf("analyze recitation: %w", whisper.ErrRateLimited), "error.rate_limited"},
		{whisper.ErrEmptyAudio, "error.audio_conversion"},
		{errors.New("boom"), "error.recording_failed"},
	}

	for _, tt := range tests {
		if got := recordingErrorKey(tt.err); got != tt.want {
			t.Errorf("recordingErrorKey(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestGetUserID(t *testing.T) {
	tests := []struct {
		name   string
		update tgbotapi.Update
		want   string
	}{
		{"message", tgbotapi.Update{Message: &tgbotapi.Message{From: &tgbotapi.User{ID: 7}}}, "7"},
		{"callback", tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{From: &tgbotapi.User{ID: 9}}}, "9"},
		{"channel post", tgbotapi.Update{Message: &tgbotapi.Message{}}, ""},
		{"empty", tgbotapi.Update{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getUserID(tt.update); got != tt.want {
				t.Errorf("getUserID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLastLine(t *testing.T) {
	if got := lastLine([]byte("a\nb\nInvalid data found\n")); got != "Invalid data found" {
		t.Errorf("lastLine = %q", got)
	}
	if got := lastLine(nil); got != "" {
		t.Errorf("lastLine(nil) = %q", got)
	}
}

func TestVerseBody(t *testing.T) {
	tests := []struct {
		name  string
		verse domain.Verse
		want  string
	}{
		{
			name:  "text only",
			verse: domain.Verse{TextUthmani: "قُلْ هُوَ ٱللَّهُ أَحَدٌ"},
			want:  "قُلْ هُوَ ٱللَّهُ أَحَدٌ\n",
		},
		{
			name: "with transliteration and translation",
			verse: domain.Verse{
				TextUthmani:     "قُلْ هُوَ ٱللَّهُ أَحَدٌ",
				Transliteration: "Qul huwa Allahu ahad",
				Translation:     "Dis : Il est Allah, Unique.",
			},
			want: "قُلْ هُوَ ٱللَّهُ أَحَدٌ\n\nQul huwa Allahu ahad\n\nDis : Il est Allah, Unique.\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := verseBody(&tt.verse); got != tt.want {
				t.Errorf("verseBody() = %q, want %q", got, tt.want)
			}
		})
	}
}
