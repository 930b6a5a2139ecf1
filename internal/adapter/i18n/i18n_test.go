package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/escalopa/quran-tajwid-bot/internal/domain"
)

func writeLocales(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func newTestI18n(t *testing.T) *I18n {
	t.Helper()
	dir := writeLocales(t, map[string]string{
		"en.yaml": "messages:\n  greet: \"Hello %s\"\n  only.en: \"English only\"\n",
		"ar.yaml": "messages:\n  greet: \"مرحبا %s\"\nsurahs:\n  - الفاتحة\n  - البقرة\n",
		"ru.yaml": "messages:\n  greet: \"Привет %s\"\n",
	})

	i, err := NewI18n(dir, domain.LangEnglish)
	if err != nil {
		t.Fatalf("NewI18n failed: %v", err)
	}
	return i
}

func TestI18n_Get(t *testing.T) {
	i := newTestI18n(t)

	tests := []struct {
		name string
		lang domain.Language
		key  string
		args []interface{}
		want string
	}{
		{"formatted", domain.LangRussian, "greet", []interface{}{"Ali"}, "Привет Ali"},
		{"arabic", domain.LangArabic, "greet", []interface{}{"Ali"}, "مرحبا Ali"},
		{"falls back to english", domain.LangArabic, "only.en", nil, "English only"},
		{"unknown language", domain.Language("fr"), "only.en", nil, "English only"},
		{"missing key", domain.LangEnglish, "nope", nil, "nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := i.Get(tt.lang, tt.key, tt.args...); got != tt.want {
				t.Errorf("Get() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestI18n_GetSurahName(t *testing.T) {
	i := newTestI18n(t)

	if got := i.GetSurahName(domain.LangArabic, 2); got != "البقرة" {
		t.Errorf("arabic name = %q", got)
	}
	// Surah 112 is not in the short Arabic list, so the catalogue name is used.
	if got := i.GetSurahName(domain.LangArabic, 112); got != "Al-Ikhlas" {
		t.Errorf("catalogue fallback = %q", got)
	}
	if got := i.GetSurahName(domain.LangEnglish, 1); got != "Al-Fatihah" {
		t.Errorf("english name = %q", got)
	}
	if got := i.GetSurahName(domain.LangEnglish, 115); got != "Surah 115" {
		t.Errorf("unknown surah = %q", got)
	}
}

func TestNewI18n_MissingFile(t *testing.T) {
	dir := writeLocales(t, map[string]string{
		"en.yaml": "messages: {}\n",
	})
	if _, err := NewI18n(dir, ""); err == nil {
		t.Fatal("expected error when a locale file is missing")
	}
}

func TestNewI18n_InvalidYAML(t *testing.T) {
	dir := writeLocales(t, map[string]string{
		"en.yaml": "messages: [unterminated\n",
		"ar.yaml": "messages: {}\n",
		"ru.yaml": "messages: {}\n",
	})
	if _, err := NewI18n(dir, ""); err == nil {
		t.Fatal("expected error for invalid yaml")
	}
}

func TestRepositoryLocales(t *testing.T) {
	i, err := NewI18n(filepath.Join("..", "..", "..", "locales"), domain.LangEnglish)
	if err != nil {
		t.Fatalf("load repository locales: %v", err)
	}

	for _, lang := range SupportedLanguages {
		for _, key := range []string{"welcome.message", "surah.select", "result.overall", "tajwid.none"} {
			if got := i.Get(lang, key); got == key {
				t.Errorf("%s: missing %q", lang, key)
			}
		}
	}
	if got := i.GetSurahName(domain.LangArabic, 114); got != "الناس" {
		t.Errorf("arabic surah 114 = %q", got)
	}
}

func TestIsSupported(t *testing.T) {
	if !IsSupported(domain.LangRussian) {
		t.Error("ru should be supported")
	}
	if IsSupported(domain.Language("fr")) {
		t.Error("fr should not be supported")
	}
}
