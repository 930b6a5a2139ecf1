package i18n

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/escalopa/quran-tajwid-bot/internal/domain"
	"gopkg.in/yaml.v3"
)

// SupportedLanguages lists the locales loaded from the locales directory
var SupportedLanguages = []domain.Language{domain.LangEnglish, domain.LangArabic, domain.LangRussian}

type I18n struct {
	fallback     domain.Language
	translations map[domain.Language]map[string]string
	surahs       map[domain.Language][]string
}

type translationFile struct {
	Messages map[string]string `yaml:"messages"`
	Surahs   []string          `yaml:"surahs"`
}

// NewI18n loads <lang>.yaml for every supported language. Missing keys
// resolve through the fallback language, then to the key itself.
func NewI18n(localesDir string, fallback domain.Language) (*I18n, error) {
	if fallback == "" {
		fallback = domain.LangEnglish
	}

	i := &I18n{
		fallback:     fallback,
		translations: make(map[domain.Language]map[string]string),
		surahs:       make(map[domain.Language][]string),
	}

	for _, lang := range SupportedLanguages {
		filename := filepath.Join(localesDir, string(lang)+".yaml")
		if err := i.loadTranslations(lang, filename); err != nil {
			return nil, fmt.Errorf("load %s translations: %w", lang, err)
		}
	}

	return i, nil
}

func (i *I18n) loadTranslations(lang domain.Language, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	var tf translationFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return fmt.Errorf("unmarshal yaml: %w", err)
	}

	i.translations[lang] = tf.Messages
	i.surahs[lang] = tf.Surahs

	return nil
}

// Get retrieves a translated message
func (i *I18n) Get(lang domain.Language, key string, args ...interface{}) string {
	msg, ok := i.translations[lang][key]
	if !ok {
		msg, ok = i.translations[i.fallback][key]
	}
	if !ok {
		return key
	}

	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	return msg
}

// GetSurahName retrieves the localized name of a Surah. Locales without a
// surah list use the transliterated catalogue name.
func (i *I18n) GetSurahName(lang domain.Language, surahNumber int) string {
	for _, l := range []domain.Language{lang, i.fallback} {
		names := i.surahs[l]
		if surahNumber >= 1 && surahNumber <= len(names) {
			return names[surahNumber-1]
		}
	}

	if surah, ok := domain.GetSurah(surahNumber); ok {
		return surah.Name
	}
	return fmt.Sprintf("Surah %d", surahNumber)
}

// IsSupported reports whether a locale file exists for lang
func IsSupported(lang domain.Language) bool {
	for _, l := range SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}
