package quranapi

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/escalopa/quran-tajwid-bot/internal/domain"
	"github.com/microcosm-cc/bluemonday"
	gocache "github.com/patrickmn/go-cache"
)

const (
	// DefaultBaseURL is the public api.quran.com v4 endpoint
	DefaultBaseURL            = "https://api.quran.com/api/v4"
	// DefaultTransliterationURL serves the en.transliteration edition
	DefaultTransliterationURL = "https://api.alquran.cloud/v1"
	// DefaultAudioBaseURL prefixes the relative audio paths of api.quran.com
	DefaultAudioBaseURL       = "https://audio.qurancdn.com/"
)

const (
	perPage                = 50
	chaptersKey            = "chapters"
	transliterationEdition = "en.transliteration"
	cleanupInterval        = 10 * time.Minute
)

// Config configures the Client. A zero TranslationID skips translations.
type Config struct {
	BaseURL            string
	Language           string
	CacheTTL           time.Duration
	TranslationID      int
	ReciterID          string
	AudioBaseURL       string
	TransliterationURL string
}

// Client fetches canonical Uthmani text together with its translation,
// transliteration and recitation audio. The Quran text never changes, so
// responses are memoized for CacheTTL.
//
// Transliteration and audio come from secondary endpoints and are best effort:
// a failure there leaves the field empty instead of failing the verse.
type Client struct {
	config     Config
	httpClient *http.Client
	cache      *gocache.Cache
	sanitizer  *bluemonday.Policy
	logger     *slog.Logger
}

func NewClient(config Config, logger *slog.Logger) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Language == "" {
		config.Language = "en"
	}
	if config.ReciterID == "" {
		config.ReciterID = domain.DefaultReciterID
	}
	if config.AudioBaseURL == "" {
		config.AudioBaseURL = DefaultAudioBaseURL
	}
	if config.TransliterationURL == "" {
		config.TransliterationURL = DefaultTransliterationURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		cache:     gocache.New(config.CacheTTL, cleanupInterval),
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger,
	}
}

// ListChapters returns metadata for every surah
func (c *Client) ListChapters(ctx context.Context) ([]domain.Chapter, error) {
	if cached, ok := c.cache.Get(chaptersKey); ok {
		return slices.Clone(cached.([]domain.Chapter)), nil
	}

	query := url.Values{"language": {c.config.Language}}
	var result struct {
		Chapters []chapterResponse `json:"chapters"`
	}
	if err := c.get(ctx, c.config.BaseURL+"/chapters", query, &result); err != nil {
		return nil, err
	}

	chapters := make([]domain.Chapter, len(result.Chapters))
	for i, ch := range result.Chapters {
		chapters[i] = ch.toDomain()
	}

	c.cache.SetDefault(chaptersKey, chapters)
	return slices.Clone(chapters), nil
}

// GetVerse returns a single ayah
func (c *Client) GetVerse(ctx context.Context, surahNumber, ayahNumber int) (*domain.Verse, error) {
	key := domain.FormatVerseKey(surahNumber, ayahNumber)
	if cached, ok := c.cache.Get("verse:" + key); ok {
		verse := cached.(domain.Verse)
		return &verse, nil
	}

	var result struct {
		Verse *verseResponse `json:"verse"`
	}
	if err := c.get(ctx, c.config.BaseURL+"/verses/by_key/"+key, c.verseQuery(), &result); err != nil {
		return nil, err
	}
	if result.Verse == nil || result.Verse.TextUthmani == "" {
		return nil, fmt.Errorf("verse %s not found", key)
	}

	verse := result.Verse.toDomain(c.cleanTranslation)
	verse.Transliteration = c.verseTransliteration(ctx, key)
	verse.AudioURL = c.verseAudio(ctx, key)

	c.cache.SetDefault("verse:"+key, verse)
	return &verse, nil
}

// GetChapterVerses returns every ayah of a surah in order
func (c *Client) GetChapterVerses(ctx context.Context, surahNumber int) ([]domain.Verse, error) {
	cacheKey := "chapter:" + strconv.Itoa(surahNumber)
	if cached, ok := c.cache.Get(cacheKey); ok {
		return slices.Clone(cached.([]domain.Verse)), nil
	}

	var verses []domain.Verse
	for page := 1; page > 0; {
		query := c.verseQuery()
		query.Set("words", "false")
		query.Set("per_page", strconv.Itoa(perPage))
		query.Set("page", strconv.Itoa(page))

		var result struct {
			Verses     []verseResponse `json:"verses"`
			Pagination pagination      `json:"pagination"`
		}
		endpoint := fmt.Sprintf("%s/verses/by_chapter/%d", c.config.BaseURL, surahNumber)
		if err := c.get(ctx, endpoint, query, &result); err != nil {
			return nil, err
		}

		for _, v := range result.Verses {
			verses = append(verses, v.toDomain(c.cleanTranslation))
		}
		page = result.Pagination.next()
	}

	transliterations := c.chapterTransliterations(ctx, surahNumber)
	audio := c.chapterAudio(ctx, surahNumber)
	for i := range verses {
		verses[i].Transliteration = transliterations[verses[i].VerseNumber]
		verses[i].AudioURL = audio[verses[i].VerseKey]
		c.cache.SetDefault("verse:"+verses[i].VerseKey, verses[i])
	}

	c.cache.SetDefault(cacheKey, verses)
	c.logger.Debug("chapter verses fetched", "surah", surahNumber, "verses", len(verses))
	return slices.Clone(verses), nil
}

func (c *Client) verseQuery() url.Values {
	query := url.Values{
		"fields":   {"text_uthmani"},
		"language": {c.config.Language},
	}
	if c.config.TranslationID > 0 {
		query.Set("translations", strconv.Itoa(c.config.TranslationID))
	}
	return query
}

func (c *Client) verseTransliteration(ctx context.Context, verseKey string) string {
	var result struct {
		Data struct {
			Text string `json:"text"`
		} `json:"data"`
	}
	endpoint := fmt.Sprintf("%s/ayah/%s/%s", c.config.TransliterationURL, verseKey, transliterationEdition)
	if err := c.get(ctx, endpoint, nil, &result); err != nil {
		c.logger.Warn("fetch transliteration", "verse", verseKey, "error", err)
		return ""
	}
	return result.Data.Text
}

// chapterTransliterations maps verse number to transliteration
func (c *Client) chapterTransliterations(ctx context.Context, surahNumber int) map[int]string {
	var result struct {
		Data struct {
			Ayahs []struct {
				NumberInSurah int    `json:"numberInSurah"`
				Text          string `json:"text"`
			} `json:"ayahs"`
		} `json:"data"`
	}
	endpoint := fmt.Sprintf("%s/surah/%d/%s", c.config.TransliterationURL, surahNumber, transliterationEdition)
	if err := c.get(ctx, endpoint, nil, &result); err != nil {
		c.logger.Warn("fetch transliteration", "surah", surahNumber, "error", err)
		return nil
	}

	out := make(map[int]string, len(result.Data.Ayahs))
	for _, a := range result.Data.Ayahs {
		out[a.NumberInSurah] = a.Text
	}
	return out
}

func (c *Client) verseAudio(ctx context.Context, verseKey string) string {
	var result struct {
		AudioFiles []audioFileResponse `json:"audio_files"`
	}
	endpoint := fmt.Sprintf("%s/recitations/%s/by_ayah/%s", c.config.BaseURL, c.config.ReciterID, verseKey)
	if err := c.get(ctx, endpoint, nil, &result); err != nil {
		c.logger.Warn("fetch audio", "verse", verseKey, "reciter", c.config.ReciterID, "error", err)
		return ""
	}
	if len(result.AudioFiles) == 0 {
		return ""
	}
	return c.audioURL(result.AudioFiles[0].URL)
}

// chapterAudio maps verse key to audio URL
func (c *Client) chapterAudio(ctx context.Context, surahNumber int) map[string]string {
	out := make(map[string]string)
	for page := 1; page > 0; {
		query := url.Values{
			"per_page": {strconv.Itoa(perPage)},
			"page":     {strconv.Itoa(page)},
		}
		var result struct {
			AudioFiles []audioFileResponse `json:"audio_files"`
			Pagination pagination          `json:"pagination"`
		}
		endpoint := fmt.Sprintf("%s/recitations/%s/by_chapter/%d", c.config.BaseURL, c.config.ReciterID, surahNumber)
		if err := c.get(ctx, endpoint, query, &result); err != nil {
			c.logger.Warn("fetch audio", "surah", surahNumber, "reciter", c.config.ReciterID, "error", err)
			return out
		}

		for _, f := range result.AudioFiles {
			out[f.VerseKey] = c.audioURL(f.URL)
		}
		page = result.Pagination.next()
	}
	return out
}

func (c *Client) audioURL(path string) string {
	switch {
	case path == "":
		return ""
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"):
		return path
	case strings.HasPrefix(path, "//"):
		return "https:" + path
	}
	return strings.TrimSuffix(c.config.AudioBaseURL, "/") + "/" + strings.TrimPrefix(path, "/")
}

// cleanTranslation drops footnote markup and collapses whitespace
func (c *Client) cleanTranslation(raw string) string {
	text := html.UnescapeString(c.sanitizer.Sanitize(raw))
	return strings.Join(strings.Fields(text), " ")
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values, out interface{}) error {
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

type pagination struct {
	NextPage *int `json:"next_page"`
}

// next returns the following page number, or 0 on the last page
func (p pagination) next() int {
	if p.NextPage == nil {
		return 0
	}
	return *p.NextPage
}

type chapterResponse struct {
	ID              int    `json:"id"`
	RevelationPlace string `json:"revelation_place"`
	NameSimple      string `json:"name_simple"`
	NameArabic      string `json:"name_arabic"`
	VersesCount     int    `json:"verses_count"`
	TranslatedName  *struct {
		Name string `json:"name"`
	} `json:"translated_name"`
}

func (r chapterResponse) toDomain() domain.Chapter {
	ch := domain.Chapter{
		ID:              r.ID,
		NameArabic:      r.NameArabic,
		NameSimple:      r.NameSimple,
		RevelationPlace: r.RevelationPlace,
		VersesCount:     r.VersesCount,
	}
	if r.TranslatedName != nil {
		ch.NameTranslation = r.TranslatedName.Name
	}
	return ch
}

type verseResponse struct {
	ID           int    `json:"id"`
	VerseNumber  int    `json:"verse_number"`
	VerseKey     string `json:"verse_key"`
	TextUthmani  string `json:"text_uthmani"`
	JuzNumber    int    `json:"juz_number"`
	PageNumber   int    `json:"page_number"`
	Translations []struct {
		Text string `json:"text"`
	} `json:"translations"`
}

func (r verseResponse) toDomain(clean func(string) string) domain.Verse {
	verse := domain.Verse{
		ID:          r.ID,
		VerseNumber: r.VerseNumber,
		VerseKey:    r.VerseKey,
		TextUthmani: r.TextUthmani,
		JuzNumber:   r.JuzNumber,
		PageNumber:  r.PageNumber,
	}
	if len(r.Translations) > 0 {
		verse.Translation = clean(r.Translations[0].Text)
	}
	return verse
}

type audioFileResponse struct {
	VerseKey string `json:"verse_key"`
	URL      string `json:"url"`
}
