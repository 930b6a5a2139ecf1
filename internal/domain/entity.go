package domain

// Surah represents a chapter in the Quran
type Surah struct {
	Number int
	Name   string
	Ayahs  int
}

// Ayah represents a verse in the Quran
type Ayah struct {
	SurahNumber int
	AyahNumber  int
}

// AyahID returns the formatted ayah ID (XXXYYY format)
func (a Ayah) AyahID() string {
	return FormatAyahID(a.SurahNumber, a.AyahNumber)
}

// Verse is the canonical text of one ayah
type Verse struct {
	ID              int    `json:"id"`
	VerseNumber     int    `json:"verse_number"`
	VerseKey        string `json:"verse_key"`
	TextUthmani     string `json:"text_uthmani"`
	Transliteration string `json:"text_transliteration,omitempty"`
	Translation     string `json:"translation,omitempty"`
	AudioURL        string `json:"audio_url,omitempty"`
	JuzNumber       int    `json:"juz_number"`
	PageNumber      int    `json:"page_number"`
}

// Chapter is the surah metadata served by the Quran content API
type Chapter struct {
	ID              int    `json:"id"`
	NameArabic      string `json:"name_arabic"`
	NameSimple      string `json:"name_simple"`
	NameTranslation string `json:"name_translation"`
	RevelationPlace string `json:"revelation_place"`
	VersesCount     int    `json:"verses_count"`
}

// TajwidCategory groups rules the way Tajwid is taught
type TajwidCategory string

const (
	CategoryNoonSakinah TajwidCategory = "noon_sakinah"
	CategoryMeemSakinah TajwidCategory = "meem_sakinah"
	CategoryMadd        TajwidCategory = "madd"
	CategoryQalqalah    TajwidCategory = "qalqalah"
	CategoryGhunnah     TajwidCategory = "ghunnah"
	CategoryIdgham      TajwidCategory = "idgham"
	CategoryIkhfa       TajwidCategory = "ikhfa"
	CategoryIqlab       TajwidCategory = "iqlab"
	CategoryGeneral     TajwidCategory = "general"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// RuleInfo is the public, stable description of a Tajwid rule.
// ID is persisted in user preferences and must never change.
type RuleInfo struct {
	ID          string         `json:"id" yaml:"id"`
	Name        string         `json:"name" yaml:"name"`
	NameAr      string         `json:"name_ar" yaml:"name_ar"`
	Category    TajwidCategory `json:"category" yaml:"category"`
	Description string         `json:"description" yaml:"description"`
}

// TajwidOccurrence is one rule match in an analyzed text.
// Start and End are rune offsets, End exclusive.
type TajwidOccurrence struct {
	RuleID      string         `json:"rule_id" yaml:"rule_id"`
	RuleName    string         `json:"rule_name" yaml:"rule_name"`
	Start       int            `json:"start" yaml:"start"`
	End         int            `json:"end" yaml:"end"`
	Category    TajwidCategory `json:"category" yaml:"category"`
	Severity    Severity       `json:"severity" yaml:"severity"`
	Description string         `json:"description" yaml:"description"`
}

// RuleTally counts matches of one rule
type RuleTally struct {
	Found  int `json:"found" yaml:"found"`
	Errors int `json:"errors" yaml:"errors"`
}

// TajwidAnalysis is the result of analyzing one text
type TajwidAnalysis struct {
	Text          string               `json:"text" yaml:"text"`
	Occurrences   []TajwidOccurrence   `json:"occurrences" yaml:"occurrences"`
	Score         int                  `json:"score" yaml:"score"`
	RuleBreakdown map[string]RuleTally `json:"rule_breakdown" yaml:"rule_breakdown"`
}

// ComparisonResult is the word-level comparison of expected and recited text
type ComparisonResult struct {
	Accuracy    int      `json:"accuracy" yaml:"accuracy"`
	Differences []string `json:"differences" yaml:"differences"`
}

// PassThreshold is the overall score from which a recitation is validated
const PassThreshold = 70

// RecitationResult bundles everything produced for one recitation attempt
type RecitationResult struct {
	ID             string          `json:"id" yaml:"id"`
	AyahID         string          `json:"ayah_id,omitempty" yaml:"ayah_id,omitempty"`
	Transcription  string          `json:"transcription" yaml:"transcription"`
	Accuracy       int             `json:"accuracy" yaml:"accuracy"`
	TajwidAnalysis *TajwidAnalysis `json:"tajwid_analysis" yaml:"tajwid_analysis"`
	OverallScore   int             `json:"overall_score" yaml:"overall_score"`
	Differences    []string        `json:"differences" yaml:"differences"`
	DurationSec    int             `json:"duration_seconds" yaml:"duration_seconds"`
}

// Passed reports whether the attempt reaches PassThreshold
func (r *RecitationResult) Passed() bool {
	return r.OverallScore >= PassThreshold
}

// FeedbackDetail is one line of user-facing Tajwid feedback
type FeedbackDetail struct {
	Rule   string `json:"rule" yaml:"rule"`
	Status string `json:"status" yaml:"status"`
	Tip    string `json:"tip" yaml:"tip"`
}

// Language represents supported languages
type Language string

const (
	LangEnglish Language = "en"
	LangArabic  Language = "ar"
	LangRussian Language = "ru"
)
