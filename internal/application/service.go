package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/escalopa/quran-tajwid-bot/internal/domain"
	"github.com/escalopa/quran-tajwid-bot/internal/tajwid"
)

// BotService handles the business logic for the bot
type BotService struct {
	quran      domain.QuranContentPort
	fsm        domain.FSMPort
	i18n       domain.I18nPort
	recitation *RecitationService
}

func NewBotService(quran domain.QuranContentPort, fsm domain.FSMPort, i18n domain.I18nPort, recitation *RecitationService) *BotService {
	return &BotService{
		quran:      quran,
		fsm:        fsm,
		i18n:       i18n,
		recitation: recitation,
	}
}

// HandleStart handles the /start command
func (s *BotService) HandleStart(ctx context.Context, userID string, lang domain.Language) error {
	// Set initial state
	if err := s.fsm.SetState(ctx, userID, domain.StateSelectSurah); err != nil {
		return fmt.Errorf("set state: %w", err)
	}

	// Store user language
	if err := s.fsm.SetData(ctx, userID, domain.SessionKeyLanguage, string(lang)); err != nil {
		return fmt.Errorf("set language: %w", err)
	}

	return nil
}

// GetCurrentState returns the current state for a user
func (s *BotService) GetCurrentState(ctx context.Context, userID string) (domain.State, error) {
	return s.fsm.GetState(ctx, userID)
}

// HandleSurahSelection handles when a user selects a Surah
func (s *BotService) HandleSurahSelection(ctx context.Context, userID string, surahNumber int) error {
	if _, ok := domain.GetSurah(surahNumber); !ok {
		return fmt.Errorf("invalid surah number: %d", surahNumber)
	}

	if err := s.fsm.SetData(ctx, userID, domain.SessionKeySurah, strconv.Itoa(surahNumber)); err != nil {
		return fmt.Errorf("set surah: %w", err)
	}

	if err := s.fsm.SetState(ctx, userID, domain.StateEnterAyah); err != nil {
		return fmt.Errorf("set state: %w", err)
	}

	return nil
}

// HandleAyahInput validates the ayah number, fetches the verse and stores
// its text as the expected recitation.
func (s *BotService) HandleAyahInput(ctx context.Context, userID, input string) (*domain.Verse, error) {
	ayahNumber, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return nil, fmt.Errorf("invalid ayah number: %s", input)
	}

	surahNumber, err := s.GetSelectedSurah(ctx, userID)
	if err != nil {
		return nil, err
	}

	surah, ok := domain.GetSurah(surahNumber)
	if !ok {
		return nil, fmt.Errorf("invalid surah: %d", surahNumber)
	}
	if ayahNumber < 1 || ayahNumber > surah.Ayahs {
		return nil, fmt.Errorf("invalid ayah number: %d (surah %d has %d ayahs)", ayahNumber, surahNumber, surah.Ayahs)
	}

	verse, err := s.quran.GetVerse(ctx, surahNumber, ayahNumber)
	if err != nil {
		return nil, fmt.Errorf("get verse: %w", err)
	}

	if err := s.fsm.SetData(ctx, userID, domain.SessionKeyAyah, strconv.Itoa(ayahNumber)); err != nil {
		return nil, fmt.Errorf("set ayah: %w", err)
	}
	if err := s.fsm.SetData(ctx, userID, domain.SessionKeyExpectedText, verse.TextUthmani); err != nil {
		return nil, fmt.Errorf("set expected text: %w", err)
	}

	if err := s.fsm.SetState(ctx, userID, domain.StateWaitRecording); err != nil {
		return nil, fmt.Errorf("set state: %w", err)
	}

	return verse, nil
}

// HandleRecording scores a voice recording against the selected ayah
func (s *BotService) HandleRecording(ctx context.Context, userID string, audio io.Reader, durationSeconds int) (*domain.RecitationResult, error) {
	expected, err := s.fsm.GetData(ctx, userID, domain.SessionKeyExpectedText)
	if err != nil {
		return nil, fmt.Errorf("get expected text: %w", err)
	}

	if err := s.fsm.SetState(ctx, userID, domain.StateProcessing); err != nil {
		return nil, fmt.Errorf("set state: %w", err)
	}

	result, err := s.recitation.FullRecitationAnalysis(ctx, audio, RecordingFilename, expected, durationSeconds)
	if err != nil {
		// Let the user retry the same ayah
		if stateErr := s.fsm.SetState(ctx, userID, domain.StateWaitRecording); stateErr != nil {
			return nil, errors.Join(fmt.Errorf("analyze recitation: %w", err), fmt.Errorf("reset state: %w", stateErr))
		}
		return nil, fmt.Errorf("analyze recitation: %w", err)
	}

	if err := s.fsm.SetState(ctx, userID, domain.StateWaitRecording); err != nil {
		return nil, fmt.Errorf("reset state: %w", err)
	}

	if ayah, err := s.selectedAyah(ctx, userID); err == nil {
		result.AyahID = ayah.AyahID()
	}

	return result, nil
}

func (s *BotService) selectedAyah(ctx context.Context, userID string) (domain.Ayah, error) {
	surahNumber, err := s.GetSelectedSurah(ctx, userID)
	if err != nil {
		return domain.Ayah{}, err
	}
	raw, err := s.fsm.GetData(ctx, userID, domain.SessionKeyAyah)
	if err != nil {
		return domain.Ayah{}, fmt.Errorf("get ayah: %w", err)
	}
	ayahNumber, err := strconv.Atoi(raw)
	if err != nil {
		return domain.Ayah{}, fmt.Errorf("parse ayah: %w", err)
	}
	return domain.Ayah{SurahNumber: surahNumber, AyahNumber: ayahNumber}, nil
}

// GetUserLanguage retrieves the user's preferred language
func (s *BotService) GetUserLanguage(ctx context.Context, userID string) domain.Language {
	langStr, err := s.fsm.GetData(ctx, userID, domain.SessionKeyLanguage)
	if err != nil || langStr == "" {
		return domain.LangEnglish // default
	}
	return domain.Language(langStr)
}

// GetSelectedSurah returns the currently selected surah for a user
func (s *BotService) GetSelectedSurah(ctx context.Context, userID string) (int, error) {
	surahStr, err := s.fsm.GetData(ctx, userID, domain.SessionKeySurah)
	if err != nil {
		return 0, fmt.Errorf("get surah: %w", err)
	}

	return strconv.Atoi(surahStr)
}

// GetAllSurahs returns all surahs
func (s *BotService) GetAllSurahs() []domain.Surah {
	return domain.GetAllSurahs()
}

// GetAyahInput gets the accumulated ayah input for a user
func (s *BotService) GetAyahInput(ctx context.Context, userID string) string {
	input, err := s.fsm.GetData(ctx, userID, domain.SessionKeyAyahInput)
	if err != nil {
		return ""
	}
	return input
}

// SetAyahInput sets the accumulated ayah input for a user
func (s *BotService) SetAyahInput(ctx context.Context, userID, input string) error {
	return s.fsm.SetData(ctx, userID, domain.SessionKeyAyahInput, input)
}

// ClearAyahInput clears the accumulated ayah input for a user
func (s *BotService) ClearAyahInput(ctx context.Context, userID string) error {
	return s.fsm.DeleteData(ctx, userID, domain.SessionKeyAyahInput)
}

// GetEnabledRules returns the rule ids the user keeps enabled, in catalogue
// order. Users who never changed their preferences get every rule.
func (s *BotService) GetEnabledRules(ctx context.Context, userID string) ([]string, error) {
	raw, err := s.fsm.GetData(ctx, userID, domain.SessionKeyRules)
	if errors.Is(err, domain.ErrDataNotFound) {
		return allRuleIDs(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get rules: %w", err)
	}

	enabled := make(map[string]bool)
	for _, id := range strings.Split(raw, ",") {
		enabled[strings.TrimSpace(id)] = true
	}

	ids := make([]string, 0, len(enabled))
	for _, id := range allRuleIDs() {
		if enabled[id] {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// ToggleRule flips a rule on or off for the user and returns the new set
func (s *BotService) ToggleRule(ctx context.Context, userID, ruleID string) ([]string, error) {
	if !tajwid.IsKnownRule(ruleID) {
		return nil, fmt.Errorf("unknown rule: %s", ruleID)
	}

	current, err := s.GetEnabledRules(ctx, userID)
	if err != nil {
		return nil, err
	}

	next := make([]string, 0, len(current)+1)
	found := false
	for _, id := range current {
		if id == ruleID {
			found = true
			continue
		}
		next = append(next, id)
	}
	if !found {
		next = append(next, ruleID)
	}

	if err := s.fsm.SetData(ctx, userID, domain.SessionKeyRules, strings.Join(next, ",")); err != nil {
		return nil, fmt.Errorf("set rules: %w", err)
	}

	return s.GetEnabledRules(ctx, userID)
}

// AnalyzeText runs the Tajwid engine with the user's enabled rules
func (s *BotService) AnalyzeText(ctx context.Context, userID, text string) (*domain.TajwidAnalysis, error) {
	rules, err := s.GetEnabledRules(ctx, userID)
	if err != nil {
		return nil, err
	}
	return tajwid.Analyze(text, rules), nil
}

// FormatAnalysis formats Tajwid occurrences for display
func (s *BotService) FormatAnalysis(lang domain.Language, analysis *domain.TajwidAnalysis) string {
	var sb strings.Builder

	if len(analysis.Occurrences) == 0 {
		sb.WriteString(s.i18n.Get(lang, "tajwid.none"))
		return sb.String()
	}

	runes := []rune(analysis.Text)
	sb.WriteString(s.i18n.Get(lang, "tajwid.header", len(analysis.Occurrences)))
	sb.WriteString("\n")
	for _, occ := range analysis.Occurrences {
		fragment := ""
		if occ.Start >= 0 && occ.End <= len(runes) && occ.Start < occ.End {
			fragment = string(runes[occ.Start:occ.End])
		}
		sb.WriteString(fmt.Sprintf("• %s «%s»: %s\n", occ.RuleName, fragment, occ.Description))
	}

	return sb.String()
}

// FormatRecitationResult formats the recitation result for display
func (s *BotService) FormatRecitationResult(lang domain.Language, result *domain.RecitationResult) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s: %d%%\n", s.i18n.Get(lang, "result.overall"), result.OverallScore))
	sb.WriteString(fmt.Sprintf("%s: %d%%\n", s.i18n.Get(lang, "result.accuracy"), result.Accuracy))
	sb.WriteString(fmt.Sprintf("%s: %d%%\n", s.i18n.Get(lang, "result.tajwid"), result.TajwidAnalysis.Score))

	if result.Passed() {
		sb.WriteString("✅ " + s.i18n.Get(lang, "result.passed"))
	} else {
		sb.WriteString("❌ " + s.i18n.Get(lang, "result.failed", domain.PassThreshold))
	}
	sb.WriteString("\n\n")

	sb.WriteString(s.i18n.Get(lang, "result.transcription"))
	sb.WriteString(":\n")
	sb.WriteString(result.Transcription)
	sb.WriteString("\n")

	if len(result.Differences) > 0 {
		sb.WriteString("\n")
		sb.WriteString(s.i18n.Get(lang, "result.differences"))
		sb.WriteString(":\n")
		for _, diff := range result.Differences {
			sb.WriteString("🔄 " + diff + "\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(s.i18n.Get(lang, "result.feedback"))
	sb.WriteString(":\n")
	for _, detail := range FeedbackDetails(result.Accuracy) {
		sb.WriteString(fmt.Sprintf("• %s: %s\n", detail.Rule, detail.Status))
	}

	return sb.String()
}

func allRuleIDs() []string {
	rules := tajwid.AvailableRules()
	ids := make([]string, len(rules))
	for i, rule := range rules {
		ids[i] = rule.ID
	}
	return ids
}
