package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/escalopa/quran-tajwid-bot/internal/application"
	"github.com/escalopa/quran-tajwid-bot/internal/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	surahsPerPage   = 10
	maxAyahDigits   = 3
	callbackNoop    = "noop"
	callbackClear   = "clear"
	callbackDone    = "done"
	callbackNew     = "newrecord"
	callbackRetry   = "retry"
	prefixLang      = "lang:"
	prefixPage      = "spage:"
	prefixSurah     = "surah:"
	prefixDigit     = "digit:"
	prefixRule      = "rule:"
	downloadTimeout = 30 * time.Second
)

var _ domain.BotPort = (*Bot)(nil)

type Bot struct {
	api        *tgbotapi.BotAPI
	service    *application.BotService
	i18n       domain.I18nPort
	commands   map[string]CommandHandler
	httpClient *http.Client
	logger     *slog.Logger
	cancel     context.CancelFunc
}

func NewBot(token string, service *application.BotService, i18n domain.I18nPort, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	bot := &Bot{
		api:        api,
		service:    service,
		i18n:       i18n,
		httpClient: &http.Client{Timeout: downloadTimeout},
		logger:     logger,
	}

	bot.registerCommands()

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	b.cancel = cancel

	b.logger.Info("telegram bot authorized", "username", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) Stop() error {
	if b.cancel != nil {
		b.cancel()
	}
	b.api.StopReceivingUpdates()
	return nil
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	userID := getUserID(update)
	if userID == "" {
		return
	}

	lang := b.service.GetUserLanguage(ctx, userID)

	switch {
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message, lang)
	case update.Message != nil && update.Message.Voice != nil:
		b.handleVoice(ctx, update.Message, lang)
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery, lang)
	case update.Message != nil && update.Message.Text != "":
		b.handleText(ctx, update.Message, lang)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, lang domain.Language) {
	handler, exists := b.commands[msg.Command()]
	if !exists {
		b.sendMessage(msg.Chat.ID, b.i18n.Get(lang, "error.unknown_command"))
		return
	}

	handler(ctx, msg)
}

func (b *Bot) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery, lang domain.Language) {
	if callback.Message == nil {
		return
	}
	userID := strconv.FormatInt(callback.From.ID, 10)
	chatID := callback.Message.Chat.ID
	data := callback.Data

	// Answer callback to remove loading state
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		b.logger.Debug("answer callback", "error", err)
	}

	if code, ok := strings.CutPrefix(data, prefixLang); ok {
		newLang := domain.Language(code)
		if err := b.service.HandleStart(ctx, userID, newLang); err != nil {
			b.logger.Error("set language", "user_id", userID, "error", err)
			return
		}
		b.sendMessage(chatID, b.i18n.Get(newLang, "language.changed"))
		b.sendSurahSelection(chatID, newLang, 0)
		return
	}

	if raw, ok := strings.CutPrefix(data, prefixPage); ok {
		page, _ := strconv.Atoi(raw)
		b.editMessageWithKeyboard(callback.Message, b.i18n.Get(lang, "surah.select"), b.getSurahKeyboard(lang, page))
		return
	}

	if raw, ok := strings.CutPrefix(data, prefixSurah); ok {
		b.handleSurahSelected(ctx, callback, userID, lang, raw)
		return
	}

	if digit, ok := strings.CutPrefix(data, prefixDigit); ok {
		b.handleDigitInput(ctx, callback.Message, userID, lang, digit)
		return
	}

	if ruleID, ok := strings.CutPrefix(data, prefixRule); ok {
		b.handleRuleToggle(ctx, callback, userID, lang, ruleID)
		return
	}

	switch data {
	case callbackClear:
		b.handleClearDigit(ctx, callback.Message, userID, lang)
	case callbackDone:
		b.handleAyahDone(ctx, callback.Message, userID, lang)
	case callbackRetry:
		b.deleteMessage(chatID, callback.Message.MessageID)
		b.sendMessage(chatID, b.i18n.Get(lang, "recording.prompt"))
	case callbackNew:
		if err := b.service.HandleStart(ctx, userID, lang); err != nil {
			b.logger.Error("restart session", "user_id", userID, "error", err)
			return
		}
		b.deleteMessage(chatID, callback.Message.MessageID)
		b.sendSurahSelection(chatID, lang, 0)
	}
}

func (b *Bot) handleSurahSelected(ctx context.Context, callback *tgbotapi.CallbackQuery, userID string, lang domain.Language, raw string) {
	surahNum, err := strconv.Atoi(raw)
	if err != nil {
		b.answerCallbackAlert(callback.ID, b.i18n.Get(lang, "error.invalid_input"))
		return
	}

	if err := b.service.HandleSurahSelection(ctx, userID, surahNum); err != nil {
		b.logger.Error("select surah", "user_id", userID, "surah", surahNum, "error", err)
		b.answerCallbackAlert(callback.ID, b.i18n.Get(lang, "error.generic"))
		return
	}

	if err := b.service.ClearAyahInput(ctx, userID); err != nil {
		b.logger.Warn("clear ayah input", "user_id", userID, "error", err)
	}

	b.editMessageWithKeyboard(callback.Message, b.ayahPrompt(lang, surahNum, "", ""), b.getAyahKeyboard(lang))
}

func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message, lang domain.Language) {
	userID := strconv.FormatInt(msg.From.ID, 10)
	chatID := msg.Chat.ID

	state, err := b.service.GetCurrentState(ctx, userID)
	if err != nil {
		b.logger.Error("get state", "user_id", userID, "error", err)
		b.sendMessage(chatID, b.i18n.Get(lang, "error.generic"))
		return
	}

	if state == domain.StateEnterAyah {
		if err := b.submitAyah(ctx, chatID, userID, lang, msg.Text); err != nil {
			b.sendMessage(chatID, b.i18n.Get(lang, "error.invalid_ayah"))
		}
		return
	}

	b.sendMessage(chatID, b.i18n.Get(lang, "help.message"))
}

func (b *Bot) handleDigitInput(ctx context.Context, msg *tgbotapi.Message, userID string, lang domain.Language, digit string) {
	currentInput := b.service.GetAyahInput(ctx, userID)

	if len(currentInput) < maxAyahDigits {
		currentInput += digit
		if err := b.service.SetAyahInput(ctx, userID, currentInput); err != nil {
			b.logger.Error("set ayah input", "user_id", userID, "error", err)
			return
		}
	}

	b.refreshAyahPrompt(ctx, msg, userID, lang, currentInput, "")
}

func (b *Bot) handleClearDigit(ctx context.Context, msg *tgbotapi.Message, userID string, lang domain.Language) {
	currentInput := b.service.GetAyahInput(ctx, userID)

	if len(currentInput) > 0 {
		currentInput = currentInput[:len(currentInput)-1]
		if err := b.service.SetAyahInput(ctx, userID, currentInput); err != nil {
			b.logger.Error("set ayah input", "user_id", userID, "error", err)
			return
		}
	}

	b.refreshAyahPrompt(ctx, msg, userID, lang, currentInput, "")
}

func (b *Bot) handleAyahDone(ctx context.Context, msg *tgbotapi.Message, userID string, lang domain.Language) {
	ayahInput := b.service.GetAyahInput(ctx, userID)
	if ayahInput == "" {
		b.refreshAyahPrompt(ctx, msg, userID, lang, "", b.i18n.Get(lang, "error.invalid_ayah"))
		return
	}

	if err := b.submitAyah(ctx, msg.Chat.ID, userID, lang, ayahInput); err != nil {
		b.refreshAyahPrompt(ctx, msg, userID, lang, ayahInput, b.i18n.Get(lang, "error.invalid_ayah"))
		return
	}

	if err := b.service.ClearAyahInput(ctx, userID); err != nil {
		b.logger.Warn("clear ayah input", "user_id", userID, "error", err)
	}
	b.deleteMessage(msg.Chat.ID, msg.MessageID)
}

// submitAyah stores the chosen ayah and shows it with its Tajwid notes
func (b *Bot) submitAyah(ctx context.Context, chatID int64, userID string, lang domain.Language, input string) error {
	verse, err := b.service.HandleAyahInput(ctx, userID, input)
	if err != nil {
		b.logger.Info("ayah input rejected", "user_id", userID, "input", input, "error", err)
		return err
	}

	surahNum, err := b.service.GetSelectedSurah(ctx, userID)
	if err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString(b.i18n.Get(lang, "verse.header", b.i18n.GetSurahName(lang, surahNum), verse.VerseNumber))
	sb.WriteString("\n\n")
	sb.WriteString(verseBody(verse))
	sb.WriteString("\n")

	analysis, err := b.service.AnalyzeText(ctx, userID, verse.TextUthmani)
	if err != nil {
		b.logger.Warn("analyze verse", "user_id", userID, "verse", verse.VerseKey, "error", err)
	} else {
		sb.WriteString(b.service.FormatAnalysis(lang, analysis))
		sb.WriteString("\n")
	}

	sb.WriteString(b.i18n.Get(lang, "recording.prompt"))
	b.sendMessage(chatID, sb.String())

	if verse.AudioURL != "" {
		b.sendAudio(chatID, verse.AudioURL, b.i18n.Get(lang, "verse.listen"))
	}
	return nil
}

// verseBody renders the Uthmani text followed by the transliteration and
// translation when the content API returned them
func verseBody(verse *domain.Verse) string {
	var sb strings.Builder
	sb.WriteString(verse.TextUthmani)
	sb.WriteString("\n")
	if verse.Transliteration != "" {
		sb.WriteString("\n")
		sb.WriteString(verse.Transliteration)
		sb.WriteString("\n")
	}
	if verse.Translation != "" {
		sb.WriteString("\n")
		sb.WriteString(verse.Translation)
		sb.WriteString("\n")
	}
	return sb.String()
}

func (b *Bot) refreshAyahPrompt(ctx context.Context, msg *tgbotapi.Message, userID string, lang domain.Language, input, warning string) {
	surahNum, err := b.service.GetSelectedSurah(ctx, userID)
	if err != nil {
		b.logger.Error("get selected surah", "user_id", userID, "error", err)
		return
	}
	if _, ok := domain.GetSurah(surahNum); !ok {
		return
	}

	b.editMessageWithKeyboard(msg, b.ayahPrompt(lang, surahNum, input, warning), b.getAyahKeyboard(lang))
}

func (b *Bot) ayahPrompt(lang domain.Language, surahNum int, input, warning string) string {
	surah, _ := domain.GetSurah(surahNum)
	text := b.i18n.Get(lang, "ayah.select", b.i18n.GetSurahName(lang, surahNum), surah.Ayahs)
	if input != "" {
		text += fmt.Sprintf("\n\n📝 %s", input)
	}
	if warning != "" {
		text += "\n\n⚠️ " + warning
	}
	return text
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("send message", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) sendAudio(chatID int64, url, caption string) {
	audio := tgbotapi.NewAudio(chatID, tgbotapi.FileURL(url))
	audio.Caption = caption
	if _, err := b.api.Send(audio); err != nil {
		b.logger.Warn("send reciter audio", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) sendWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("send message", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) sendLanguageSelection(chatID int64, currentLang domain.Language) {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🇬🇧 English", prefixLang+string(domain.LangEnglish)),
			tgbotapi.NewInlineKeyboardButtonData("🇸🇦 العربية", prefixLang+string(domain.LangArabic)),
			tgbotapi.NewInlineKeyboardButtonData("🇷🇺 Русский", prefixLang+string(domain.LangRussian)),
		),
	)

	b.sendWithKeyboard(chatID, b.i18n.Get(currentLang, "language.select"), keyboard)
}

func (b *Bot) sendSurahSelection(chatID int64, lang domain.Language, page int) {
	b.sendWithKeyboard(chatID, b.i18n.Get(lang, "surah.select"), b.getSurahKeyboard(lang, page))
}

func (b *Bot) getSurahKeyboard(lang domain.Language, page int) tgbotapi.InlineKeyboardMarkup {
	surahs := b.service.GetAllSurahs()
	totalPages := (len(surahs) + surahsPerPage - 1) / surahsPerPage

	if page < 0 {
		page = 0
	}
	if page >= totalPages {
		page = totalPages - 1
	}

	start := page * surahsPerPage
	end := min(start+surahsPerPage, len(surahs))

	var rows [][]tgbotapi.InlineKeyboardButton

	// Two surahs per row
	for i := start; i < end; i += 2 {
		row := []tgbotapi.InlineKeyboardButton{b.surahButton(lang, surahs[i])}
		if i+1 < end {
			row = append(row, b.surahButton(lang, surahs[i+1]))
		}
		rows = append(rows, row)
	}

	if totalPages > 1 {
		var navRow []tgbotapi.InlineKeyboardButton
		if page > 0 {
			navRow = append(navRow, tgbotapi.NewInlineKeyboardButtonData("⬅️ "+b.i18n.Get(lang, "nav.prev"), fmt.Sprintf("%s%d", prefixPage, page-1)))
		}
		navRow = append(navRow, tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%d/%d", page+1, totalPages), callbackNoop))
		if page < totalPages-1 {
			navRow = append(navRow, tgbotapi.NewInlineKeyboardButtonData(b.i18n.Get(lang, "nav.next")+" ➡️", fmt.Sprintf("%s%d", prefixPage, page+1)))
		}
		rows = append(rows, navRow)
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) surahButton(lang domain.Language, surah domain.Surah) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(
		fmt.Sprintf("%d. %s", surah.Number, b.i18n.GetSurahName(lang, surah.Number)),
		fmt.Sprintf("%s%d", prefixSurah, surah.Number),
	)
}

// getAyahKeyboard is a telephone-style keypad
func (b *Bot) getAyahKeyboard(lang domain.Language) tgbotapi.InlineKeyboardMarkup {
	digit := func(d string) tgbotapi.InlineKeyboardButton {
		return tgbotapi.NewInlineKeyboardButtonData(d, prefixDigit+d)
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(digit("1"), digit("2"), digit("3")),
		tgbotapi.NewInlineKeyboardRow(digit("4"), digit("5"), digit("6")),
		tgbotapi.NewInlineKeyboardRow(digit("7"), digit("8"), digit("9")),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ "+b.i18n.Get(lang, "nav.back"), callbackClear),
			digit("0"),
			tgbotapi.NewInlineKeyboardButtonData("✅ "+b.i18n.Get(lang, "nav.done"), callbackDone),
		),
	)
}

func (b *Bot) editMessageWithKeyboard(msg *tgbotapi.Message, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageText(msg.Chat.ID, msg.MessageID, text)
	edit.ReplyMarkup = &keyboard
	if _, err := b.api.Send(edit); err != nil {
		b.logger.Error("edit message", "chat_id", msg.Chat.ID, "error", err)
	}
}

func (b *Bot) deleteMessage(chatID int64, messageID int) {
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		b.logger.Debug("delete message", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) answerCallbackAlert(callbackID, text string) {
	callback := tgbotapi.NewCallbackWithAlert(callbackID, text)
	if _, err := b.api.Request(callback); err != nil {
		b.logger.Error("answer callback", "error", err)
	}
}

func getUserID(update tgbotapi.Update) string {
	if update.Message != nil && update.Message.From != nil {
		return strconv.FormatInt(update.Message.From.ID, 10)
	}
	if update.CallbackQuery != nil && update.CallbackQuery.From != nil {
		return strconv.FormatInt(update.CallbackQuery.From.ID, 10)
	}
	return ""
}
