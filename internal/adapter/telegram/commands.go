package telegram

import (
	"context"
	"strconv"
	"strings"

	"github.com/escalopa/quran-tajwid-bot/internal/domain"
	"github.com/escalopa/quran-tajwid-bot/internal/tajwid"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type CommandHandler func(ctx context.Context, msg *tgbotapi.Message)

// registerCommands registers all bot commands
func (b *Bot) registerCommands() {
	b.commands = map[string]CommandHandler{
		"start":     b.commandStart,
		"help":      b.commandHelp,
		"language":  b.commandLanguage,
		"newrecord": b.commandNewRecord,
		"rules":     b.commandRules,
		"tajwid":    b.commandTajwid,
	}

	// Set bot commands for Telegram UI
	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Start the bot"},
		{Command: "newrecord", Description: "Recite a new ayah"},
		{Command: "tajwid", Description: "Analyze Tajwid of a text"},
		{Command: "rules", Description: "Choose Tajwid rules"},
		{Command: "language", Description: "Change language"},
		{Command: "help", Description: "Show help"},
	}

	if _, err := b.api.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		b.logger.Error("set bot commands", "error", err)
	}
}

func (b *Bot) commandStart(ctx context.Context, msg *tgbotapi.Message) {
	userID := strconv.FormatInt(msg.From.ID, 10)
	lang := b.service.GetUserLanguage(ctx, userID)

	if err := b.service.HandleStart(ctx, userID, lang); err != nil {
		b.logger.Error("handle start", "user_id", userID, "error", err)
		b.sendMessage(msg.Chat.ID, b.i18n.Get(lang, "error.generic"))
		return
	}

	b.sendMessage(msg.Chat.ID, b.i18n.Get(lang, "welcome.message"))
	b.sendSurahSelection(msg.Chat.ID, lang, 0)
}

func (b *Bot) commandHelp(ctx context.Context, msg *tgbotapi.Message) {
	userID := strconv.FormatInt(msg.From.ID, 10)
	lang := b.service.GetUserLanguage(ctx, userID)
	b.sendMessage(msg.Chat.ID, b.i18n.Get(lang, "help.message"))
}

func (b *Bot) commandLanguage(ctx context.Context, msg *tgbotapi.Message) {
	userID := strconv.FormatInt(msg.From.ID, 10)
	lang := b.service.GetUserLanguage(ctx, userID)
	b.sendLanguageSelection(msg.Chat.ID, lang)
}

func (b *Bot) commandNewRecord(ctx context.Context, msg *tgbotapi.Message) {
	userID := strconv.FormatInt(msg.From.ID, 10)
	lang := b.service.GetUserLanguage(ctx, userID)

	if err := b.service.HandleStart(ctx, userID, lang); err != nil {
		b.logger.Error("handle start", "user_id", userID, "error", err)
		b.sendMessage(msg.Chat.ID, b.i18n.Get(lang, "error.generic"))
		return
	}

	b.sendSurahSelection(msg.Chat.ID, lang, 0)
}

func (b *Bot) commandRules(ctx context.Context, msg *tgbotapi.Message) {
	userID := strconv.FormatInt(msg.From.ID, 10)
	lang := b.service.GetUserLanguage(ctx, userID)

	enabled, err := b.service.GetEnabledRules(ctx, userID)
	if err != nil {
		b.logger.Error("get enabled rules", "user_id", userID, "error", err)
		b.sendMessage(msg.Chat.ID, b.i18n.Get(lang, "error.generic"))
		return
	}

	b.sendWithKeyboard(msg.Chat.ID, b.rulesTitle(lang, enabled), rulesKeyboard(enabled))
}

func (b *Bot) commandTajwid(ctx context.Context, msg *tgbotapi.Message) {
	userID := strconv.FormatInt(msg.From.ID, 10)
	lang := b.service.GetUserLanguage(ctx, userID)

	text := strings.TrimSpace(msg.CommandArguments())
	if text == "" {
		b.sendMessage(msg.Chat.ID, b.i18n.Get(lang, "tajwid.usage"))
		return
	}

	analysis, err := b.service.AnalyzeText(ctx, userID, text)
	if err != nil {
		b.logger.Error("analyze text", "user_id", userID, "error", err)
		b.sendMessage(msg.Chat.ID, b.i18n.Get(lang, "error.generic"))
		return
	}

	b.sendMessage(msg.Chat.ID, b.service.FormatAnalysis(lang, analysis))
}

func (b *Bot) handleRuleToggle(ctx context.Context, callback *tgbotapi.CallbackQuery, userID string, lang domain.Language, ruleID string) {
	enabled, err := b.service.ToggleRule(ctx, userID, ruleID)
	if err != nil {
		b.logger.Error("toggle rule", "user_id", userID, "rule", ruleID, "error", err)
		b.answerCallbackAlert(callback.ID, b.i18n.Get(lang, "error.invalid_input"))
		return
	}

	b.editMessageWithKeyboard(callback.Message, b.rulesTitle(lang, enabled), rulesKeyboard(enabled))
}

func (b *Bot) rulesTitle(lang domain.Language, enabled []string) string {
	return b.i18n.Get(lang, "rules.title", len(enabled), len(tajwid.AvailableRules()))
}

// rulesKeyboard lists every rule, one per row, marked by whether it is enabled
func rulesKeyboard(enabled []string) tgbotapi.InlineKeyboardMarkup {
	on := make(map[string]bool, len(enabled))
	for _, id := range enabled {
		on[id] = true
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, rule := range tajwid.AvailableRules() {
		mark := "⬜"
		if on[rule.ID] {
			mark = "✅"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(mark+" "+rule.Name+" · "+rule.NameAr, prefixRule+rule.ID),
		))
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
