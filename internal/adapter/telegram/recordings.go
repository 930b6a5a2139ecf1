package telegram

import (
	"context"
	"errors"
	"strconv"

	"github.com/escalopa/quran-tajwid-bot/internal/adapter/whisper"
	"github.com/escalopa/quran-tajwid-bot/internal/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// handleVoice scores a voice recording of the ayah the user selected
func (b *Bot) handleVoice(ctx context.Context, msg *tgbotapi.Message, lang domain.Language) {
	userID := strconv.FormatInt(msg.From.ID, 10)
	chatID := msg.Chat.ID

	state, err := b.service.GetCurrentState(ctx, userID)
	if err != nil || state != domain.StateWaitRecording {
		b.sendMessage(chatID, b.i18n.Get(lang, "error.unexpected_voice"))
		return
	}

	b.sendMessage(chatID, b.i18n.Get(lang, "recording.processing"))

	audio, err := b.processVoiceMessage(ctx, msg.Voice.FileID)
	if err != nil {
		b.logger.Error("process voice message", "user_id", userID, "error", err)
		b.sendMessage(chatID, b.i18n.Get(lang, "error.audio_conversion"))
		return
	}

	result, err := b.service.HandleRecording(ctx, userID, audio, msg.Voice.Duration)
	if err != nil {
		b.logger.Error("handle recording", "user_id", userID, "error", err)
		b.sendMessage(chatID, b.i18n.Get(lang, recordingErrorKey(err)))
		return
	}

	b.sendMessage(chatID, b.service.FormatRecitationResult(lang, result))
	b.sendWithKeyboard(chatID, b.i18n.Get(lang, "recording.what_next"), b.nextStepKeyboard(lang))
}

func (b *Bot) nextStepKeyboard(lang domain.Language) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.i18n.Get(lang, "recording.retry"), callbackRetry),
			tgbotapi.NewInlineKeyboardButtonData(b.i18n.Get(lang, "recording.new"), callbackNew),
		),
	)
}

// recordingErrorKey maps a scoring failure to the message shown to the user
func recordingErrorKey(err error) string {
	switch {
	case errors.Is(err, whisper.ErrMissingAPIKey):
		return "error.no_api_key"
	case errors.Is(err, whisper.ErrRateLimited):
		return "error.rate_limited"
	case errors.Is(err, whisper.ErrEmptyAudio):
		return "error.audio_conversion"
	default:
		return "error.recording_failed"
	}
}
