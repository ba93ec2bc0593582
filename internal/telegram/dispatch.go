package telegram

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// notify sends a message whose loss is tolerable. It returns 0 when sending failed.
func (b *Bot) notify(ctx context.Context, params *bot.SendMessageParams) int {
	msg, err := b.api.SendMessage(ctx, params)
	if err != nil {
		slog.Warn("Failed to send notification", "error", err, "chatID", params.ChatID)
		return 0
	}
	return msg.ID
}

// deliver sends a message the caller cannot proceed without.
func (b *Bot) deliver(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	msg, err := b.api.SendMessage(ctx, params)
	if err != nil {
		slog.Error("Failed to send message", "error", err, "chatID", params.ChatID)
		return nil, err
	}
	return msg, nil
}

func (b *Bot) deleteMessage(ctx context.Context, chatID int64, messageID int) {
	if messageID == 0 {
		return
	}
	if _, err := b.api.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: messageID,
	}); err != nil {
		slog.Warn("Failed to delete message", "error", err, "chatID", chatID, "messageID", messageID)
	}
}

func (b *Bot) editMarkup(ctx context.Context, chatID int64, messageID int, markup models.ReplyMarkup) {
	if messageID == 0 {
		return
	}
	if _, err := b.api.EditMessageReplyMarkup(ctx, &bot.EditMessageReplyMarkupParams{
		ChatID:      chatID,
		MessageID:   messageID,
		ReplyMarkup: markup,
	}); err != nil {
		slog.Warn("Failed to edit reply markup", "error", err, "chatID", chatID, "messageID", messageID)
	}
}

func (b *Bot) answer(ctx context.Context, query *models.CallbackQuery, text string, alert bool) {
	if _, err := b.api.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: query.ID,
		Text:            text,
		ShowAlert:       alert,
	}); err != nil {
		slog.Warn("Failed to answer callback query", "error", err, "data", query.Data)
	}
}

func toOperator(chatID int64, text string) *bot.SendMessageParams {
	return &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
}

func replyTo(msg *models.Message, text string) *bot.SendMessageParams {
	return &bot.SendMessageParams{
		ChatID:          msg.Chat.ID,
		MessageThreadID: msg.MessageThreadID,
		Text:            text,
		ParseMode:       models.ParseModeHTML,
		ReplyParameters: &models.ReplyParameters{
			MessageID:                msg.ID,
			AllowSendingWithoutReply: true,
		},
	}
}
