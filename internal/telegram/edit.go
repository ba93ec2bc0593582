package telegram

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"order-relay-bot/internal/order"
	"order-relay-bot/internal/telegram/internal/presentation"
	"order-relay-bot/internal/textdiff"
)

// handleSourceEdit reacts to an edit of a tracked order message.
func (b *Bot) handleSourceEdit(ctx context.Context, _ *bot.Bot, update *models.Update) {
	msg := update.EditedMessage
	record, err := b.orderService.FindByOrigin(ctx, msg.Chat.ID, msg.ID)
	if err != nil {
		if !errors.Is(err, order.ErrNotFound) {
			slog.Error("Failed to look up edited order", "error", err, "chatID", msg.Chat.ID, "messageID", msg.ID)
		}
		return
	}
	if !textdiff.Changed(record.OriginalText, msg.Text) {
		return
	}

	diff := textdiff.Render(record.OriginalText, msg.Text)
	b.notify(ctx, originReply(record, presentation.EditDiffMsg(diff)))

	updateCardID := 0
	updateCard, err := b.deliver(ctx, &bot.SendMessageParams{
		ChatID:      b.operatorID,
		Text:        presentation.UpdateCardMsg(record, diff),
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: presentation.AcceptEditKbd(record.CardID),
		ReplyParameters: &models.ReplyParameters{
			MessageID:                record.CardID,
			AllowSendingWithoutReply: true,
		},
	})
	if err != nil {
		slog.Error("Failed to send update card", "error", err, "cardID", record.CardID)
	} else {
		updateCardID = updateCard.ID
	}

	if _, err := b.orderService.ApplyEdit(ctx, record.CardID, msg.Text, updateCardID); err != nil {
		slog.Error("Failed to store edited order", "error", err, "cardID", record.CardID)
		return
	}
	// An older pending update card is superseded.
	b.editMarkup(ctx, b.operatorID, record.EditNotificationID, presentation.EmptyKbd())
}

func (b *Bot) handleAcceptEdit(ctx context.Context, _ *bot.Bot, update *models.Update) {
	query := update.CallbackQuery
	if query.From.ID != b.operatorID {
		b.answer(ctx, query, "", false)
		return
	}
	_, cardID, err := parseCardCallback(query.Data, presentation.AcceptEditPrefix)
	if err != nil {
		b.answer(ctx, query, presentation.UnknownActionMsg(), true)
		return
	}
	record, err := b.orderService.AcceptEdit(ctx, cardID)
	if err != nil {
		b.answer(ctx, query, presentation.OrderNotFoundMsg(), true)
		return
	}

	b.notify(ctx, originReply(record, presentation.ChangesAcceptedMsg()))
	if chatID, messageID, ok := cardRef(query); ok {
		b.editMarkup(ctx, chatID, messageID, presentation.EmptyKbd())
	}
	b.answer(ctx, query, presentation.ChangesAcceptedPopup(), false)
}
