package telegram

import (
	"context"
	"log/slog"
	"runtime/debug"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"order-relay-bot/internal/contact"
	"order-relay-bot/internal/order"
	"order-relay-bot/internal/pkg/config"
	"order-relay-bot/internal/telegram/internal/presentation"
)

// handleInboundOrder hands the order to a background intake so that a slow address check
// does not hold up the updates queued behind it.
func (b *Bot) handleInboundOrder(ctx context.Context, _ *bot.Bot, update *models.Update) {
	msg := update.Message
	chat, ok := b.observedChat(msg)
	if !ok {
		return
	}

	b.intake.Add(1)
	go func() {
		defer b.intake.Done()
		defer func() {
			if r := recover(); r != nil {
				slog.Error("Order intake panicked", "panic", r, "chatID", msg.Chat.ID, "messageID", msg.ID, "stack", string(debug.Stack()))
			}
		}()
		b.intakeOrder(ctx, chat, msg)
	}()
}

func (b *Bot) intakeOrder(ctx context.Context, chat config.ChatCfg, msg *models.Message) {
	status := contact.Validate(msg.Text)
	night := b.night.IsNight()
	missing := b.address.Check(ctx, msg.Text)

	// Numbers are handed out in the order cards reach the operator.
	b.cardMu.Lock()
	number := b.numberer.Next()
	cardText := presentation.OrderCardMsg(presentation.Card{
		Number:   number,
		ChatName: chat.Name,
		Text:     msg.Text,
		Night:    night,
		Contact:  status,
		Missing:  missing,
	})
	card, err := b.deliver(ctx, &bot.SendMessageParams{
		ChatID:              b.operatorID,
		Text:                cardText,
		ParseMode:           models.ParseModeHTML,
		ReplyMarkup:         presentation.CardKbd(order.StatusNew, !missing.Empty()),
		DisableNotification: night,
	})
	if err != nil {
		b.numberer.Release(number)
		b.cardMu.Unlock()
		slog.Error("Failed to forward order to operator", "error", err, "chatID", msg.Chat.ID, "messageID", msg.ID, "number", number)
		return
	}
	b.cardMu.Unlock()

	record, err := b.orderService.Open(ctx, order.Record{
		CardID:            card.ID,
		OriginChatID:      msg.Chat.ID,
		OriginThreadID:    msg.MessageThreadID,
		OriginMessageID:   msg.ID,
		ChatName:          chat.Name,
		RequestNumber:     number,
		Night:             night,
		Contact:           status,
		AddressIncomplete: !missing.Empty(),
		MissingFields:     missing,
		OriginalText:      msg.Text,
		CardText:          cardText,
	})
	if err != nil {
		slog.Error("Failed to open order", "error", err, "cardID", card.ID)
		return
	}
	slog.Info("Order forwarded", "cardID", record.CardID, "number", record.RequestNumber, "chat", record.ChatName, "night", night, "contact", status)

	if hint := orderHint(night, status); hint != "" {
		b.notify(ctx, replyTo(msg, hint))
	}
}

// orderHint picks the single reply posted under a new order, if any.
func orderHint(night bool, status contact.Status) string {
	switch {
	case night:
		return presentation.NightNoticeMsg()
	case status == contact.StatusInvalid:
		return presentation.InvalidContactMsg()
	case status == contact.StatusMissing:
		return presentation.MissingContactMsg()
	default:
		return ""
	}
}

func originReply(record order.Record, text string) *bot.SendMessageParams {
	return &bot.SendMessageParams{
		ChatID:          record.OriginChatID,
		MessageThreadID: record.OriginThreadID,
		Text:            text,
		ParseMode:       models.ParseModeHTML,
		ReplyParameters: &models.ReplyParameters{
			MessageID:                record.OriginMessageID,
			AllowSendingWithoutReply: true,
		},
	}
}
