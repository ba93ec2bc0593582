package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"order-relay-bot/internal/order"
	"order-relay-bot/internal/telegram/internal/presentation"
)

var (
	errDriverNotFound = errors.New("driver not found")
	errDriverCard     = errors.New("driver card not delivered")
)

// handleAssignmentReply assigns the order behind the replied-to card to the @handle in the reply.
func (b *Bot) handleAssignmentReply(ctx context.Context, _ *bot.Bot, update *models.Update) {
	msg := update.Message
	cardID := msg.ReplyToMessage.ID

	record, err := b.orderService.Get(ctx, cardID)
	if err != nil {
		b.notify(ctx, replyTo(msg, presentation.StaleReplyMsg()))
		return
	}
	handle, err := order.NormalizeHandle(msg.Text)
	if err != nil {
		b.notify(ctx, replyTo(msg, presentation.HandleFormatMsg()))
		return
	}
	if err := record.CanAssign(); err != nil {
		b.notify(ctx, replyTo(msg, presentation.CannotAssignMsg()))
		return
	}

	notice, err := b.deliver(ctx, originReply(record, presentation.AssignedMsg(handle)))
	if err != nil {
		b.notify(ctx, replyTo(msg, presentation.AssignNotifyErrorMsg(err)))
		return
	}

	previous, err := b.orderService.Assign(ctx, cardID, handle, notice.ID)
	if err != nil {
		slog.Error("Failed to assign order", "error", err, "cardID", cardID, "handle", handle)
		b.deleteMessage(ctx, record.OriginChatID, notice.ID)
		b.notify(ctx, replyTo(msg, presentation.StaleReplyMsg()))
		return
	}
	b.deleteMessage(ctx, previous.OriginChatID, previous.AcceptReplyID)
	b.deleteMessage(ctx, previous.OriginChatID, previous.AssignNoticeID)
	if previous.Status == order.StatusNew {
		b.editMarkup(ctx, b.operatorID, cardID, presentation.CardKbd(order.StatusAccepted, previous.AddressIncomplete))
	}
	slog.Info("Order assigned", "cardID", cardID, "number", record.RequestNumber, "handle", handle)

	driverNotified := false
	if b.driverHandoff {
		switch err := b.handOff(ctx, previous, handle); {
		case errors.Is(err, errDriverNotFound):
			b.notify(ctx, replyTo(msg, presentation.DriverNotFoundMsg(handle)))
		case err != nil:
			b.notify(ctx, replyTo(msg, presentation.DriverCardErrorMsg(handle)))
		default:
			driverNotified = true
		}
	}

	confirmID := b.notify(ctx, replyTo(msg, presentation.AssignConfirmMsg(driverNotified)))
	b.cleanup.Schedule(cardID, msg.Chat.ID, []int{msg.ID, confirmID})
}

// handOff sends the driver a private copy of the card. A card sent to a previous driver is removed.
func (b *Bot) handOff(ctx context.Context, record order.Record, handle string) error {
	chat, err := b.api.GetChat(ctx, &bot.GetChatParams{ChatID: handle})
	if err != nil {
		slog.Warn("Failed to resolve driver", "error", err, "handle", handle)
		return fmt.Errorf("%w: %s", errDriverNotFound, handle)
	}

	card, err := b.deliver(ctx, &bot.SendMessageParams{
		ChatID:      chat.ID,
		Text:        record.CardText,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: presentation.DriverKbd(record.CardID, order.DriverNone),
	})
	if err != nil {
		return fmt.Errorf("%w: %w", errDriverCard, err)
	}

	if _, err := b.orderService.AttachDriver(ctx, record.CardID, chat.ID, card.ID); err != nil {
		slog.Error("Failed to attach driver", "error", err, "cardID", record.CardID)
		b.deleteMessage(ctx, chat.ID, card.ID)
		return err
	}
	if record.DriverMessageID != 0 && (record.DriverID != chat.ID || record.DriverMessageID != card.ID) {
		b.deleteMessage(ctx, record.DriverID, record.DriverMessageID)
	}
	return nil
}
