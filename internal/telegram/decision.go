package telegram

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"order-relay-bot/internal/order"
	"order-relay-bot/internal/telegram/internal/presentation"
)

func (b *Bot) handleDecision(ctx context.Context, _ *bot.Bot, update *models.Update) {
	query := update.CallbackQuery
	if query.From.ID != b.operatorID {
		b.answer(ctx, query, "", false)
		return
	}
	_, cardID, ok := cardRef(query)
	if !ok {
		b.answer(ctx, query, presentation.OrderNotFoundMsg(), true)
		return
	}
	record, err := b.orderService.Get(ctx, cardID)
	if err != nil {
		b.answer(ctx, query, presentation.OrderNotFoundMsg(), true)
		return
	}

	switch callbackAction(query.Data, "decision:") {
	case "accept":
		b.acceptOrder(ctx, query, record)
	case "reject":
		b.rejectOrder(ctx, query, record)
	case "done":
		b.completeOrder(ctx, query, record)
	default:
		b.answer(ctx, query, presentation.UnknownActionMsg(), true)
	}
}

func (b *Bot) acceptOrder(ctx context.Context, query *models.CallbackQuery, record order.Record) {
	if err := record.CanDecide(); err != nil {
		b.answer(ctx, query, presentation.AlreadyDecidedMsg(), true)
		return
	}
	replyID := b.notify(ctx, originReply(record, presentation.OrderAcceptedMsg()))
	updated, err := b.orderService.Accept(ctx, record.CardID, replyID)
	if err != nil {
		slog.Error("Failed to accept order", "error", err, "cardID", record.CardID)
		b.deleteMessage(ctx, record.OriginChatID, replyID)
		b.answer(ctx, query, presentation.OrderNotFoundMsg(), true)
		return
	}
	b.editMarkup(ctx, b.operatorID, updated.CardID, presentation.CardKbd(updated.Status, updated.AddressIncomplete))
	b.answer(ctx, query, presentation.AcceptedPopup(), false)
}

func (b *Bot) rejectOrder(ctx context.Context, query *models.CallbackQuery, record order.Record) {
	if err := record.CanDecide(); err != nil {
		b.answer(ctx, query, presentation.AlreadyDecidedMsg(), true)
		return
	}
	updated, err := b.orderService.Reject(ctx, record.CardID)
	if err != nil {
		slog.Error("Failed to reject order", "error", err, "cardID", record.CardID)
		b.answer(ctx, query, presentation.OrderNotFoundMsg(), true)
		return
	}
	b.notify(ctx, originReply(updated, presentation.OrderRejectedMsg()))
	b.editMarkup(ctx, b.operatorID, updated.CardID, presentation.CardKbd(updated.Status, updated.AddressIncomplete))
	b.answer(ctx, query, presentation.RejectedPopup(), false)
}

// completeOrder closes the order. The assignment notice stays in the origin thread.
func (b *Bot) completeOrder(ctx context.Context, query *models.CallbackQuery, record order.Record) {
	done, err := b.orderService.Complete(ctx, record.CardID)
	if err != nil {
		if !errors.Is(err, order.ErrNotFound) {
			slog.Error("Failed to complete order", "error", err, "cardID", record.CardID)
		}
		b.answer(ctx, query, presentation.OrderNotFoundMsg(), true)
		return
	}
	b.cleanup.Flush(ctx, done.CardID)
	b.deleteMessage(ctx, b.operatorID, done.CardID)
	b.deleteMessage(ctx, done.OriginChatID, done.AcceptReplyID)
	b.deleteMessage(ctx, b.operatorID, done.EditNotificationID)
	b.answer(ctx, query, presentation.CardRemovedPopup(), false)
	slog.Info("Order completed", "cardID", done.CardID, "number", done.RequestNumber, "handler", done.Handler)
}

func (b *Bot) handleAddressChoice(ctx context.Context, _ *bot.Bot, update *models.Update) {
	query := update.CallbackQuery
	if query.From.ID != b.operatorID {
		b.answer(ctx, query, "", false)
		return
	}
	_, cardID, ok := cardRef(query)
	if !ok {
		b.answer(ctx, query, presentation.OrderNotFoundMsg(), true)
		return
	}
	record, err := b.orderService.Get(ctx, cardID)
	if err != nil {
		b.answer(ctx, query, presentation.OrderNotFoundMsg(), true)
		return
	}
	if !record.AddressIncomplete {
		b.answer(ctx, query, presentation.AddressResolvedMsg(), false)
		return
	}

	var clarify bool
	switch callbackAction(query.Data, "address:") {
	case "clarify":
		clarify = true
	case "skip":
	default:
		b.answer(ctx, query, presentation.UnknownActionMsg(), true)
		return
	}

	updated, err := b.orderService.ResolveAddress(ctx, cardID, clarify)
	if err != nil {
		slog.Error("Failed to resolve address", "error", err, "cardID", cardID)
		b.answer(ctx, query, presentation.OrderNotFoundMsg(), true)
		return
	}
	b.editMarkup(ctx, b.operatorID, cardID, presentation.CardKbd(updated.Status, false))

	if clarify {
		b.notify(ctx, originReply(updated, presentation.ClarifyAddressMsg(updated.MissingFields)))
		b.answer(ctx, query, presentation.ClarifyRequestedPopup(), false)
		return
	}
	b.answer(ctx, query, presentation.SkipAddressMsg(), true)
}
