package telegram

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"order-relay-bot/internal/order"
	"order-relay-bot/internal/telegram/internal/presentation"
)

func (b *Bot) handleDriverAction(ctx context.Context, _ *bot.Bot, update *models.Update) {
	query := update.CallbackQuery
	action, cardID, err := parseCardCallback(query.Data, presentation.DriverPrefix)
	if err != nil {
		b.answer(ctx, query, presentation.UnknownActionMsg(), true)
		return
	}
	state, ok := driverState(action)
	if !ok {
		b.answer(ctx, query, presentation.UnknownActionMsg(), true)
		return
	}

	record, err := b.orderService.Get(ctx, cardID)
	if err != nil {
		b.answer(ctx, query, presentation.OrderNotFoundMsg(), true)
		return
	}
	if record.DriverID != query.From.ID {
		b.answer(ctx, query, presentation.NotYourOrderMsg(), true)
		return
	}

	updated, err := b.orderService.SetDriverState(ctx, cardID, state)
	if err != nil {
		slog.Error("Failed to update driver state", "error", err, "cardID", cardID, "state", state)
		b.answer(ctx, query, presentation.OrderNotFoundMsg(), true)
		return
	}
	if chatID, messageID, ok := cardRef(query); ok {
		b.editMarkup(ctx, chatID, messageID, presentation.DriverKbd(cardID, updated.DriverState))
	}
	b.answer(ctx, query, presentation.DriverStatePopup(updated.DriverState), false)
}

func driverState(action string) (order.DriverState, bool) {
	for _, a := range presentation.DriverActions {
		if a.Action == action {
			return a.State, true
		}
	}
	return order.DriverNone, false
}
