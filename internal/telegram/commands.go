package telegram

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"order-relay-bot/internal/telegram/internal/presentation"
)

func (b *Bot) handleHelpCmd(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if !b.isOperatorChat(update.Message) {
		return
	}
	b.notify(ctx, toOperator(update.Message.Chat.ID, presentation.HelpMsg()))
}

func (b *Bot) handleOrdersCmd(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if !b.isOperatorChat(update.Message) {
		return
	}
	records := b.orderService.Active(ctx)
	if len(records) == 0 {
		b.notify(ctx, toOperator(update.Message.Chat.ID, presentation.EmptyOrderListMsg()))
		return
	}
	b.notify(ctx, toOperator(update.Message.Chat.ID, presentation.ActiveOrdersMsg(records)))
}
