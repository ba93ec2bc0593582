package telegram

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-relay-bot/internal/address"
	"order-relay-bot/internal/order"
)

// blockingChecker holds every check until release is closed.
type blockingChecker struct {
	started chan struct{}
	release chan struct{}
}

func newBlockingChecker() *blockingChecker {
	return &blockingChecker{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
}

func (c *blockingChecker) Check(ctx context.Context, _ string) address.Fields {
	c.started <- struct{}{}
	select {
	case <-c.release:
	case <-ctx.Done():
	}
	return nil
}

// newClient builds a library client that never talks to Telegram and routes updates to h.bot.
func (h *harness) newClient(t *testing.T) *bot.Bot {
	t.Helper()
	client, err := bot.New("123456:test-token",
		bot.WithSkipGetMe(),
		bot.WithNotAsyncHandlers(),
		bot.WithDefaultHandler(func(context.Context, *bot.Bot, *models.Update) {}),
	)
	require.NoError(t, err)
	h.bot.register(client)
	return client
}

func operatorCommand(text string) *models.Update {
	return &models.Update{Message: &models.Message{
		ID:   1,
		Chat: models.Chat{ID: operatorID},
		From: &models.User{ID: operatorID},
		Text: text,
	}}
}

func TestSlowAddressCheckDoesNotBlockOtherUpdates(t *testing.T) {
	checker := newBlockingChecker()
	h := newHarness(t, at(12, 0), checker)
	client := h.newClient(t)
	ctx := context.Background()

	processed := make(chan struct{})
	go func() {
		client.ProcessUpdate(ctx, inboundUpdate(10, orderText))
		client.ProcessUpdate(ctx, operatorCommand("/help"))
		client.ProcessUpdate(ctx, press(operatorID, 4242, "decision:done"))
		close(processed)
	}()

	select {
	case <-checker.started:
	case <-time.After(time.Second):
		t.Fatal("address check was not started")
	}
	select {
	case <-processed:
	case <-time.After(time.Second):
		t.Fatal("updates queued behind the order were not dispatched")
	}

	operator := h.api.sentTo(operatorID)
	require.Len(t, operator, 1)
	assert.Contains(t, operator[0].params.Text, "/orders")
	assert.Equal(t, "Заявка устарела или не найдена.", h.api.lastAnswer().Text)

	close(checker.release)
	require.NoError(t, h.bot.Wait(ctx))

	operator = h.api.sentTo(operatorID)
	require.Len(t, operator, 2)
	assert.Contains(t, operator[1].params.Text, "01 / 14.03.2025")
	assert.Len(t, h.orders.Active(ctx), 1)
}

func TestWaitHonorsContext(t *testing.T) {
	checker := newBlockingChecker()
	h := newHarness(t, at(12, 0), checker)
	ctx, cancel := context.WithCancel(context.Background())

	h.bot.handleInboundOrder(ctx, nil, inboundUpdate(10, orderText))
	<-checker.started

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer waitCancel()
	assert.ErrorIs(t, h.bot.Wait(waitCtx), context.DeadlineExceeded)

	cancel()
	require.NoError(t, h.bot.Wait(context.Background()))
}

func TestRegisteredRouting(t *testing.T) {
	h := newHarness(t, at(12, 0), nil)
	client := h.newClient(t)
	ctx := context.Background()

	commandLike := inboundUpdate(10, "/help "+orderText)
	client.ProcessUpdate(ctx, commandLike)
	require.NoError(t, h.bot.Wait(ctx))

	cards := h.api.sentTo(operatorID)
	require.Len(t, cards, 1)
	cardID := cards[0].id
	assert.Contains(t, cards[0].params.Text, "Тимирязева")

	client.ProcessUpdate(ctx, operatorCommand("/orders@relay_bot"))
	assert.Contains(t, h.api.lastSent().params.Text, "Открытые заявки: 1")

	client.ProcessUpdate(ctx, operatorReply(60, cardID, "@ivan"))
	record, err := h.orders.Get(ctx, cardID)
	require.NoError(t, err)
	assert.Equal(t, "@ivan", record.Handler)

	client.ProcessUpdate(ctx, editUpdate(10, strings.Replace(commandLike.Message.Text, "67", "65", 1)))
	record, err = h.orders.Get(ctx, cardID)
	require.NoError(t, err)
	assert.Contains(t, record.OriginalText, "Тимирязева 65")

	client.ProcessUpdate(ctx, press(operatorID, cardID, "decision:done"))
	_, err = h.orders.Get(ctx, cardID)
	assert.ErrorIs(t, err, order.ErrNotFound)
}

func TestIsOperatorCommand(t *testing.T) {
	h := newHarness(t, at(12, 0), nil)
	help := h.bot.isOperatorCommand("help")

	assert.True(t, help(operatorCommand("/help")))
	assert.True(t, help(operatorCommand("/help@relay_bot")))
	assert.True(t, help(operatorCommand("  /help please")))
	assert.False(t, help(operatorCommand("/helpme")))
	assert.False(t, help(operatorCommand("/orders")))
	assert.False(t, help(inboundUpdate(10, "/help")))
	assert.False(t, help(&models.Update{CallbackQuery: &models.CallbackQuery{}}))
}
