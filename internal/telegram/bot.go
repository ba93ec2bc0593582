package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"order-relay-bot/internal/address"
	"order-relay-bot/internal/order"
	"order-relay-bot/internal/pkg/config"
	"order-relay-bot/internal/telegram/internal/presentation"
)

// API is the part of *bot.Bot the handlers talk to.
type API interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	DeleteMessage(ctx context.Context, params *bot.DeleteMessageParams) (bool, error)
	EditMessageReplyMarkup(ctx context.Context, params *bot.EditMessageReplyMarkupParams) (*models.Message, error)
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
	GetChat(ctx context.Context, params *bot.GetChatParams) (*models.ChatFullInfo, error)
}

type NightClassifier interface {
	IsNight() bool
}

type Cleaner interface {
	Schedule(owner int, chatID int64, messageIDs []int)
	Flush(ctx context.Context, owner int)
}

type Deps struct {
	Orders   order.Service
	Numberer *order.Numberer
	Night    NightClassifier
	Address  address.Checker
	Cleanup  Cleaner
}

type Bot struct {
	api           API
	orderService  order.Service
	numberer      *order.Numberer
	night         NightClassifier
	address       address.Checker
	cleanup       Cleaner
	cfg           *config.Config
	operatorID    int64
	minTextLength int
	driverHandoff bool

	intake sync.WaitGroup
	cardMu sync.Mutex
}

// NewClient creates the library client. Updates are dispatched one at a time; order intake
// continues in the background once its handler returns.
func NewClient(cfg *config.TelegramCfg, httpClient *http.Client) (*bot.Bot, error) {
	botOpts := []bot.Option{
		bot.WithNotAsyncHandlers(),
		bot.WithHTTPClient(cfg.PollTimeout, httpClient),
		bot.WithAllowedUpdates(bot.AllowedUpdates{"message", "edited_message", "callback_query"}),
		bot.WithDefaultHandler(func(_ context.Context, _ *bot.Bot, update *models.Update) {
			slog.Debug("Unhandled update", "updateID", update.ID)
		}),
	}
	b, err := bot.New(cfg.Token, botOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot instance: %w", err)
	}
	return b, nil
}

func NewBot(api API, cfg *config.Config, deps Deps) *Bot {
	if deps.Address == nil {
		deps.Address = address.NopChecker{}
	}
	return &Bot{
		api:           api,
		orderService:  deps.Orders,
		numberer:      deps.Numberer,
		night:         deps.Night,
		address:       deps.Address,
		cleanup:       deps.Cleanup,
		operatorID:    cfg.TelegramCfg.OperatorID,
		cfg:           cfg,
		minTextLength: cfg.TelegramCfg.MinTextLength,
		driverHandoff: cfg.TelegramCfg.DriverHandoff,
	}
}

// Start registers the handlers on client and starts polling. It returns immediately.
func (b *Bot) Start(ctx context.Context, client *bot.Bot) {
	b.register(client)
	slog.Info("Started Telegram Bot", "chats", len(b.cfg.Chats), "driverHandoff", b.driverHandoff)
	go client.Start(ctx)
}

// Wait blocks until the order intakes in flight are done or ctx expires.
func (b *Bot) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.intake.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// register adds every handler to client. The match funcs are mutually exclusive, so the
// outcome does not depend on the order the library tries them in.
func (b *Bot) register(client *bot.Bot) {
	client.RegisterHandlerMatchFunc(b.isOperatorCommand("help"), b.handleHelpCmd, b.recoverer)
	client.RegisterHandlerMatchFunc(b.isOperatorCommand("orders"), b.handleOrdersCmd, b.recoverer)

	client.RegisterHandler(bot.HandlerTypeCallbackQueryData, "decision:", bot.MatchTypePrefix, b.handleDecision, b.recoverer)
	client.RegisterHandler(bot.HandlerTypeCallbackQueryData, "address:", bot.MatchTypePrefix, b.handleAddressChoice, b.recoverer)
	client.RegisterHandler(bot.HandlerTypeCallbackQueryData, presentation.AcceptEditPrefix, bot.MatchTypePrefix, b.handleAcceptEdit, b.recoverer)
	client.RegisterHandler(bot.HandlerTypeCallbackQueryData, presentation.DriverPrefix, bot.MatchTypePrefix, b.handleDriverAction, b.recoverer)

	client.RegisterHandlerMatchFunc(b.isInboundOrder, b.handleInboundOrder, b.recoverer)
	client.RegisterHandlerMatchFunc(b.isAssignmentReply, b.handleAssignmentReply, b.recoverer)
	client.RegisterHandlerMatchFunc(b.isSourceEdit, b.handleSourceEdit, b.recoverer)
}
