package telegram

import (
	"context"
	"log/slog"
	"runtime/debug"
	"strings"
	"unicode/utf8"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"order-relay-bot/internal/pkg/config"
)

// recoverer keeps the update loop alive when a handler panics.
func (b *Bot) recoverer(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, api *bot.Bot, update *models.Update) {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("Handler panicked", "panic", r, "updateID", update.ID, "stack", string(debug.Stack()))
			}
		}()
		next(ctx, api, update)
	}
}

// observedChat returns the monitored chat msg was posted to, provided it is in the observed thread.
func (b *Bot) observedChat(msg *models.Message) (config.ChatCfg, bool) {
	if msg == nil {
		return config.ChatCfg{}, false
	}
	chat, ok := b.cfg.ChatByID(msg.Chat.ID)
	if !ok || msg.MessageThreadID != chat.ThreadID {
		return config.ChatCfg{}, false
	}
	if msg.From != nil && msg.From.ID == b.operatorID {
		return config.ChatCfg{}, false
	}
	return chat, true
}

func (b *Bot) isInboundOrder(update *models.Update) bool {
	if _, ok := b.observedChat(update.Message); !ok {
		return false
	}
	return utf8.RuneCountInString(update.Message.Text) >= b.minTextLength
}

func (b *Bot) isSourceEdit(update *models.Update) bool {
	_, ok := b.observedChat(update.EditedMessage)
	return ok
}

func (b *Bot) isOperatorChat(msg *models.Message) bool {
	return msg != nil && msg.Chat.ID == b.operatorID && msg.From != nil && msg.From.ID == b.operatorID
}

// isOperatorCommand matches /name (optionally addressed as /name@bot) sent by the operator in
// their private chat.
func (b *Bot) isOperatorCommand(name string) bot.MatchFunc {
	return func(update *models.Update) bool {
		msg := update.Message
		if !b.isOperatorChat(msg) {
			return false
		}
		command, _, _ := strings.Cut(strings.TrimSpace(msg.Text), " ")
		command, _, _ = strings.Cut(command, "@")
		return command == "/"+name
	}
}

func (b *Bot) isAssignmentReply(update *models.Update) bool {
	msg := update.Message
	if !b.isOperatorChat(msg) || msg.ReplyToMessage == nil {
		return false
	}
	return !strings.HasPrefix(msg.Text, "/")
}
