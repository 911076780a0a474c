// ABOUTME: Telegram bot for logging and querying entries from chat.
// ABOUTME: Long polling, secret phrase authorization, state in the store.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/antarcticrainforest/babymeasure/internal/chatbot"
	"github.com/antarcticrainforest/babymeasure/internal/models"
	"github.com/antarcticrainforest/babymeasure/internal/storage"
)

// Bot bridges Telegram chats and the record store.
type Bot struct {
	api       *tgbotapi.BotAPI
	store     storage.Store
	responder *chatbot.Responder
	secret    string
	log       *slog.Logger
}

// New connects to the Telegram API with the given token.
func New(token, secret string, store storage.Store, responder *chatbot.Responder, log *slog.Logger) (*Bot, error) {
	if secret == "" {
		return nil, fmt.Errorf("telegram bot needs a secret phrase for authorization")
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect telegram: %w", err)
	}
	return &Bot{
		api:       api,
		store:     store,
		responder: responder,
		secret:    secret,
		log:       log,
	}, nil
}

// Run polls for updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)

	b.log.Info("telegram.listening", "bot", b.api.Self.UserName)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.From.IsBot {
		return
	}

	text := msg.Text
	// In group chats only react when mentioned.
	mention := "@" + b.api.Self.UserName
	if msg.Chat != nil && (msg.Chat.IsGroup() || msg.Chat.IsSuperGroup()) {
		if !strings.Contains(text, mention) {
			return
		}
	}
	if idx := strings.LastIndex(text, mention); idx >= 0 {
		text = text[idx+len(mention):]
	}
	text = strings.TrimSpace(text)

	user := b.lookupUser(ctx, msg.From)
	reply := b.replyFor(ctx, user, text)
	if reply == "" {
		return
	}

	if _, err := b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, reply)); err != nil {
		b.log.Error("telegram.send", "error", err)
	}
}

// replyFor runs the authorization flow and, for allowed users, the
// chatbot responder. User state changes are persisted.
func (b *Bot) replyFor(ctx context.Context, user *models.TelegramUser, text string) string {
	if user.Allowed {
		return b.responder.Reply(ctx, text)
	}

	reply := Authorize(user, text, b.secret)
	user.SeenAt = time.Now()
	if err := b.store.SaveTelegramUser(ctx, user); err != nil {
		b.log.Error("telegram.save_user", "user_id", user.UserID, "error", err)
	}
	return reply
}

func (b *Bot) lookupUser(ctx context.Context, from *tgbotapi.User) *models.TelegramUser {
	user, err := b.store.GetTelegramUser(ctx, from.ID)
	if err != nil {
		user = &models.TelegramUser{UserID: from.ID}
	}
	user.FirstName = from.FirstName
	user.LastName = from.LastName
	return user
}

// ackReply is the noncommittal answer blocked users get, matching the
// original bot's behavior of never revealing the lockout.
const ackReply = "Got it!"

// Authorize advances the secret phrase flow for a not-yet-allowed user
// and returns the reply to send. The caller persists the mutated user.
func Authorize(user *models.TelegramUser, text, secret string) string {
	if user.Allowed {
		return ""
	}
	if user.Blocked() {
		return ackReply
	}
	if text == secret {
		user.Allowed = true
		return "Great! You can now send me commands or ask questions."
	}

	first := user.LoginAttempts == 0
	user.LoginAttempts++
	switch {
	case first:
		return "To get and set information you must enter the secret " +
			"phrase, the phrase was set by whoever installed me. " +
			"Enter the phrase now:"
	case user.LoginAttempts >= models.MaxLoginAttempts:
		return ackReply
	default:
		return fmt.Sprintf("This was the wrong secret phrase, please try again - "+
			"you have %d attempts left:", models.MaxLoginAttempts-user.LoginAttempts)
	}
}
