// Package telegram wraps the bot API used to notify property channels
// about booking requests and to receive their confirm/reject decisions.
package telegram

import (
	"errors"
	"fmt"
	"html"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/model"
)

// ErrDisabled is returned by every send when no bot token was configured.
var ErrDisabled = errors.New("telegram bot not configured")

// Bot is a thin wrapper over the bot API.  A nil *Bot is a valid,
// disabled notifier whose sends fail with ErrDisabled, which in turn
// fails booking submits: without the channel nobody can act on them.
type Bot struct {
	api *tgbotapi.BotAPI
}

// New authorizes the bot.  An empty token yields a nil bot and a warning
// instead of an error so the read-only parts of the service still run.
func New(token string) (*Bot, error) {
	if token == "" {
		log.Println("[TELEGRAM] no bot token configured; booking notifications disabled")
		return nil, nil
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram authorize: %w", err)
	}
	log.Printf("[TELEGRAM] authorized as @%s", api.Self.UserName)
	return &Bot{api: api}, nil
}

// SendRequest posts a booking request to the property channel with
// inline Confirm/Reject buttons carrying the request id.
func (b *Bot) SendRequest(chatID int64, req model.BookingRequest) error {
	if b == nil || b.api == nil {
		return ErrDisabled
	}
	text := fmt.Sprintf(
		"<b>New booking request</b>\n"+
			"Request: <code>%s</code>\n"+
			"Room: <b>%s</b>\n"+
			"Stay: %s to %s\n"+
			"Guest: %s\n"+
			"Phone: %s\n"+
			"Email: %s\n"+
			"Address: %s",
		html.EscapeString(req.ID),
		html.EscapeString(req.Room),
		html.EscapeString(req.From), html.EscapeString(req.To),
		html.EscapeString(req.Name),
		html.EscapeString(req.Phone),
		html.EscapeString(req.Email),
		html.EscapeString(req.Address),
	)

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Confirm", "CONFIRM|"+req.ID),
			tgbotapi.NewInlineKeyboardButtonData("❌ Reject", "REJECT|"+req.ID),
		),
	)
	_, err := b.api.Send(msg)
	return err
}

// SendText posts a plain acknowledgment message.
func (b *Bot) SendText(chatID int64, text string) error {
	if b == nil || b.api == nil {
		return ErrDisabled
	}
	_, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// splitCallback parses "ACTION|request-id" button payloads.
func splitCallback(data string) (action, id string, ok bool) {
	parts := strings.SplitN(data, "|", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
