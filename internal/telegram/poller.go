package telegram

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Resolver applies a confirm/reject decision to a stored booking
// request.  Unknown ids are the resolver's problem to ignore.
type Resolver interface {
	Resolve(requestID, action string)
}

// PollUpdates runs the long-poll loop, translating inline-button
// callbacks into Resolve calls until ctx is cancelled.  Other update
// kinds are ignored.  Meant to be launched as a goroutine from main; a
// nil bot returns immediately.
func (b *Bot) PollUpdates(ctx context.Context, r Resolver) {
	if b == nil || b.api == nil {
		return
	}

	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(update, r)
		}
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update, r Resolver) {
	cb := update.CallbackQuery
	if cb == nil {
		return
	}

	action, id, ok := splitCallback(cb.Data)
	if !ok {
		log.Printf("[TELEGRAM] ignoring malformed callback %q", cb.Data)
		return
	}
	r.Resolve(id, action)

	// Clear the button spinner; failures here are cosmetic.
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "Recorded")); err != nil {
		log.Printf("[TELEGRAM] callback ack failed: %v", err)
	}
}
