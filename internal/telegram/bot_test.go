package telegram

import (
	"errors"
	"testing"

	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/model"
)

func TestSplitCallback(t *testing.T) {
	action, id, ok := splitCallback("CONFIRM|BR-1700000000-HYD2857-101")
	if !ok || action != "CONFIRM" || id != "BR-1700000000-HYD2857-101" {
		t.Fatalf("got %q %q %v", action, id, ok)
	}

	// Request ids contain dashes but never pipes, so only the first pipe
	// splits.
	if _, id, _ := splitCallback("REJECT|a|b"); id != "a|b" {
		t.Fatalf("id = %q", id)
	}

	for _, bad := range []string{"", "CONFIRM", "CONFIRM|", "|BR-1"} {
		if _, _, ok := splitCallback(bad); ok {
			t.Fatalf("%q should not parse", bad)
		}
	}
}

func TestNilBotIsDisabledNotifier(t *testing.T) {
	var b *Bot
	if err := b.SendText(1, "hi"); !errors.Is(err, ErrDisabled) {
		t.Fatalf("err = %v, want ErrDisabled", err)
	}
	if err := b.SendRequest(1, model.BookingRequest{}); !errors.Is(err, ErrDisabled) {
		t.Fatalf("err = %v, want ErrDisabled", err)
	}
}

func TestNewWithoutTokenReturnsNilBot(t *testing.T) {
	b, err := New("")
	if err != nil || b != nil {
		t.Fatalf("empty token should disable the bot, got %v %v", b, err)
	}
}
