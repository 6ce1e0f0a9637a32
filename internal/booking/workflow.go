package booking

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/model"
)

var (
	ErrUnknownProperty = errors.New("unknown property code")
	ErrNoChannel       = errors.New("property has no notification channel")
	ErrMissingField    = errors.New("missing required field")
	ErrNotifyFailed    = errors.New("could not reach the property channel")
)

// Callback actions carried in the Telegram inline-keyboard payload.
const (
	ActionConfirm = "CONFIRM"
	ActionReject  = "REJECT"
)

// Notifier delivers messages to a property's Telegram channel.
type Notifier interface {
	// SendRequest posts the booking request with confirm/reject buttons.
	SendRequest(chatID int64, req model.BookingRequest) error
	SendText(chatID int64, text string) error
}

// Mailer sends guest-facing mail.  Implementations may be no-ops when
// mail is not configured.
type Mailer interface {
	Send(to, subject, body string) error
}

// Publisher emits booking lifecycle events to the message broker.
type Publisher interface {
	Publish(action string, req model.BookingRequest) error
}

// Service runs the booking workflow against the configured property
// table.  Telegram delivery is the one hard dependency: a submit whose
// channel message cannot be delivered fails, since no human could ever
// act on it.  Mail and broker publishes are best effort throughout.
type Service struct {
	props    map[string]model.Property
	store    *Store
	notifier Notifier
	mailer   Mailer
	pub      Publisher

	now func() time.Time
}

func NewService(props map[string]model.Property, store *Store, n Notifier, m Mailer, p Publisher) *Service {
	return &Service{props: props, store: store, notifier: n, mailer: m, pub: p, now: time.Now}
}

// SubmitInput is the guest-provided booking intent.
type SubmitInput struct {
	PropertyCode string `json:"property_code"`
	Room         string `json:"room"`
	From         string `json:"from"`
	To           string `json:"to"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Address      string `json:"address"`
}

func (in SubmitInput) validate() error {
	for _, f := range []string{in.PropertyCode, in.Room, in.From, in.To, in.Name, in.Phone} {
		if strings.TrimSpace(f) == "" {
			return ErrMissingField
		}
	}
	return nil
}

// Submit validates the intent, stores it as "requested" and notifies the
// property channel.  The request id is returned synchronously; it is
// generated from the submission time, property code and room number.
func (s *Service) Submit(in SubmitInput) (model.BookingRequest, error) {
	if err := in.validate(); err != nil {
		return model.BookingRequest{}, err
	}
	p, ok := s.props[in.PropertyCode]
	if !ok {
		return model.BookingRequest{}, ErrUnknownProperty
	}
	if p.ChatID == 0 {
		return model.BookingRequest{}, ErrNoChannel
	}

	now := s.now()
	req := model.BookingRequest{
		ID:           fmt.Sprintf("BR-%d-%s-%s", now.Unix(), in.PropertyCode, in.Room),
		PropertyCode: in.PropertyCode,
		Room:         in.Room,
		From:         in.From,
		To:           in.To,
		Name:         in.Name,
		Phone:        in.Phone,
		Email:        in.Email,
		Address:      in.Address,
		Status:       model.RequestPending,
		CreatedAt:    now.Unix(),
	}
	s.store.Put(req)

	if err := s.notifier.SendRequest(p.ChatID, req); err != nil {
		log.Printf("[BOOKING] channel notify failed for %s: %v", req.ID, err)
		return model.BookingRequest{}, ErrNotifyFailed
	}

	s.mailGuest(req, "Booking request received",
		fmt.Sprintf("Hi %s,\n\nYour booking request %s for room %s (%s to %s) has been received and is awaiting confirmation.\n", req.Name, req.ID, req.Room, req.From, req.To))
	s.publish("submitted", req)
	return req, nil
}

// Resolve applies a confirm/reject action arriving from the Telegram
// poll loop.  Unknown request ids are ignored.  Re-delivered actions are
// applied again: the stored status is idempotent but the acknowledgment
// and guest mail fire once per delivery.
func (s *Service) Resolve(id, action string) {
	status := ""
	switch strings.ToUpper(strings.TrimSpace(action)) {
	case ActionConfirm:
		status = model.RequestConfirmed
	case ActionReject:
		status = model.RequestRejected
	default:
		log.Printf("[BOOKING] ignoring unknown action %q for %s", action, id)
		return
	}

	req, ok := s.store.SetStatus(id, status)
	if !ok {
		log.Printf("[BOOKING] ignoring action for unknown request %s", id)
		return
	}

	if p, ok := s.props[req.PropertyCode]; ok && p.ChatID != 0 {
		ack := fmt.Sprintf("Request %s marked %s.", req.ID, req.Status)
		if err := s.notifier.SendText(p.ChatID, ack); err != nil {
			log.Printf("[BOOKING] ack failed for %s: %v", req.ID, err)
		}
	}

	subject := "Booking confirmed"
	body := fmt.Sprintf("Hi %s,\n\nYour booking %s for room %s (%s to %s) is confirmed. See you soon!\n", req.Name, req.ID, req.Room, req.From, req.To)
	if status == model.RequestRejected {
		subject = "Booking update"
		body = fmt.Sprintf("Hi %s,\n\nUnfortunately your booking request %s for room %s could not be accommodated.\n", req.Name, req.ID, req.Room)
	}
	s.mailGuest(req, subject, body)
	s.publish(status, req)
}

// Get looks up a request by id.
func (s *Service) Get(id string) (model.BookingRequest, bool) {
	return s.store.Get(id)
}

func (s *Service) mailGuest(req model.BookingRequest, subject, body string) {
	if s.mailer == nil || req.Email == "" {
		return
	}
	if err := s.mailer.Send(req.Email, subject, body); err != nil {
		log.Printf("[BOOKING] guest mail failed for %s: %v", req.ID, err)
	}
}

func (s *Service) publish(action string, req model.BookingRequest) {
	if s.pub == nil {
		return
	}
	if err := s.pub.Publish(action, req); err != nil {
		log.Printf("[BOOKING] event publish failed for %s: %v", req.ID, err)
	}
}
