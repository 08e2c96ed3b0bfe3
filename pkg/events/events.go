package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/diagnosis/gatherly/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

type Subscriber interface {
	Subscribe(subject string, handler func(msg *Message)) error
	QueueSubscribe(subject, queue string, handler func(msg *Message)) error
}

type EventBus interface {
	Publisher
	Subscriber
	Close() error
}

type Message struct {
	Subject   string
	Data      []byte
	Timestamp time.Time
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Subscribe(subject string, handler func(msg *Message)) error {
	_, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
		})
	})
	return err
}

func (n *NATSEventBus) QueueSubscribe(subject, queue string, handler func(msg *Message)) error {
	_, err := n.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
		})
	})
	return err
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// Subjects
const (
	EventCreated  = "event.created"
	EventUpdated  = "event.updated"
	EventCanceled = "event.canceled"

	RSVPCreated = "rsvp.created"
	RSVPUpdated = "rsvp.updated"

	UserRegistered = "user.registered"
	PlanUpgraded   = "billing.plan.upgraded"
)

// Payloads
type EventCreatedEvent struct {
	EventID     int64     `json:"event_id"`
	OrganizerID int64     `json:"organizer_id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	IsPublic    bool      `json:"is_public"`
	Capacity    int       `json:"capacity"`
	StartsAt    time.Time `json:"starts_at"`
	CreatedAt   time.Time `json:"created_at"`
}

type EventUpdatedEvent struct {
	EventID     int64     `json:"event_id"`
	OrganizerID int64     `json:"organizer_id"`
	Changes     []string  `json:"changes"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type EventCanceledEvent struct {
	EventID      int64     `json:"event_id"`
	OrganizerID  int64     `json:"organizer_id"`
	Title        string    `json:"title"`
	RSVPsDropped int       `json:"rsvps_dropped"`
	CanceledAt   time.Time `json:"canceled_at"`
}

type RSVPSubmittedEvent struct {
	RSVPID      int64     `json:"rsvp_id"`
	EventID     int64     `json:"event_id"`
	EventTitle  string    `json:"event_title"`
	GuestName   string    `json:"guest_name"`
	GuestEmail  string    `json:"guest_email"`
	Status      string    `json:"status"`
	PlusOnes    int       `json:"plus_ones"`
	SpotsLeft   int       `json:"spots_left"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type UserRegisteredEvent struct {
	UserID       int64     `json:"user_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	RegisteredAt time.Time `json:"registered_at"`
}

type PlanUpgradedEvent struct {
	UserID     int64     `json:"user_id"`
	Email      string    `json:"email"`
	Plan       string    `json:"plan"`
	UpgradedAt time.Time `json:"upgraded_at"`
}
