package notify

import (
	"encoding/json"
	"fmt"

	"github.com/diagnosis/gatherly/internal/platform/mailer"
	"github.com/diagnosis/gatherly/pkg/events"
	"github.com/diagnosis/gatherly/pkg/logger"
)

// Notifier turns domain events from the bus into guest-facing email. It runs
// inside the API process as a queue subscriber, so multiple instances share
// the work.
type Notifier struct {
	bus  events.Subscriber
	mail mailer.Service
}

func New(bus events.Subscriber, mail mailer.Service) *Notifier {
	return &Notifier{bus: bus, mail: mail}
}

const queue = "gatherly-notify"

func (n *Notifier) Start() error {
	if err := n.bus.QueueSubscribe(events.RSVPCreated, queue, n.onRSVP); err != nil {
		return err
	}
	if err := n.bus.QueueSubscribe(events.RSVPUpdated, queue, n.onRSVP); err != nil {
		return err
	}
	return n.bus.QueueSubscribe(events.UserRegistered, queue, n.onRegistered)
}

func (n *Notifier) onRSVP(msg *events.Message) {
	var evt events.RSVPSubmittedEvent
	if err := json.Unmarshal(msg.Data, &evt); err != nil {
		logger.Error("notify: bad RSVP event payload", "error", err, "subject", msg.Subject)
		return
	}

	var line string
	switch evt.Status {
	case "attending":
		line = "You're in! We're excited to see you there."
	case "not-attending":
		line = "Thanks for letting us know. We'll miss you!"
	default:
		line = "Thanks for your response. We hope you can make it!"
	}

	subject := fmt.Sprintf("Your RSVP for %s", evt.EventTitle)
	text := fmt.Sprintf("Hi %s,\n\n%s\n\nStatus: %s\nPlus-ones: %d\n",
		evt.GuestName, line, evt.Status, evt.PlusOnes)
	html := fmt.Sprintf("<p>Hi %s,</p><p>%s</p><p>Status: <b>%s</b><br>Plus-ones: %d</p>",
		evt.GuestName, line, evt.Status, evt.PlusOnes)

	if _, err := n.mail.Send(evt.GuestEmail, evt.GuestName, subject, text, html); err != nil {
		logger.Error("notify: failed to send RSVP email", "error", err, "rsvp_id", evt.RSVPID)
	}
}

func (n *Notifier) onRegistered(msg *events.Message) {
	var evt events.UserRegisteredEvent
	if err := json.Unmarshal(msg.Data, &evt); err != nil {
		logger.Error("notify: bad registration event payload", "error", err)
		return
	}

	subject := "Welcome to Gatherly"
	text := fmt.Sprintf("Hi %s,\n\nYour account is ready. Create an event or RSVP to one near you.\n", evt.Name)
	html := fmt.Sprintf("<p>Hi %s,</p><p>Your account is ready. Create an event or RSVP to one near you.</p>", evt.Name)

	if _, err := n.mail.Send(evt.Email, evt.Name, subject, text, html); err != nil {
		logger.Error("notify: failed to send welcome email", "error", err, "user_id", evt.UserID)
	}
}
