package domain

import "time"

type RSVPStatus string

const (
	StatusAttending    RSVPStatus = "attending"
	StatusNotAttending RSVPStatus = "not-attending"
	StatusMaybe        RSVPStatus = "maybe"
)

func ParseRSVPStatus(s string) (RSVPStatus, bool) {
	switch RSVPStatus(s) {
	case StatusAttending, StatusNotAttending, StatusMaybe:
		return RSVPStatus(s), true
	default:
		return "", false
	}
}

// DefaultMaxPlusOnes caps how many extra guests one RSVP may bring.
const DefaultMaxPlusOnes = 5

type RSVP struct {
	ID                  int64      `json:"id"`
	EventID             int64      `json:"event_id"`
	GuestID             int64      `json:"guest_id"`
	GuestName           string     `json:"guest_name"`
	GuestEmail          string     `json:"guest_email"`
	Status              RSVPStatus `json:"status"`
	PlusOnes            int        `json:"plus_ones"`
	DietaryRestrictions string     `json:"dietary_restrictions,omitempty"`
	Message             string     `json:"message,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// Units is the RSVP's capacity consumption: the guest plus their plus-ones
// when attending, zero otherwise.
func (r *RSVP) Units() int {
	if r.Status != StatusAttending {
		return 0
	}
	return 1 + r.PlusOnes
}

type SubmitRSVPRequest struct {
	Status              string `json:"status"`
	PlusOnes            int    `json:"plus_ones"`
	DietaryRestrictions string `json:"dietary_restrictions"`
	Message             string `json:"message"`
}
