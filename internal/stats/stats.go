// Package stats holds the read-side computations over an event's RSVP set.
// Everything here is a pure function of its inputs: no I/O, no clocks other
// than the `now` arguments, safe to call repeatedly.
package stats

import (
	"strings"
	"time"

	"github.com/diagnosis/gatherly/internal/domain"
)

// AttendingCount is the head count of attending RSVP rows. It is a display
// figure and deliberately ignores plus-ones; capacity math uses units.
func AttendingCount(rsvps []domain.RSVP) int {
	n := 0
	for i := range rsvps {
		if rsvps[i].Status == domain.StatusAttending {
			n++
		}
	}
	return n
}

// AttendingUnits is the total capacity consumption: sum of (1 + plusOnes)
// over attending RSVPs. Non-attending rows count zero regardless of any
// stored plus-ones value.
func AttendingUnits(rsvps []domain.RSVP) int {
	units := 0
	for i := range rsvps {
		units += rsvps[i].Units()
	}
	return units
}

// SpotsLeft is remaining capacity in units, floored at zero.
func SpotsLeft(event *domain.Event, rsvps []domain.RSVP) int {
	left := event.Capacity - AttendingUnits(rsvps)
	if left < 0 {
		return 0
	}
	return left
}

type Breakdown struct {
	Attending     int `json:"attending"`
	NotAttending  int `json:"not_attending"`
	Maybe         int `json:"maybe"`
	TotalPlusOnes int `json:"total_plus_ones"`
}

// StatusBreakdown counts RSVPs per status and sums plus-ones over attending
// rows.
func StatusBreakdown(rsvps []domain.RSVP) Breakdown {
	var b Breakdown
	for i := range rsvps {
		switch rsvps[i].Status {
		case domain.StatusAttending:
			b.Attending++
			b.TotalPlusOnes += rsvps[i].PlusOnes
		case domain.StatusNotAttending:
			b.NotAttending++
		case domain.StatusMaybe:
			b.Maybe++
		}
	}
	return b
}

// Attendance bundles the aggregate figures returned alongside an RSVP write
// and served on the public attendance endpoint.
type Attendance struct {
	AttendingCount int `json:"attending_count"`
	AttendingUnits int `json:"attending_units"`
	SpotsLeft      int `json:"spots_left"`
}

func EventAttendance(event *domain.Event, rsvps []domain.RSVP) Attendance {
	return Attendance{
		AttendingCount: AttendingCount(rsvps),
		AttendingUnits: AttendingUnits(rsvps),
		SpotsLeft:      SpotsLeft(event, rsvps),
	}
}

// FilterGuests narrows a guest list by a case-insensitive substring match on
// name or email and an exact status match. Both filters are ANDed; an empty
// query or a "all" status filter disables the respective condition. Input
// order is preserved.
func FilterGuests(rsvps []domain.RSVP, query, statusFilter string) []domain.RSVP {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]domain.RSVP, 0, len(rsvps))
	for i := range rsvps {
		r := rsvps[i]
		if q != "" &&
			!strings.Contains(strings.ToLower(r.GuestName), q) &&
			!strings.Contains(strings.ToLower(r.GuestEmail), q) {
			continue
		}
		if statusFilter != "" && statusFilter != "all" && string(r.Status) != statusFilter {
			continue
		}
		out = append(out, r)
	}
	return out
}

// IsUpcoming reports whether the event's combined date+time is after now.
func IsUpcoming(event *domain.Event, now time.Time) bool {
	return event.StartsAt().After(now)
}

type Overview struct {
	TotalEvents         int `json:"total_events"`
	UpcomingEvents      int `json:"upcoming_events"`
	TotalRSVPs          int `json:"total_rsvps"`
	Attending           int `json:"attending"`
	NotAttending        int `json:"not_attending"`
	Maybe               int `json:"maybe"`
	AttendanceRate      int `json:"attendance_rate"`      // percent of RSVPs that are attending
	CapacityUtilization int `json:"capacity_utilization"` // percent of total capacity consumed, in units
}

// OrganizerOverview computes the dashboard analytics for one organizer's
// events. rsvpsByEvent maps event ID to that event's RSVP set; events with
// no RSVPs may be absent from the map.
func OrganizerOverview(events []domain.Event, rsvpsByEvent map[int64][]domain.RSVP, now time.Time) Overview {
	var o Overview
	o.TotalEvents = len(events)

	totalCapacity := 0
	totalUnits := 0
	for i := range events {
		e := &events[i]
		if IsUpcoming(e, now) {
			o.UpcomingEvents++
		}
		totalCapacity += e.Capacity

		rsvps := rsvpsByEvent[e.ID]
		b := StatusBreakdown(rsvps)
		o.TotalRSVPs += len(rsvps)
		o.Attending += b.Attending
		o.NotAttending += b.NotAttending
		o.Maybe += b.Maybe
		totalUnits += AttendingUnits(rsvps)
	}

	if o.TotalRSVPs > 0 {
		o.AttendanceRate = int(float64(o.Attending)/float64(o.TotalRSVPs)*100 + 0.5)
	}
	if totalCapacity > 0 {
		o.CapacityUtilization = int(float64(totalUnits)/float64(totalCapacity)*100 + 0.5)
	}
	return o
}
