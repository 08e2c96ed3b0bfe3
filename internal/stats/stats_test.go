package stats_test

import (
	"testing"
	"time"

	"github.com/diagnosis/gatherly/internal/domain"
	"github.com/diagnosis/gatherly/internal/stats"
)

func rsvp(name, email string, status domain.RSVPStatus, plusOnes int) domain.RSVP {
	return domain.RSVP{GuestName: name, GuestEmail: email, Status: status, PlusOnes: plusOnes}
}

func TestEventAttendance(t *testing.T) {
	event := &domain.Event{Capacity: 10}
	rsvps := []domain.RSVP{
		rsvp("A", "a@x.com", domain.StatusAttending, 1),
		rsvp("B", "b@x.com", domain.StatusAttending, 0),
		rsvp("C", "c@x.com", domain.StatusMaybe, 2),
		rsvp("D", "d@x.com", domain.StatusNotAttending, 0),
	}

	a := stats.EventAttendance(event, rsvps)
	if a.AttendingCount != 2 {
		t.Errorf("AttendingCount = %d, want 2", a.AttendingCount)
	}
	// Units: (1+1) + (1+0); the maybe's stored plus-ones count nothing.
	if a.AttendingUnits != 3 {
		t.Errorf("AttendingUnits = %d, want 3", a.AttendingUnits)
	}
	if a.SpotsLeft != 7 {
		t.Errorf("SpotsLeft = %d, want 7", a.SpotsLeft)
	}
}

func TestSpotsLeftFloorsAtZero(t *testing.T) {
	event := &domain.Event{Capacity: 2}
	rsvps := []domain.RSVP{rsvp("A", "a@x.com", domain.StatusAttending, 4)}
	if got := stats.SpotsLeft(event, rsvps); got != 0 {
		t.Errorf("SpotsLeft = %d, want 0 when oversubscribed", got)
	}
}

func TestStatusBreakdown(t *testing.T) {
	rsvps := []domain.RSVP{
		rsvp("A", "a@x.com", domain.StatusAttending, 2),
		rsvp("B", "b@x.com", domain.StatusAttending, 1),
		rsvp("C", "c@x.com", domain.StatusMaybe, 5),
		rsvp("D", "d@x.com", domain.StatusNotAttending, 0),
	}

	b := stats.StatusBreakdown(rsvps)
	if b.Attending != 2 || b.NotAttending != 1 || b.Maybe != 1 {
		t.Errorf("breakdown = %+v", b)
	}
	// Plus-ones are only tallied over attending rows.
	if b.TotalPlusOnes != 3 {
		t.Errorf("TotalPlusOnes = %d, want 3", b.TotalPlusOnes)
	}
}

func TestStatusBreakdownEmpty(t *testing.T) {
	b := stats.StatusBreakdown(nil)
	if b.Attending != 0 || b.NotAttending != 0 || b.Maybe != 0 || b.TotalPlusOnes != 0 {
		t.Errorf("breakdown of nil = %+v", b)
	}
}

func TestFilterGuests(t *testing.T) {
	rsvps := []domain.RSVP{
		rsvp("Anabel", "anabel@example.com", domain.StatusAttending, 0),
		rsvp("Ben", "dana@example.com", domain.StatusAttending, 0),
		rsvp("Cal", "cal@example.com", domain.StatusMaybe, 0),
	}

	t.Run("query matches name or email case-insensitively", func(t *testing.T) {
		got := stats.FilterGuests(rsvps, "ANA", "")
		if len(got) != 2 {
			t.Fatalf("len = %d, want 2 (Anabel by name, dana@ by email)", len(got))
		}
		if got[0].GuestName != "Anabel" || got[1].GuestName != "Ben" {
			t.Errorf("order not preserved: %v, %v", got[0].GuestName, got[1].GuestName)
		}
	})

	t.Run("status filter is exact", func(t *testing.T) {
		got := stats.FilterGuests(rsvps, "", "maybe")
		if len(got) != 1 || got[0].GuestName != "Cal" {
			t.Fatalf("got %v", got)
		}
	})

	t.Run("filters are ANDed", func(t *testing.T) {
		got := stats.FilterGuests(rsvps, "ana", "maybe")
		if len(got) != 0 {
			t.Fatalf("len = %d, want 0", len(got))
		}
	})

	t.Run("all disables the status filter", func(t *testing.T) {
		got := stats.FilterGuests(rsvps, "", "all")
		if len(got) != 3 {
			t.Fatalf("len = %d, want 3", len(got))
		}
	})

	t.Run("blank query is ignored", func(t *testing.T) {
		got := stats.FilterGuests(rsvps, "   ", "")
		if len(got) != 3 {
			t.Fatalf("len = %d, want 3", len(got))
		}
	})
}

func TestIsUpcoming(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	sameDay := &domain.Event{Date: time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC), Time: "18:00"}
	earlier := &domain.Event{Date: time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC), Time: "09:00"}

	if !stats.IsUpcoming(sameDay, now) {
		t.Error("an event later the same day is upcoming")
	}
	if stats.IsUpcoming(earlier, now) {
		t.Error("an event earlier the same day is not upcoming")
	}
}

func TestOrganizerOverview(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	events := []domain.Event{
		{ID: 1, Capacity: 10, Date: now.AddDate(0, 0, 5), Time: "10:00"},
		{ID: 2, Capacity: 10, Date: now.AddDate(0, 0, -5), Time: "10:00"},
	}
	rsvpsByEvent := map[int64][]domain.RSVP{
		1: {
			rsvp("A", "a@x.com", domain.StatusAttending, 2),
			rsvp("B", "b@x.com", domain.StatusMaybe, 0),
		},
		2: {
			rsvp("C", "c@x.com", domain.StatusAttending, 0),
			rsvp("D", "d@x.com", domain.StatusNotAttending, 0),
		},
	}

	o := stats.OrganizerOverview(events, rsvpsByEvent, now)
	if o.TotalEvents != 2 || o.UpcomingEvents != 1 {
		t.Errorf("events: %+v", o)
	}
	if o.TotalRSVPs != 4 || o.Attending != 2 || o.Maybe != 1 || o.NotAttending != 1 {
		t.Errorf("tallies: %+v", o)
	}
	// 2 of 4 attending; 4 units of 20 capacity.
	if o.AttendanceRate != 50 {
		t.Errorf("AttendanceRate = %d, want 50", o.AttendanceRate)
	}
	if o.CapacityUtilization != 20 {
		t.Errorf("CapacityUtilization = %d, want 20", o.CapacityUtilization)
	}
}

func TestOrganizerOverviewEmpty(t *testing.T) {
	o := stats.OrganizerOverview(nil, nil, time.Now())
	if o.AttendanceRate != 0 || o.CapacityUtilization != 0 {
		t.Errorf("empty overview must not divide by zero: %+v", o)
	}
}
