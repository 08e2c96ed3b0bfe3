package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/diagnosis/gatherly/internal/domain"
	"github.com/diagnosis/gatherly/internal/repo/postgres"
	"github.com/diagnosis/gatherly/internal/stats"
	"github.com/diagnosis/gatherly/pkg/events"
	"github.com/diagnosis/gatherly/pkg/logger"
)

// SubmitResult is what a successful reconciliation hands back to the caller:
// the stored record plus the event's aggregate counts after the write.
type SubmitResult struct {
	RSVP       *domain.RSVP     `json:"rsvp"`
	Attendance stats.Attendance `json:"attendance"`
	Created    bool             `json:"created"`
}

type RSVPService interface {
	Submit(ctx context.Context, identity domain.Identity, eventID int64, req *domain.SubmitRSVPRequest) (*SubmitResult, error)
	Find(ctx context.Context, eventID int64, guestEmail string) (*domain.RSVP, error)
	Attendance(ctx context.Context, eventID int64) (*stats.Attendance, error)
	GuestList(ctx context.Context, organizerID, eventID int64, query, statusFilter string) ([]domain.RSVP, error)
	EventBreakdown(ctx context.Context, organizerID, eventID int64) (*stats.Breakdown, error)
	ListByGuest(ctx context.Context, guestEmail string, limit, offset int) ([]domain.RSVP, error)
}

type rsvpService struct {
	eventRepo   postgres.EventRepo
	rsvpRepo    postgres.RSVPRepo
	bus         events.Publisher
	maxPlusOnes int
}

func NewRSVPService(eventRepo postgres.EventRepo, rsvpRepo postgres.RSVPRepo, bus events.Publisher, maxPlusOnes int) RSVPService {
	if maxPlusOnes <= 0 {
		maxPlusOnes = domain.DefaultMaxPlusOnes
	}
	return &rsvpService{
		eventRepo:   eventRepo,
		rsvpRepo:    rsvpRepo,
		bus:         bus,
		maxPlusOnes: maxPlusOnes,
	}
}

// Submit reconciles one candidate RSVP write: it validates the submission
// against the event's deadline and capacity, decides insert vs update from
// the (event, guest email) pair, and persists exactly one record through the
// store's atomic upsert.
//
// The capacity check is read-then-write and therefore best-effort under
// concurrent submissions from different guests; the unique index only makes
// the per-guest write deterministic. We accept the small oversell window
// rather than pretend to a transactional guarantee the store isn't asked for.
func (s *rsvpService) Submit(ctx context.Context, identity domain.Identity, eventID int64, req *domain.SubmitRSVPRequest) (*SubmitResult, error) {
	email := strings.ToLower(strings.TrimSpace(identity.Email))
	if email == "" {
		return nil, domain.ErrIdentityRequired
	}

	status, ok := domain.ParseRSVPStatus(req.Status)
	if !ok {
		return nil, domain.Invalid("status", "must be 'attending', 'not-attending' or 'maybe'")
	}

	plusOnes := req.PlusOnes
	if status == domain.StatusAttending {
		if plusOnes < 0 || plusOnes > s.maxPlusOnes {
			return nil, domain.Invalid("plus_ones", fmt.Sprintf("must be between 0 and %d", s.maxPlusOnes))
		}
	} else {
		// plus-ones only mean something when attending
		plusOnes = 0
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, storeErr(err)
	}
	if event == nil {
		return nil, domain.ErrEventNotFound
	}

	if time.Now().After(event.RSVPDeadline) {
		return nil, domain.ErrDeadlinePassed
	}

	existing, err := s.rsvpRepo.FindByEventAndEmail(ctx, eventID, email)
	if err != nil {
		return nil, storeErr(err)
	}

	all, err := s.rsvpRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, storeErr(err)
	}

	if status == domain.StatusAttending {
		if err := checkCapacity(event, all, existing, 1+plusOnes); err != nil {
			return nil, err
		}
	}

	candidate := &domain.RSVP{
		EventID:             eventID,
		GuestID:             identity.UserID,
		GuestName:           identity.Name,
		GuestEmail:          email,
		Status:              status,
		PlusOnes:            plusOnes,
		DietaryRestrictions: strings.TrimSpace(req.DietaryRestrictions),
		Message:             strings.TrimSpace(req.Message),
	}

	stored, err := s.rsvpRepo.Upsert(ctx, candidate)
	if err != nil {
		return nil, storeErr(err)
	}

	after, err := s.rsvpRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, storeErr(err)
	}
	attendance := stats.EventAttendance(event, after)

	created := existing == nil
	subject := events.RSVPUpdated
	if created {
		subject = events.RSVPCreated
	}
	if s.bus != nil {
		evt := events.RSVPSubmittedEvent{
			RSVPID:      stored.ID,
			EventID:     event.ID,
			EventTitle:  event.Title,
			GuestName:   stored.GuestName,
			GuestEmail:  stored.GuestEmail,
			Status:      string(stored.Status),
			PlusOnes:    stored.PlusOnes,
			SpotsLeft:   attendance.SpotsLeft,
			SubmittedAt: stored.UpdatedAt,
		}
		if err := s.bus.Publish(ctx, subject, evt); err != nil {
			logger.ErrorContext(ctx, "Failed to publish RSVP event", "error", err, "rsvp_id", stored.ID)
		}
	}

	return &SubmitResult{RSVP: stored, Attendance: attendance, Created: created}, nil
}

// checkCapacity rejects an attending write that would push the event past
// capacity. A guest who is already attending is never blocked from keeping
// or reducing their commitment; only a net increase beyond capacity fails.
func checkCapacity(event *domain.Event, all []domain.RSVP, existing *domain.RSVP, candidateUnits int) error {
	if existing != nil && existing.Status == domain.StatusAttending && candidateUnits <= existing.Units() {
		return nil
	}

	otherUnits := 0
	for i := range all {
		if existing != nil && all[i].ID == existing.ID {
			continue
		}
		otherUnits += all[i].Units()
	}

	if otherUnits+candidateUnits > event.Capacity {
		return domain.ErrCapacityExceeded
	}
	return nil
}

func (s *rsvpService) Find(ctx context.Context, eventID int64, guestEmail string) (*domain.RSVP, error) {
	rsvp, err := s.rsvpRepo.FindByEventAndEmail(ctx, eventID, strings.ToLower(strings.TrimSpace(guestEmail)))
	if err != nil {
		return nil, storeErr(err)
	}
	if rsvp == nil {
		return nil, domain.ErrRSVPNotFound
	}
	return rsvp, nil
}

func (s *rsvpService) Attendance(ctx context.Context, eventID int64) (*stats.Attendance, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, storeErr(err)
	}
	if event == nil {
		return nil, domain.ErrEventNotFound
	}
	rsvps, err := s.rsvpRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, storeErr(err)
	}
	a := stats.EventAttendance(event, rsvps)
	return &a, nil
}

func (s *rsvpService) GuestList(ctx context.Context, organizerID, eventID int64, query, statusFilter string) ([]domain.RSVP, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, storeErr(err)
	}
	if event == nil {
		return nil, domain.ErrEventNotFound
	}
	if event.OrganizerID != organizerID {
		return nil, domain.ErrNotOrganizer
	}
	if statusFilter != "" && statusFilter != "all" {
		if _, ok := domain.ParseRSVPStatus(statusFilter); !ok {
			return nil, domain.Invalid("status", "must be 'attending', 'not-attending', 'maybe' or 'all'")
		}
	}
	rsvps, err := s.rsvpRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, storeErr(err)
	}
	return stats.FilterGuests(rsvps, query, statusFilter), nil
}

func (s *rsvpService) EventBreakdown(ctx context.Context, organizerID, eventID int64) (*stats.Breakdown, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, storeErr(err)
	}
	if event == nil {
		return nil, domain.ErrEventNotFound
	}
	if event.OrganizerID != organizerID {
		return nil, domain.ErrNotOrganizer
	}
	rsvps, err := s.rsvpRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, storeErr(err)
	}
	b := stats.StatusBreakdown(rsvps)
	return &b, nil
}

func (s *rsvpService) ListByGuest(ctx context.Context, guestEmail string, limit, offset int) ([]domain.RSVP, error) {
	rsvps, err := s.rsvpRepo.ListByGuestEmail(ctx, strings.ToLower(strings.TrimSpace(guestEmail)), limit, offset)
	if err != nil {
		return nil, storeErr(err)
	}
	return rsvps, nil
}

func storeErr(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}
