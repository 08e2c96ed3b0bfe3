package service

import (
	"context"
	"time"

	"github.com/diagnosis/gatherly/internal/domain"
	"github.com/diagnosis/gatherly/internal/repo/postgres"
	"github.com/diagnosis/gatherly/internal/stats"
	"github.com/diagnosis/gatherly/pkg/events"
	"github.com/diagnosis/gatherly/pkg/logger"
)

type EventService interface {
	Create(ctx context.Context, organizerID int64, req *domain.CreateEventRequest) (*domain.Event, error)
	Get(ctx context.Context, id int64) (*domain.Event, error)
	ListPublic(ctx context.Context, query, category string, limit, offset int) ([]domain.Event, error)
	ListByOrganizer(ctx context.Context, organizerID int64) ([]domain.Event, error)
	Update(ctx context.Context, id, organizerID int64, patch *domain.EventPatch) (*domain.Event, error)
	Delete(ctx context.Context, id, organizerID int64) error
	Overview(ctx context.Context, organizerID int64) (*stats.Overview, error)
}

type eventService struct {
	eventRepo      postgres.EventRepo
	rsvpRepo       postgres.RSVPRepo
	userRepo       postgres.UserRepo
	bus            events.Publisher
	freeEventLimit int
}

func NewEventService(eventRepo postgres.EventRepo, rsvpRepo postgres.RSVPRepo, userRepo postgres.UserRepo, bus events.Publisher, freeEventLimit int) EventService {
	return &eventService{
		eventRepo:      eventRepo,
		rsvpRepo:       rsvpRepo,
		userRepo:       userRepo,
		bus:            bus,
		freeEventLimit: freeEventLimit,
	}
}

func (s *eventService) Create(ctx context.Context, organizerID int64, req *domain.CreateEventRequest) (*domain.Event, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, organizerID)
	if err != nil {
		return nil, storeErr(err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if user.Plan == domain.PlanFree && s.freeEventLimit > 0 {
		n, err := s.eventRepo.CountByOrganizer(ctx, organizerID)
		if err != nil {
			return nil, storeErr(err)
		}
		if n >= s.freeEventLimit {
			return nil, domain.ErrEventLimit
		}
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	event := &domain.Event{
		OrganizerID:  organizerID,
		Title:        req.Title,
		Description:  req.Description,
		Date:         req.Date,
		Time:         req.Time,
		Location:     req.Location,
		Capacity:     req.Capacity,
		Category:     domain.EventCategory(req.Category),
		IsPublic:     isPublic,
		ImageURL:     req.ImageURL,
		RSVPDeadline: req.RSVPDeadline,
	}

	created, err := s.eventRepo.Create(ctx, event)
	if err != nil {
		return nil, storeErr(err)
	}

	if s.bus != nil {
		evt := events.EventCreatedEvent{
			EventID:     created.ID,
			OrganizerID: created.OrganizerID,
			Title:       created.Title,
			Category:    string(created.Category),
			IsPublic:    created.IsPublic,
			Capacity:    created.Capacity,
			StartsAt:    created.StartsAt(),
			CreatedAt:   created.CreatedAt,
		}
		if err := s.bus.Publish(ctx, events.EventCreated, evt); err != nil {
			logger.ErrorContext(ctx, "Failed to publish event created", "error", err, "event_id", created.ID)
		}
	}

	return created, nil
}

func (s *eventService) Get(ctx context.Context, id int64) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	if event == nil {
		return nil, domain.ErrEventNotFound
	}
	return event, nil
}

func (s *eventService) ListPublic(ctx context.Context, query, category string, limit, offset int) ([]domain.Event, error) {
	var catPtr *domain.EventCategory
	if category != "" && category != "all" {
		cat, ok := domain.ParseEventCategory(category)
		if !ok {
			return nil, domain.Invalid("category", "unknown category")
		}
		catPtr = &cat
	}
	es, err := s.eventRepo.ListPublic(ctx, query, catPtr, limit, offset)
	if err != nil {
		return nil, storeErr(err)
	}
	return es, nil
}

func (s *eventService) ListByOrganizer(ctx context.Context, organizerID int64) ([]domain.Event, error) {
	es, err := s.eventRepo.ListByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, storeErr(err)
	}
	return es, nil
}

func (s *eventService) Update(ctx context.Context, id, organizerID int64, patch *domain.EventPatch) (*domain.Event, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	if event == nil {
		return nil, domain.ErrEventNotFound
	}
	if event.OrganizerID != organizerID {
		return nil, domain.ErrNotOrganizer
	}

	changes := patch.Apply(event)
	if len(changes) == 0 {
		return event, nil
	}

	updated, err := s.eventRepo.Update(ctx, event)
	if err != nil {
		return nil, storeErr(err)
	}

	if s.bus != nil {
		evt := events.EventUpdatedEvent{
			EventID:     updated.ID,
			OrganizerID: updated.OrganizerID,
			Changes:     changes,
			UpdatedAt:   updated.UpdatedAt,
		}
		if err := s.bus.Publish(ctx, events.EventUpdated, evt); err != nil {
			logger.ErrorContext(ctx, "Failed to publish event updated", "error", err, "event_id", updated.ID)
		}
	}

	return updated, nil
}

// Delete removes the event and, by the cascade decision, every RSVP tied to
// it. The RSVP count is captured first so the canceled event can say how
// many guests were dropped.
func (s *eventService) Delete(ctx context.Context, id, organizerID int64) error {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return storeErr(err)
	}
	if event == nil {
		return domain.ErrEventNotFound
	}
	if event.OrganizerID != organizerID {
		return domain.ErrNotOrganizer
	}

	dropped, err := s.rsvpRepo.CountByEvent(ctx, id)
	if err != nil {
		return storeErr(err)
	}

	ok, err := s.eventRepo.Delete(ctx, id)
	if err != nil {
		return storeErr(err)
	}
	if !ok {
		return domain.ErrEventNotFound
	}

	if s.bus != nil {
		evt := events.EventCanceledEvent{
			EventID:      event.ID,
			OrganizerID:  event.OrganizerID,
			Title:        event.Title,
			RSVPsDropped: dropped,
			CanceledAt:   time.Now(),
		}
		if err := s.bus.Publish(ctx, events.EventCanceled, evt); err != nil {
			logger.ErrorContext(ctx, "Failed to publish event canceled", "error", err, "event_id", event.ID)
		}
	}

	return nil
}

func (s *eventService) Overview(ctx context.Context, organizerID int64) (*stats.Overview, error) {
	es, err := s.eventRepo.ListByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, storeErr(err)
	}

	rsvpsByEvent := make(map[int64][]domain.RSVP, len(es))
	for i := range es {
		rsvps, err := s.rsvpRepo.ListByEvent(ctx, es[i].ID)
		if err != nil {
			return nil, storeErr(err)
		}
		rsvpsByEvent[es[i].ID] = rsvps
	}

	o := stats.OrganizerOverview(es, rsvpsByEvent, time.Now())
	return &o, nil
}
