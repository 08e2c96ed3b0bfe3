package postgres

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/diagnosis/gatherly/internal/domain"
)

type EventRepo interface {
	Create(ctx context.Context, e *domain.Event) (*domain.Event, error)
	GetByID(ctx context.Context, id int64) (*domain.Event, error)
	ListPublic(ctx context.Context, query string, category *domain.EventCategory, limit, offset int) ([]domain.Event, error)
	ListByOrganizer(ctx context.Context, organizerID int64) ([]domain.Event, error)
	CountByOrganizer(ctx context.Context, organizerID int64) (int, error)
	Update(ctx context.Context, e *domain.Event) (*domain.Event, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type EventRepoImpl struct{ pool *pgxpool.Pool }

func NewEventRepo(pool *pgxpool.Pool) *EventRepoImpl { return &EventRepoImpl{pool: pool} }

const eventCols = `id, organizer_id, title, description, date, "time", location,
capacity, category, is_public, image_url, rsvp_deadline, created_at, updated_at`

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var e domain.Event
	err := row.Scan(
		&e.ID, &e.OrganizerID, &e.Title, &e.Description, &e.Date, &e.Time, &e.Location,
		&e.Capacity, &e.Category, &e.IsPublic, &e.ImageURL, &e.RSVPDeadline, &e.CreatedAt, &e.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EventRepoImpl) Create(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	const q = `INSERT INTO events (
    organizer_id, title, description, date, "time", location,
    capacity, category, is_public, image_url, rsvp_deadline
  ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
  RETURNING ` + eventCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanEvent(r.pool.QueryRow(ctx, q,
		e.OrganizerID, e.Title, e.Description, e.Date, e.Time, e.Location,
		e.Capacity, e.Category, e.IsPublic, e.ImageURL, e.RSVPDeadline,
	))
}

func (r *EventRepoImpl) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	const q = `SELECT ` + eventCols + ` FROM events WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanEvent(r.pool.QueryRow(ctx, q, id))
}

func (r *EventRepoImpl) ListPublic(ctx context.Context, query string, category *domain.EventCategory, limit, offset int) ([]domain.Event, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	q := `SELECT ` + eventCols + ` FROM events WHERE is_public = true`
	args := []any{}
	n := 0
	if query != "" {
		n++
		q += ` AND (title ILIKE '%' || $` + itoa(n) + ` || '%' OR location ILIKE '%' || $` + itoa(n) + ` || '%')`
		args = append(args, query)
	}
	if category != nil {
		n++
		q += ` AND category = $` + itoa(n)
		args = append(args, *category)
	}
	q += ` ORDER BY date ASC, id ASC LIMIT $` + itoa(n+1) + ` OFFSET $` + itoa(n+2)
	args = append(args, limit, offset)

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEvents(rows, limit)
}

func (r *EventRepoImpl) ListByOrganizer(ctx context.Context, organizerID int64) ([]domain.Event, error) {
	const q = `SELECT ` + eventCols + ` FROM events WHERE organizer_id=$1 ORDER BY date ASC, id ASC`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, organizerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEvents(rows, 16)
}

func (r *EventRepoImpl) CountByOrganizer(ctx context.Context, organizerID int64) (int, error) {
	const q = `SELECT count(*) FROM events WHERE organizer_id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var n int
	err := r.pool.QueryRow(ctx, q, organizerID).Scan(&n)
	return n, err
}

func (r *EventRepoImpl) Update(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	const q = `UPDATE events SET
    title=$2, description=$3, date=$4, "time"=$5, location=$6,
    capacity=$7, category=$8, is_public=$9, image_url=$10, rsvp_deadline=$11,
    updated_at=now()
  WHERE id=$1
  RETURNING ` + eventCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanEvent(r.pool.QueryRow(ctx, q,
		e.ID, e.Title, e.Description, e.Date, e.Time, e.Location,
		e.Capacity, e.Category, e.IsPublic, e.ImageURL, e.RSVPDeadline,
	))
}

// Delete removes the event; its RSVPs go with it via the FK cascade.
func (r *EventRepoImpl) Delete(ctx context.Context, id int64) (bool, error) {
	const q = `DELETE FROM events WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ct, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func collectEvents(rows pgx.Rows, sizeHint int) ([]domain.Event, error) {
	es := make([]domain.Event, 0, sizeHint)
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(
			&e.ID, &e.OrganizerID, &e.Title, &e.Description, &e.Date, &e.Time, &e.Location,
			&e.Capacity, &e.Category, &e.IsPublic, &e.ImageURL, &e.RSVPDeadline, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		es = append(es, e)
	}
	return es, rows.Err()
}

func itoa(n int) string { return strconv.Itoa(n) }

var _ EventRepo = (*EventRepoImpl)(nil)
