package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/diagnosis/gatherly/internal/domain"
)

type RSVPRepo interface {
	FindByEventAndEmail(ctx context.Context, eventID int64, guestEmail string) (*domain.RSVP, error)
	Upsert(ctx context.Context, rsvp *domain.RSVP) (*domain.RSVP, error)
	ListByEvent(ctx context.Context, eventID int64) ([]domain.RSVP, error)
	ListByGuestEmail(ctx context.Context, guestEmail string, limit, offset int) ([]domain.RSVP, error)
	CountByEvent(ctx context.Context, eventID int64) (int, error)
}

type RSVPRepoImpl struct{ pool *pgxpool.Pool }

func NewRSVPRepo(pool *pgxpool.Pool) *RSVPRepoImpl { return &RSVPRepoImpl{pool: pool} }

const rsvpCols = `id, event_id, guest_id, guest_name, guest_email,
status, plus_ones, dietary_restrictions, message, created_at, updated_at`

func scanRSVP(row pgx.Row) (*domain.RSVP, error) {
	var v domain.RSVP
	err := row.Scan(
		&v.ID, &v.EventID, &v.GuestID, &v.GuestName, &v.GuestEmail,
		&v.Status, &v.PlusOnes, &v.DietaryRestrictions, &v.Message, &v.CreatedAt, &v.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *RSVPRepoImpl) FindByEventAndEmail(ctx context.Context, eventID int64, guestEmail string) (*domain.RSVP, error) {
	const q = `SELECT ` + rsvpCols + ` FROM rsvps WHERE event_id=$1 AND guest_email=$2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanRSVP(r.pool.QueryRow(ctx, q, eventID, guestEmail))
}

// Upsert is the atomic create-or-replace keyed on (event_id, guest_email).
// The unique index makes a concurrent duplicate submission collapse into the
// DO UPDATE branch, so the last write for a given guest wins and id and
// created_at survive updates.
func (r *RSVPRepoImpl) Upsert(ctx context.Context, rsvp *domain.RSVP) (*domain.RSVP, error) {
	const q = `INSERT INTO rsvps (
    event_id, guest_id, guest_name, guest_email,
    status, plus_ones, dietary_restrictions, message
  ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
  ON CONFLICT (event_id, guest_email) DO UPDATE SET
    guest_id=EXCLUDED.guest_id,
    guest_name=EXCLUDED.guest_name,
    status=EXCLUDED.status,
    plus_ones=EXCLUDED.plus_ones,
    dietary_restrictions=EXCLUDED.dietary_restrictions,
    message=EXCLUDED.message,
    updated_at=now()
  RETURNING ` + rsvpCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanRSVP(r.pool.QueryRow(ctx, q,
		rsvp.EventID, rsvp.GuestID, rsvp.GuestName, rsvp.GuestEmail,
		rsvp.Status, rsvp.PlusOnes, rsvp.DietaryRestrictions, rsvp.Message,
	))
}

func (r *RSVPRepoImpl) ListByEvent(ctx context.Context, eventID int64) ([]domain.RSVP, error) {
	const q = `SELECT ` + rsvpCols + ` FROM rsvps WHERE event_id=$1 ORDER BY created_at ASC, id ASC`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRSVPs(rows, 16)
}

func (r *RSVPRepoImpl) ListByGuestEmail(ctx context.Context, guestEmail string, limit, offset int) ([]domain.RSVP, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const q = `SELECT ` + rsvpCols + ` FROM rsvps WHERE guest_email=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, guestEmail, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRSVPs(rows, limit)
}

func (r *RSVPRepoImpl) CountByEvent(ctx context.Context, eventID int64) (int, error) {
	const q = `SELECT count(*) FROM rsvps WHERE event_id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var n int
	err := r.pool.QueryRow(ctx, q, eventID).Scan(&n)
	return n, err
}

func collectRSVPs(rows pgx.Rows, sizeHint int) ([]domain.RSVP, error) {
	vs := make([]domain.RSVP, 0, sizeHint)
	for rows.Next() {
		var v domain.RSVP
		if err := rows.Scan(
			&v.ID, &v.EventID, &v.GuestID, &v.GuestName, &v.GuestEmail,
			&v.Status, &v.PlusOnes, &v.DietaryRestrictions, &v.Message, &v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}
	return vs, rows.Err()
}

var _ RSVPRepo = (*RSVPRepoImpl)(nil)
