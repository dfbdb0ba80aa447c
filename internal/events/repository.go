package events

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/talentbridge/backend/internal/models"
	"github.com/talentbridge/backend/pkg/pagination"
)

// Repository handles event and registrant persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an events repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetByID returns an event by ID, or nil when absent.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	const q = `SELECT id, published_by, title, COALESCE(description, ''), reg_start_date, reg_end_date,
			vacancies, max_participants, is_verified, created_at, updated_at
		FROM events WHERE id = $1`
	var e models.Event
	err := r.pool.QueryRow(ctx, q, id).Scan(&e.ID, &e.PublishedBy, &e.Title, &e.Description,
		&e.RegStartDate, &e.RegEndDate, &e.Vacancies, &e.MaxParticipants, &e.IsVerified, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListByPages returns events published by the given pages, windowed, with
// the total computed in the same statement as the rows. Windows past the
// end return no rows, so total stays 0.
func (r *Repository) ListByPages(ctx context.Context, pageIDs []uuid.UUID, params pagination.Params) ([]models.Event, int, error) {
	const q = `SELECT id, published_by, title, COALESCE(description, ''), reg_start_date, reg_end_date,
			vacancies, max_participants, is_verified, created_at, updated_at,
			COUNT(*) OVER() AS total
		FROM events
		WHERE published_by = ANY($1)
		ORDER BY created_at ASC, id ASC
		LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, q, pageIDs, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var list []models.Event
	var total int
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.PublishedBy, &e.Title, &e.Description, &e.RegStartDate, &e.RegEndDate,
			&e.Vacancies, &e.MaxParticipants, &e.IsVerified, &e.CreatedAt, &e.UpdatedAt, &total); err != nil {
			return nil, 0, err
		}
		list = append(list, e)
	}
	return list, total, rows.Err()
}

// RegistrantDetail is a registration row joined with the registrant's
// contact details.
type RegistrantDetail struct {
	models.RegisteredEvent
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// GetRegistrant returns the registration matching both the registration ID
// and the event ID, or nil when no such combination exists. Matching on the
// pair guards against cross-tenant access through guessable identifiers.
func (r *Repository) GetRegistrant(ctx context.Context, eventID, registrantID uuid.UUID) (*RegistrantDetail, error) {
	const q = `SELECT re.id, re.event_id, re.user_id, re.status, re.booking_status, re.created_at, re.updated_at,
			u.email, COALESCE(u.full_name, '')
		FROM registered_events re
		INNER JOIN users u ON u.id = re.user_id
		WHERE re.id = $1 AND re.event_id = $2`
	var d RegistrantDetail
	err := r.pool.QueryRow(ctx, q, registrantID, eventID).Scan(&d.ID, &d.EventID, &d.UserID, &d.Status,
		&d.BookingStatus, &d.CreatedAt, &d.UpdatedAt, &d.Email, &d.FullName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// UpdateRegistrantStatus sets the approval status with a single conditional
// statement matching (id, event_id). Zero rows affected reports not found;
// a registration-id match under a different event never updates.
func (r *Repository) UpdateRegistrantStatus(ctx context.Context, eventID, registrantID uuid.UUID, status models.ApprovalStatus) (bool, error) {
	const q = `UPDATE registered_events SET status = $3, updated_at = NOW()
		WHERE id = $1 AND event_id = $2`
	tag, err := r.pool.Exec(ctx, q, registrantID, eventID, status)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateBookingStatus sets the booking (payment) status independently of the
// approval track, with the same (id, event_id) conditional match.
func (r *Repository) UpdateBookingStatus(ctx context.Context, eventID, registrantID uuid.UUID, status models.BookingStatus) (bool, error) {
	const q = `UPDATE registered_events SET booking_status = $3, updated_at = NOW()
		WHERE id = $1 AND event_id = $2`
	tag, err := r.pool.Exec(ctx, q, registrantID, eventID, status)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListRegistrants returns registrations for an event, windowed, with the
// total computed alongside the rows. Windows past the end report total 0.
func (r *Repository) ListRegistrants(ctx context.Context, eventID uuid.UUID, params pagination.Params) ([]RegistrantDetail, int, error) {
	const q = `SELECT re.id, re.event_id, re.user_id, re.status, re.booking_status, re.created_at, re.updated_at,
			u.email, COALESCE(u.full_name, ''),
			COUNT(*) OVER() AS total
		FROM registered_events re
		INNER JOIN users u ON u.id = re.user_id
		WHERE re.event_id = $1
		ORDER BY re.created_at ASC, re.id ASC
		LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, q, eventID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var list []RegistrantDetail
	var total int
	for rows.Next() {
		var d RegistrantDetail
		if err := rows.Scan(&d.ID, &d.EventID, &d.UserID, &d.Status, &d.BookingStatus, &d.CreatedAt, &d.UpdatedAt,
			&d.Email, &d.FullName, &total); err != nil {
			return nil, 0, err
		}
		list = append(list, d)
	}
	return list, total, rows.Err()
}
