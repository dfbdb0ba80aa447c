package opportunities

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/talentbridge/backend/internal/models"
	"github.com/talentbridge/backend/pkg/pagination"
)

// Repository handles opportunity and applicant persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an opportunities repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetByID returns an opportunity by ID, or nil when absent.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Opportunity, error) {
	const q = `SELECT id, published_by, title, COALESCE(description, ''), reg_start_date, reg_end_date,
			vacancies, max_participants, is_active, created_at, updated_at
		FROM opportunities WHERE id = $1`
	var o models.Opportunity
	err := r.pool.QueryRow(ctx, q, id).Scan(&o.ID, &o.PublishedBy, &o.Title, &o.Description,
		&o.RegStartDate, &o.RegEndDate, &o.Vacancies, &o.MaxParticipants, &o.IsActive, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ListByPages returns opportunities published by the given pages, windowed,
// with the total computed in the same statement as the rows (no two-query
// count race). Ordering by (created_at, id) keeps pagination deterministic.
// An offset past the last row returns no rows, so total stays 0; windows
// past the end report an empty collection rather than the true count.
func (r *Repository) ListByPages(ctx context.Context, pageIDs []uuid.UUID, params pagination.Params) ([]models.Opportunity, int, error) {
	const q = `SELECT id, published_by, title, COALESCE(description, ''), reg_start_date, reg_end_date,
			vacancies, max_participants, is_active, created_at, updated_at,
			COUNT(*) OVER() AS total
		FROM opportunities
		WHERE published_by = ANY($1)
		ORDER BY created_at ASC, id ASC
		LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, q, pageIDs, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var list []models.Opportunity
	var total int
	for rows.Next() {
		var o models.Opportunity
		if err := rows.Scan(&o.ID, &o.PublishedBy, &o.Title, &o.Description, &o.RegStartDate, &o.RegEndDate,
			&o.Vacancies, &o.MaxParticipants, &o.IsActive, &o.CreatedAt, &o.UpdatedAt, &total); err != nil {
			return nil, 0, err
		}
		list = append(list, o)
	}
	return list, total, rows.Err()
}

// ApplicantDetail is an applicant row joined with the applying user's
// contact details.
type ApplicantDetail struct {
	models.OpportunityApplicant
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// GetApplicantByID returns an applicant with contact details, or nil when
// absent.
func (r *Repository) GetApplicantByID(ctx context.Context, id uuid.UUID) (*ApplicantDetail, error) {
	const q = `SELECT oa.id, oa.opportunity_id, oa.user_id, oa.application_status, oa.created_at, oa.updated_at,
			u.email, COALESCE(u.full_name, '')
		FROM opportunity_applicants oa
		INNER JOIN users u ON u.id = oa.user_id
		WHERE oa.id = $1`
	var a ApplicantDetail
	err := r.pool.QueryRow(ctx, q, id).Scan(&a.ID, &a.OpportunityID, &a.UserID, &a.ApplicationStatus,
		&a.CreatedAt, &a.UpdatedAt, &a.Email, &a.FullName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateApplicantStatus sets the applicant's status with a single
// conditional statement. Zero rows affected reports not found.
func (r *Repository) UpdateApplicantStatus(ctx context.Context, applicantID uuid.UUID, status models.ApplicationStatus) (bool, error) {
	const q = `UPDATE opportunity_applicants SET application_status = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q, applicantID, status)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListApplicants returns applicants for an opportunity, windowed, with the
// total computed alongside the rows. Windows past the end report total 0.
func (r *Repository) ListApplicants(ctx context.Context, opportunityID uuid.UUID, params pagination.Params) ([]ApplicantDetail, int, error) {
	const q = `SELECT oa.id, oa.opportunity_id, oa.user_id, oa.application_status, oa.created_at, oa.updated_at,
			u.email, COALESCE(u.full_name, ''),
			COUNT(*) OVER() AS total
		FROM opportunity_applicants oa
		INNER JOIN users u ON u.id = oa.user_id
		WHERE oa.opportunity_id = $1
		ORDER BY oa.created_at ASC, oa.id ASC
		LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, q, opportunityID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var list []ApplicantDetail
	var total int
	for rows.Next() {
		var a ApplicantDetail
		if err := rows.Scan(&a.ID, &a.OpportunityID, &a.UserID, &a.ApplicationStatus, &a.CreatedAt, &a.UpdatedAt,
			&a.Email, &a.FullName, &total); err != nil {
			return nil, 0, err
		}
		list = append(list, a)
	}
	return list, total, rows.Err()
}
