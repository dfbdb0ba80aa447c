package pages

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/talentbridge/backend/internal/models"
	"github.com/talentbridge/backend/pkg/pagination"
)

// Repository handles page and page_ownership persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a pages repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetByID returns a page by ID, or nil when absent.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Page, error) {
	const q = `SELECT id, name, display_name, COALESCE(about, ''), created_at, updated_at
		FROM pages WHERE id = $1`
	var p models.Page
	err := r.pool.QueryRow(ctx, q, id).Scan(&p.ID, &p.Name, &p.DisplayName, &p.About, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetActiveOwnership returns the active ownership row for (pageID, userID),
// or nil when the user does not currently control the page. Every call
// re-queries current state; grants revoked between calls are not honored.
func (r *Repository) GetActiveOwnership(ctx context.Context, pageID, userID uuid.UUID) (*models.PageOwnership, error) {
	const q = `SELECT id, page_id, user_id, role, is_active, created_at, updated_at
		FROM page_ownerships WHERE page_id = $1 AND user_id = $2 AND is_active`
	var o models.PageOwnership
	err := r.pool.QueryRow(ctx, q, pageID, userID).
		Scan(&o.ID, &o.PageID, &o.UserID, &o.Role, &o.IsActive, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ListOwnedPageIDs returns the IDs of pages the user actively owns. The
// result defines the caller's tenant scope for list queries.
func (r *Repository) ListOwnedPageIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT page_id FROM page_ownerships WHERE user_id = $1 AND is_active`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListPagesForUser returns the pages the user actively owns, windowed, with
// the total computed in the same statement as the rows. Windows past the
// end return no rows, so total stays 0.
func (r *Repository) ListPagesForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Page, int, error) {
	const q = `SELECT p.id, p.name, p.display_name, COALESCE(p.about, ''), p.created_at, p.updated_at,
			COUNT(*) OVER() AS total
		FROM pages p
		INNER JOIN page_ownerships po ON po.page_id = p.id
		WHERE po.user_id = $1 AND po.is_active
		ORDER BY p.created_at ASC, p.id ASC
		LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, q, userID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var list []models.Page
	var total int
	for rows.Next() {
		var p models.Page
		if err := rows.Scan(&p.ID, &p.Name, &p.DisplayName, &p.About, &p.CreatedAt, &p.UpdatedAt, &total); err != nil {
			return nil, 0, err
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

// GrantOwnership adds or reactivates an ownership row. UNIQUE
// (page_id, user_id) keeps at most one row, so at most one active row,
// per pair.
func (r *Repository) GrantOwnership(ctx context.Context, pageID, userID uuid.UUID, role string) error {
	const q = `INSERT INTO page_ownerships (id, page_id, user_id, role, is_active)
		VALUES (gen_random_uuid(), $1, $2, $3, TRUE)
		ON CONFLICT (page_id, user_id) DO UPDATE SET role = EXCLUDED.role, is_active = TRUE, updated_at = NOW()`
	_, err := r.pool.Exec(ctx, q, pageID, userID, role)
	return err
}

// RevokeOwnership deactivates an ownership row. The row is kept for audit;
// it no longer grants anything.
func (r *Repository) RevokeOwnership(ctx context.Context, pageID, userID uuid.UUID) (bool, error) {
	const q = `UPDATE page_ownerships SET is_active = FALSE, updated_at = NOW()
		WHERE page_id = $1 AND user_id = $2 AND is_active`
	tag, err := r.pool.Exec(ctx, q, pageID, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Member is an active ownership row with user details
// (for GET /pages/:id/members).
type Member struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	Role     string    `json:"role"`
	AddedAt  time.Time `json:"added_at"`
}

// ListMembers returns active members of a page (join page_ownerships + users).
func (r *Repository) ListMembers(ctx context.Context, pageID uuid.UUID) ([]Member, error) {
	const q = `SELECT po.id, po.user_id, u.email, COALESCE(u.full_name, ''), po.role, po.created_at
		FROM page_ownerships po
		INNER JOIN users u ON u.id = po.user_id
		WHERE po.page_id = $1 AND po.is_active AND NOT u.is_deleted
		ORDER BY po.created_at ASC`
	rows, err := r.pool.Query(ctx, q, pageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.UserID, &m.Email, &m.FullName, &m.Role, &m.AddedAt); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
