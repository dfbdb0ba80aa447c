package models

import (
	"time"

	"github.com/google/uuid"
)

// AccountStatusActive is the zero value of account_status; any nonzero
// value means the account is suspended or otherwise inactive.
const AccountStatusActive = 0

// User represents a platform user. Users are soft-deleted only.
type User struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	Password      string    `json:"-"`
	FullName      string    `json:"full_name"`
	AccountStatus int       `json:"account_status"`
	IsVerified    bool      `json:"is_verified"`
	IsDeleted     bool      `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IsActive reports whether the user may act on the platform.
func (u *User) IsActive() bool {
	return u.AccountStatus == AccountStatusActive && !u.IsDeleted
}

// UserPublic is User without sensitive fields for API responses.
type UserPublic struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToPublic converts User to UserPublic.
func (u *User) ToPublic() UserPublic {
	return UserPublic{
		ID:         u.ID,
		Email:      u.Email,
		FullName:   u.FullName,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
	}
}
