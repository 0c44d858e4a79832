package models

import (
	"time"

	"github.com/google/uuid"
)

// UserDB represents a user record in the database
type UserDB struct {
	UserID        uuid.UUID `json:"id" db:"user_id"`                           // Primary key
	Username      string    `json:"username" db:"username"`                    // Unique username, stored lowercased
	Email         string    `json:"email" db:"email"`                          // Unique email, stored lowercased
	Fullname      string    `json:"fullname" db:"fullname"`                    // Display name
	PasswordHash  string    `json:"-" db:"password_hash"`                      // Hashed password, never serialized
	AvatarURL     string    `json:"avatar" db:"avatar_url"`                    // Media storage URL
	CoverImageURL string    `json:"coverImage,omitempty" db:"cover_image_url"` // Optional media storage URL
	RefreshToken  *string   `json:"-" db:"refresh_token"`                      // Current refresh token, nil when logged out
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`                 // Creation timestamp
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`                 // Last update timestamp
}

// NewUser holds the fields required to create a user record.
// Password is plaintext here; the write repository hashes it before persisting.
type NewUser struct {
	Username      string
	Email         string
	Fullname      string
	Password      string
	AvatarURL     string
	CoverImageURL string
}

// SanitizedUser is the user view returned to clients: no password hash, no refresh token.
type SanitizedUser struct {
	UserID        uuid.UUID `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	Fullname      string    `json:"fullname"`
	AvatarURL     string    `json:"avatar"`
	CoverImageURL string    `json:"coverImage,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Sanitize converts a database record into the client-facing view.
func (u *UserDB) Sanitize() SanitizedUser {
	return SanitizedUser{
		UserID:        u.UserID,
		Username:      u.Username,
		Email:         u.Email,
		Fullname:      u.Fullname,
		AvatarURL:     u.AvatarURL,
		CoverImageURL: u.CoverImageURL,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}
