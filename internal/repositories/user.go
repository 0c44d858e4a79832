package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/vidtube/vidtube-api/internal/logger"
	"github.com/vidtube/vidtube-api/internal/models"
	"github.com/vidtube/vidtube-api/internal/password"
)

// ErrDuplicateUser is returned when a create or update violates the unique
// constraints on username or email.
var ErrDuplicateUser = errors.New("username or email already exists")

const pgUniqueViolation = "23505"

type UserReadRepository struct {
	db *sqlx.DB
}

func NewUserReadRepository(db *sqlx.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

// GetByUsernameOrEmail returns the first user matching either value.
// Returns (nil, nil) when no user matches.
func (r *UserReadRepository) GetByUsernameOrEmail(ctx context.Context, username, email *string) (*models.UserDB, error) {
	const query = `
		SELECT user_id, username, email, fullname, password_hash, avatar_url, cover_image_url, refresh_token, created_at, updated_at
		FROM users
		WHERE ($1::VARCHAR IS NOT NULL AND username = LOWER($1))
		   OR ($2::VARCHAR IS NOT NULL AND email = LOWER($2))
		LIMIT 1
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, username, email)

	logger.Log.Debugw("user lookup",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{username, email},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetByID returns the user with the given id, or (nil, nil) when absent.
func (r *UserReadRepository) GetByID(ctx context.Context, userID uuid.UUID) (*models.UserDB, error) {
	const query = `
		SELECT user_id, username, email, fullname, password_hash, avatar_url, cover_image_url, refresh_token, created_at, updated_at
		FROM users
		WHERE user_id = $1
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

type UserWriteRepository struct {
	db *sqlx.DB
}

func NewUserWriteRepository(db *sqlx.DB) *UserWriteRepository {
	return &UserWriteRepository{db: db}
}

// Create inserts a new user record. The plaintext password is always routed
// through the hashing function here; no write path stores it as given.
// Username and email are lowercased to enforce case-insensitive uniqueness.
func (r *UserWriteRepository) Create(ctx context.Context, user models.NewUser) (uuid.UUID, error) {
	hashed, err := password.Hash(user.Password)
	if err != nil {
		return uuid.Nil, err
	}

	const query = `
		INSERT INTO users (username, email, fullname, password_hash, avatar_url, cover_image_url, created_at, updated_at)
		VALUES (LOWER($1), LOWER($2), $3, $4, $5, $6, NOW(), NOW())
		RETURNING user_id
	`
	args := []any{user.Username, user.Email, user.Fullname, hashed, user.AvatarURL, user.CoverImageURL}

	var userID uuid.UUID
	err = r.db.GetContext(ctx, &userID, query, args...)

	logger.Log.Debugw("user create",
		"query", strings.Join(strings.Fields(query), " "),
		"username", user.Username,
		"error", err,
	)

	if isUniqueViolation(err) {
		return uuid.Nil, ErrDuplicateUser
	}
	if err != nil {
		return uuid.Nil, err
	}

	return userID, nil
}

// UpdateFields applies a partial update to the user record. A "password" key
// in the patch is hashed unconditionally before it reaches the database.
func (r *UserWriteRepository) UpdateFields(ctx context.Context, userID uuid.UUID, patch map[string]any) error {
	if len(patch) == 0 {
		return nil
	}

	if plaintext, ok := patch["password"]; ok {
		hashed, err := password.Hash(fmt.Sprint(plaintext))
		if err != nil {
			return err
		}
		delete(patch, "password")
		patch["password_hash"] = hashed
	}

	setClauses := make([]string, 0, len(patch)+1)
	args := make([]any, 0, len(patch)+1)
	i := 1
	for _, column := range []string{"username", "email", "fullname", "password_hash", "avatar_url", "cover_image_url", "refresh_token"} {
		value, ok := patch[column]
		if !ok {
			continue
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, i))
		args = append(args, value)
		i++
	}
	if len(setClauses) == 0 {
		return fmt.Errorf("no updatable columns in patch")
	}
	setClauses = append(setClauses, "updated_at = NOW()")

	query := fmt.Sprintf("UPDATE users SET %s WHERE user_id = $%d", strings.Join(setClauses, ", "), i)
	args = append(args, userID)

	_, err := r.db.ExecContext(ctx, query, args...)

	logger.Log.Debugw("user update",
		"query", strings.Join(strings.Fields(query), " "),
		"user_id", userID,
		"error", err,
	)

	if isUniqueViolation(err) {
		return ErrDuplicateUser
	}
	return err
}

// SetRefreshToken overwrites the stored refresh token. A nil token clears it.
func (r *UserWriteRepository) SetRefreshToken(ctx context.Context, userID uuid.UUID, token *string) error {
	const query = `UPDATE users SET refresh_token = $1, updated_at = NOW() WHERE user_id = $2`
	_, err := r.db.ExecContext(ctx, query, token, userID)
	return err
}

// RotateRefreshToken replaces the stored refresh token only if it still
// equals old. Returns false when another rotation won the race.
func (r *UserWriteRepository) RotateRefreshToken(ctx context.Context, userID uuid.UUID, old, new string) (bool, error) {
	const query = `
		UPDATE users SET refresh_token = $1, updated_at = NOW()
		WHERE user_id = $2 AND refresh_token = $3
	`
	res, err := r.db.ExecContext(ctx, query, new, userID, old)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
