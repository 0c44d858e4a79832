package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/vidtube/vidtube-api/internal/apperrors"
	"github.com/vidtube/vidtube-api/internal/jwt"
	"github.com/vidtube/vidtube-api/internal/logger"
	"github.com/vidtube/vidtube-api/internal/media"
	"github.com/vidtube/vidtube-api/internal/models"
	"github.com/vidtube/vidtube-api/internal/password"
	"github.com/vidtube/vidtube-api/internal/repositories"
)

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByUsernameOrEmail(ctx context.Context, username, email *string) (*models.UserDB, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Create(ctx context.Context, user models.NewUser) (uuid.UUID, error)
	UpdateFields(ctx context.Context, userID uuid.UUID, patch map[string]any) error
	SetRefreshToken(ctx context.Context, userID uuid.UUID, token *string) error
	RotateRefreshToken(ctx context.Context, userID uuid.UUID, old, new string) (bool, error)
}

// TokenIssuer defines the token operations the session manager needs.
type TokenIssuer interface {
	GenerateAccessToken(ctx context.Context, claims jwt.AccessClaims) (string, error)
	GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error)
	ParseRefreshToken(ctx context.Context, tokenString string) (uuid.UUID, error)
}

// MediaStore defines upload and delete operations on the media provider.
type MediaStore interface {
	Upload(ctx context.Context, file io.Reader) (*media.Asset, error)
	Destroy(ctx context.Context, publicID string) error
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// RegisterInput carries the registration form fields and uploaded files.
type RegisterInput struct {
	Fullname   string
	Email      string
	Username   string
	Password   string
	Avatar     io.Reader // required
	CoverImage io.Reader // optional, may be nil
}

// LoginResult is the outcome of a successful credential login.
type LoginResult struct {
	User         models.SanitizedUser
	AccessToken  string
	RefreshToken string
}

// TokenPair is a freshly issued access/refresh pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService coordinates the session-token lifecycle: registration, login,
// logout, refresh rotation, and password changes.
type AuthService struct {
	reader      UserReader
	writer      UserWriter
	tokens      TokenIssuer
	store       MediaStore
	kafkaWriter KafkaWriter
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(reader UserReader, writer UserWriter, tokens TokenIssuer, store MediaStore, kafkaWriter KafkaWriter) *AuthService {
	return &AuthService{
		reader:      reader,
		writer:      writer,
		tokens:      tokens,
		store:       store,
		kafkaWriter: kafkaWriter,
	}
}

// Register creates a user record after uploading its media. If the database
// create fails after an upload succeeded, the uploaded assets are destroyed
// before the error is surfaced, so no orphaned media remains.
func (svc *AuthService) Register(ctx context.Context, in RegisterInput) (*models.SanitizedUser, error) {
	in.Fullname = strings.TrimSpace(in.Fullname)
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)

	if in.Fullname == "" || in.Email == "" || in.Username == "" || in.Password == "" {
		return nil, apperrors.ErrValidation
	}
	if in.Avatar == nil {
		return nil, apperrors.New(400, "avatar file is required")
	}

	existing, err := svc.reader.GetByUsernameOrEmail(ctx, &in.Username, &in.Email)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "err", err)
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.ErrDuplicateUser
	}

	avatar, err := svc.store.Upload(ctx, in.Avatar)
	if err != nil {
		return nil, apperrors.New(500, "failed to upload avatar")
	}

	var cover *media.Asset
	if in.CoverImage != nil {
		cover, err = svc.store.Upload(ctx, in.CoverImage)
		if err != nil {
			svc.cleanupMedia(ctx, avatar)
			return nil, apperrors.New(500, "failed to upload cover image")
		}
	}

	newUser := models.NewUser{
		Username:  in.Username,
		Email:     in.Email,
		Fullname:  in.Fullname,
		Password:  in.Password,
		AvatarURL: avatar.URL,
	}
	if cover != nil {
		newUser.CoverImageURL = cover.URL
	}

	userID, err := svc.writer.Create(ctx, newUser)
	if err != nil {
		svc.cleanupMedia(ctx, avatar, cover)
		if errors.Is(err, repositories.ErrDuplicateUser) {
			return nil, apperrors.ErrDuplicateUser
		}
		logger.Log.Errorw("failed to create user", "err", err)
		return nil, err
	}

	created, err := svc.reader.GetByID(ctx, userID)
	if err != nil || created == nil {
		logger.Log.Errorw("failed to load created user", "user_id", userID, "err", err)
		return nil, apperrors.ErrUpstream
	}

	svc.publishAuthEvent(ctx, userID, "registered")

	sanitized := created.Sanitize()
	return &sanitized, nil
}

// Login verifies credentials, issues an access/refresh pair, and persists the
// refresh token on the user record, invalidating any prior session's token.
func (svc *AuthService) Login(ctx context.Context, identifier, pass string) (*LoginResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || pass == "" {
		return nil, apperrors.ErrValidation
	}

	user, err := svc.reader.GetByUsernameOrEmail(ctx, &identifier, &identifier)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !password.Verify(pass, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	pair, err := svc.issueTokenPair(ctx, user)
	if err != nil {
		logger.Log.Errorw("failed to issue tokens", "user_id", user.UserID, "err", err)
		return nil, err
	}

	if err := svc.writer.SetRefreshToken(ctx, user.UserID, &pair.RefreshToken); err != nil {
		logger.Log.Errorw("failed to persist refresh token", "user_id", user.UserID, "err", err)
		return nil, err
	}

	svc.publishAuthEvent(ctx, user.UserID, "logged_in")

	return &LoginResult{
		User:         user.Sanitize(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// Logout clears the stored refresh token for the user. Calling it twice is safe.
func (svc *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := svc.writer.SetRefreshToken(ctx, userID, nil); err != nil {
		logger.Log.Errorw("failed to clear refresh token", "user_id", userID, "err", err)
		return err
	}

	svc.publishAuthEvent(ctx, userID, "logged_out")
	return nil
}

// RefreshAccessToken validates the incoming refresh token against both its
// signature and the stored value, then rotates: a new pair is issued and the
// new refresh token replaces the old one via compare-and-swap, so each
// refresh token is usable exactly once.
func (svc *AuthService) RefreshAccessToken(ctx context.Context, incoming string) (*TokenPair, error) {
	if incoming == "" {
		return nil, apperrors.ErrMissingToken
	}

	userID, err := svc.tokens.ParseRefreshToken(ctx, incoming)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	user, err := svc.reader.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to load user for refresh", "user_id", userID, "err", err)
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrInvalidToken
	}

	// Revocation check: only the single stored token is redeemable.
	if user.RefreshToken == nil || *user.RefreshToken != incoming {
		return nil, apperrors.ErrInvalidToken
	}

	pair, err := svc.issueTokenPair(ctx, user)
	if err != nil {
		logger.Log.Errorw("failed to issue tokens", "user_id", user.UserID, "err", err)
		return nil, err
	}

	rotated, err := svc.writer.RotateRefreshToken(ctx, user.UserID, incoming, pair.RefreshToken)
	if err != nil {
		logger.Log.Errorw("failed to rotate refresh token", "user_id", user.UserID, "err", err)
		return nil, err
	}
	if !rotated {
		// A concurrent refresh or logout replaced the token first.
		return nil, apperrors.ErrInvalidToken
	}

	return pair, nil
}

// ChangePassword re-hashes and persists the new password after verifying the
// old one. Hashing happens inside the user write repository, so no write path
// can store a plaintext password.
func (svc *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPass, newPass string) error {
	if newPass == "" {
		return apperrors.ErrValidation
	}

	user, err := svc.reader.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to load user", "user_id", userID, "err", err)
		return err
	}
	if user == nil || !password.Verify(oldPass, user.PasswordHash) {
		return apperrors.ErrInvalidCredentials
	}

	if err := svc.writer.UpdateFields(ctx, userID, map[string]any{"password": newPass}); err != nil {
		logger.Log.Errorw("failed to update password", "user_id", userID, "err", err)
		return err
	}

	svc.publishAuthEvent(ctx, userID, "password_changed")
	return nil
}

func (svc *AuthService) issueTokenPair(ctx context.Context, user *models.UserDB) (*TokenPair, error) {
	accessToken, err := svc.tokens.GenerateAccessToken(ctx, jwt.AccessClaims{
		UserID:   user.UserID,
		Email:    user.Email,
		Username: user.Username,
		Fullname: user.Fullname,
	})
	if err != nil {
		return nil, err
	}

	refreshToken, err := svc.tokens.GenerateRefreshToken(ctx, user.UserID)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// cleanupMedia deletes assets uploaded during a failed registration.
// Failures here are logged and swallowed: the original error matters more.
func (svc *AuthService) cleanupMedia(ctx context.Context, assets ...*media.Asset) {
	for _, asset := range assets {
		if asset == nil {
			continue
		}
		if err := svc.store.Destroy(ctx, asset.PublicID); err != nil {
			logger.Log.Errorw("failed to clean up uploaded media", "public_id", asset.PublicID, "err", err)
		}
	}
}

// publishAuthEvent publishes an account-level event to Kafka.
func (svc *AuthService) publishAuthEvent(ctx context.Context, userID uuid.UUID, action string) {
	if svc.kafkaWriter == nil {
		return
	}

	event := models.AuthEvent{
		EventID:   uuid.NewString(),
		Timestamp: time.Now().Unix(),
		UserID:    userID.String(),
		Action:    action,
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("failed to marshal auth event", "action", action, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.UserID),
		Value: data,
	}

	if err := svc.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("failed to publish auth event", "action", action, "error", err)
	}
}
