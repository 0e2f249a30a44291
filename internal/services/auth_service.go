package services

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"wallpaper-catalog/internal/apperrors"
	"wallpaper-catalog/internal/database"
	"wallpaper-catalog/internal/models"
)

const MinPasswordLength = 6

var errPasswordTooShort = apperrors.Validation(
	fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength), nil)

// legacyHash matches the unsalted SHA-256 hex digests written by earlier
// deployments.
var legacyHash = regexp.MustCompile(`^[0-9a-f]{64}$`)

type AuthService struct {
	store  *database.Store
	secret []byte
	ttl    time.Duration
}

func NewAuthService(store *database.Store, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (s *AuthService) IsPasswordSet(ctx context.Context) (bool, error) {
	set, err := s.store.IsPasswordSet(ctx)
	if err != nil {
		return false, apperrors.Internal("Status check failed", err)
	}
	return set, nil
}

// Login checks password against the stored credential and issues a token.
func (s *AuthService) Login(ctx context.Context, password string) (string, time.Time, error) {
	if password == "" {
		return "", time.Time{}, apperrors.Validation("Password is required.", nil)
	}

	hash, err := s.store.GetPasswordHash(ctx)
	if errors.Is(err, database.ErrNotFound) {
		return "", time.Time{}, apperrors.ErrPasswordNotSet
	}
	if err != nil {
		return "", time.Time{}, apperrors.Internal("Login failed due to a server error.", err)
	}

	ok, legacy := checkPassword(hash, password)
	if !ok {
		return "", time.Time{}, apperrors.ErrInvalidPassword
	}
	if legacy {
		if err := s.storePassword(ctx, password, false); err != nil {
			slog.Warn("failed to upgrade legacy password hash", "error", err)
		} else {
			slog.Info("upgraded legacy password hash")
		}
	}

	return s.IssueToken()
}

// SetupPassword stores the first admin password. It refuses to overwrite an
// existing one.
func (s *AuthService) SetupPassword(ctx context.Context, password string) error {
	if len(password) < MinPasswordLength {
		return errPasswordTooShort
	}
	return s.storePassword(ctx, password, true)
}

// ChangePassword replaces the stored password. When current is non-empty it
// must match the stored password.
func (s *AuthService) ChangePassword(ctx context.Context, current, next string) error {
	if len(next) < MinPasswordLength {
		return errPasswordTooShort
	}
	if current != "" {
		hash, err := s.store.GetPasswordHash(ctx)
		if err != nil && !errors.Is(err, database.ErrNotFound) {
			return apperrors.Internal("Password change failed", err)
		}
		if ok, _ := checkPassword(hash, current); !ok {
			return apperrors.ErrInvalidPassword
		}
	}
	return s.storePassword(ctx, next, false)
}

func (s *AuthService) storePassword(ctx context.Context, password string, firstTime bool) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Internal("Password setup failed", err)
	}
	if firstTime {
		err = s.store.CreatePasswordHash(ctx, string(hash))
		if errors.Is(err, database.ErrAlreadyExists) {
			return apperrors.ErrPasswordSet
		}
	} else {
		err = s.store.SetPasswordHash(ctx, string(hash))
	}
	if err != nil {
		return apperrors.Internal("Password setup failed", err)
	}
	return nil
}

// IssueToken signs a new admin token.
func (s *AuthService) IssueToken() (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)
	claims := models.Claims{
		User: models.AdminUser,
		Role: models.AdminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   models.AdminUser,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, apperrors.Internal("Login failed due to a server error.", err)
	}
	return token, expiresAt, nil
}

// checkPassword reports whether password matches hash and whether hash is in
// the legacy format.
func checkPassword(hash, password string) (ok, legacy bool) {
	if legacyHash.MatchString(hash) {
		sum := sha256.Sum256([]byte(password))
		return subtle.ConstantTimeCompare([]byte(hex.EncodeToString(sum[:])), []byte(hash)) == 1, true
	}
	if hash == "" {
		return false, false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil, false
}
