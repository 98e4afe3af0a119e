package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"quill/internal/middleware"
	"quill/internal/models"
	"quill/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const minLockPasswordLen = 4

// GateService backs the sensitive-entry password gate. Passwords are stored
// as bcrypt hashes; a successful verification mints a short-lived unlock
// token the client holds for the rest of its viewing session.
type GateService struct {
	userRepo repository.UserRepository
	secret   []byte
	ttl      time.Duration
}

func NewGateService(userRepo repository.UserRepository, secret string, ttl time.Duration) *GateService {
	return &GateService{userRepo: userRepo, secret: []byte(secret), ttl: ttl}
}

// SetLockPassword hashes and stores the gate password for the given journal
// owner, replacing any previous one.
func (s *GateService) SetLockPassword(ctx context.Context, email, password string) error {
	if strings.TrimSpace(email) == "" {
		return models.NewValidationError("userEmail is required")
	}
	if len(password) < minLockPasswordLen {
		return models.NewValidationError("Password must be at least 4 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}
	return s.userRepo.UpsertLockPassword(ctx, email, string(hash))
}

// VerifyPassword checks the supplied password and mints an unlock token on
// success. Every failure path returns the same auth challenge error so the
// response never says whether the owner exists or the password was wrong.
func (s *GateService) VerifyPassword(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "NOT_FOUND" {
			middleware.GateVerifications.WithLabelValues("rejected").Inc()
			return "", models.NewAuthChallengeError()
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.LockPasswordHash), []byte(password)); err != nil {
		middleware.GateVerifications.WithLabelValues("rejected").Inc()
		return "", models.NewAuthChallengeError()
	}

	token, err := s.mintUnlockToken(user.Email)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	middleware.GateVerifications.WithLabelValues("accepted").Inc()
	return token, nil
}

func (s *GateService) mintUnlockToken(email string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ValidateUnlockToken returns the owner email the token was minted for, or
// an auth challenge error when the token is invalid or expired.
func (s *GateService) ValidateUnlockToken(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", models.NewAuthChallengeError()
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", models.NewAuthChallengeError()
	}
	return claims.Subject, nil
}
