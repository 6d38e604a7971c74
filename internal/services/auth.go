package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"adminhub/internal/apperr"
	"adminhub/internal/domain"
	"adminhub/internal/logger"
	"adminhub/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Claims carries the caller identity inside an access token. Subject holds
// the user id.
type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

func (c Claims) UserID() (uint64, error) {
	return strconv.ParseUint(c.Subject, 10, 64)
}

type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *domain.User `json:"user"`
}

type AuthService struct {
	store  repository.Store
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	log    *zap.Logger
}

func NewAuthService(store repository.Store, secret string, ttl time.Duration, log *zap.Logger) *AuthService {
	return &AuthService{store: store, secret: []byte(secret), ttl: ttl, now: time.Now, log: log}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, apperr.Validation("Email and password are required")
	}
	u, err := s.store.Repos().Users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Unauthorized("Invalid email or password")
		}
		return nil, apperr.Internal("failed to look up user", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		logger.For(ctx, s.log).Info("login rejected", zap.Uint64("user_id", u.ID))
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	token, exp, err := s.IssueToken(u)
	if err != nil {
		return nil, apperr.Internal("failed to issue token", err)
	}
	return &LoginResult{Token: token, ExpiresAt: exp, User: u}, nil
}

func (s *AuthService) IssueToken(u *domain.User) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	claims := Claims{
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ParseToken verifies signature and expiry and rejects anything not signed
// with HMAC.
func (s *AuthService) ParseToken(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.Unauthorized("Invalid or expired token")
	}
	if _, err := claims.UserID(); err != nil {
		return nil, apperr.Unauthorized("Invalid token claims")
	}
	return claims, nil
}
