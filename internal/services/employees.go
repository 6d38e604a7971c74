package services

import (
	"context"
	"errors"
	"strings"

	"adminhub/internal/apperr"
	"adminhub/internal/domain"
	"adminhub/internal/infra/media"
	"adminhub/internal/logger"
	"adminhub/internal/repository"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	avatarFolder = "avatars"
	bcryptCost   = 10
)

var emailValidator = validator.New()

type EmployeeInput struct {
	Name       string
	Email      string
	Password   string
	Role       domain.Role
	Department string
	Position   string
	Phone      string
}

type ProfileInput struct {
	Name            string
	Email           string
	Phone           string
	CurrentPassword string
	NewPassword     string
}

// EmployeeService manages AdminHub accounts: the employee directory and the
// caller's own profile.
type EmployeeService struct {
	store repository.Store
	media media.Store
	log   *zap.Logger
}

func NewEmployeeService(store repository.Store, m media.Store, log *zap.Logger) *EmployeeService {
	return &EmployeeService{store: store, media: m, log: log}
}

func HashPassword(plain string) (string, error) {
	if len(plain) < domain.MinPasswordLength {
		return "", apperr.Validation("Password must be at least %d characters", domain.MinPasswordLength)
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", apperr.Internal("failed to hash password", err)
	}
	return string(b), nil
}

// normalizeEmail accepts a bare address only; display-name forms are rejected.
func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := emailValidator.Var(email, "required,email"); err != nil {
		return "", apperr.Validation("Please provide a valid email")
	}
	return email, nil
}

func (s *EmployeeService) ListEmployees(ctx context.Context, f domain.UserFilter) ([]domain.User, error) {
	out, err := s.store.Repos().Users.List(ctx, f)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch employees", err)
	}
	if out == nil {
		out = []domain.User{}
	}
	return out, nil
}

func (s *EmployeeService) GetEmployee(ctx context.Context, id uint64) (*domain.User, error) {
	u, err := s.store.Repos().Users.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, apperr.NotFound("Employee not found"))
	}
	return u, nil
}

func (s *EmployeeService) CreateEmployee(ctx context.Context, in EmployeeInput, avatar *media.File) (*domain.User, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, apperr.Validation("Missing required fields")
	}
	if len(in.Name) > 60 {
		return nil, apperr.Validation("Name cannot be more than 60 characters")
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if in.Role == "" {
		in.Role = domain.RoleEmployee
	}
	if !in.Role.Valid() {
		return nil, apperr.Validation("Invalid role: %s", in.Role)
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         in.Role,
		Department:   strings.TrimSpace(in.Department),
		Position:     strings.TrimSpace(in.Position),
		Phone:        strings.TrimSpace(in.Phone),
	}

	if avatar != nil {
		img, err := s.media.Upload(ctx, *avatar, avatarFolder)
		if err != nil {
			return nil, uploadError(err)
		}
		u.Image, u.ImagePublicID = img.URL, img.PublicID
	}

	if err := s.store.Repos().Users.Create(ctx, u); err != nil {
		s.discardAvatar(ctx, u.ImagePublicID)
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("User with this email already exists")
		}
		return nil, apperr.Internal("Failed to create employee", err)
	}
	logger.For(ctx, s.log).Info("employee created", zap.Uint64("user_id", u.ID), zap.String("role", string(u.Role)))
	return u, nil
}

// UpdateEmployee keeps the current value of every blank field. A non-empty
// password is re-hashed.
func (s *EmployeeService) UpdateEmployee(ctx context.Context, id uint64, in EmployeeInput, avatar *media.File) (*domain.User, error) {
	u, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		u.Name = name
	}
	if strings.TrimSpace(in.Email) != "" {
		if u.Email, err = normalizeEmail(in.Email); err != nil {
			return nil, err
		}
	}
	if in.Role != "" {
		if !in.Role.Valid() {
			return nil, apperr.Validation("Invalid role: %s", in.Role)
		}
		u.Role = in.Role
	}
	if v := strings.TrimSpace(in.Department); v != "" {
		u.Department = v
	}
	if v := strings.TrimSpace(in.Position); v != "" {
		u.Position = v
	}
	if v := strings.TrimSpace(in.Phone); v != "" {
		u.Phone = v
	}
	if in.Password != "" {
		if u.PasswordHash, err = HashPassword(in.Password); err != nil {
			return nil, err
		}
	}

	return s.saveWithAvatar(ctx, u, avatar, "Failed to update employee")
}

// DeleteEmployee removes the avatar first and keeps the account if that fails.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, id uint64) error {
	u, err := s.GetEmployee(ctx, id)
	if err != nil {
		return err
	}
	if u.ImagePublicID != "" {
		if err := s.media.Delete(ctx, u.ImagePublicID); err != nil {
			return apperr.Upstream("Failed to delete employee image", err)
		}
	}
	if err := s.store.Repos().Users.Delete(ctx, id); err != nil {
		return notFoundOr(err, apperr.NotFound("Employee not found"))
	}
	logger.For(ctx, s.log).Info("employee deleted", zap.Uint64("user_id", id))
	return nil
}

func (s *EmployeeService) GetProfile(ctx context.Context, caller uint64) (*domain.User, error) {
	u, err := s.store.Repos().Users.FindByID(ctx, caller)
	if err != nil {
		return nil, notFoundOr(err, apperr.NotFound("User not found"))
	}
	return u, nil
}

func (s *EmployeeService) UpdateProfile(ctx context.Context, caller uint64, in ProfileInput, avatar *media.File) (*domain.User, error) {
	u, err := s.GetProfile(ctx, caller)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		u.Name = name
	}
	if phone := strings.TrimSpace(in.Phone); phone != "" {
		u.Phone = phone
	}
	if strings.TrimSpace(in.Email) != "" {
		email, err := normalizeEmail(in.Email)
		if err != nil {
			return nil, err
		}
		if email != u.Email {
			if _, err := s.store.Repos().Users.FindByEmail(ctx, email); err == nil {
				return nil, apperr.Conflict("Email already in use")
			} else if !errors.Is(err, repository.ErrNotFound) {
				return nil, apperr.Internal("Failed to update profile", err)
			}
			u.Email = email
		}
	}
	if in.CurrentPassword != "" && in.NewPassword != "" {
		if err := checkPassword(u, in.CurrentPassword); err != nil {
			return nil, err
		}
		if u.PasswordHash, err = HashPassword(in.NewPassword); err != nil {
			return nil, err
		}
	}

	return s.saveWithAvatar(ctx, u, avatar, "Failed to update profile")
}

func (s *EmployeeService) ChangePassword(ctx context.Context, caller uint64, current, next string) error {
	if current == "" || next == "" {
		return apperr.Validation("Missing required fields")
	}
	u, err := s.GetProfile(ctx, caller)
	if err != nil {
		return err
	}
	if err := checkPassword(u, current); err != nil {
		return err
	}
	if u.PasswordHash, err = HashPassword(next); err != nil {
		return err
	}
	if err := s.store.Repos().Users.Update(ctx, u); err != nil {
		return apperr.Internal("Failed to update password", err)
	}
	return nil
}

func checkPassword(u *domain.User, plain string) error {
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) != nil {
		return apperr.Validation("Current password is incorrect")
	}
	return nil
}

// saveWithAvatar uploads the new avatar, persists u and only then removes
// the avatar it replaced.
func (s *EmployeeService) saveWithAvatar(ctx context.Context, u *domain.User, avatar *media.File, failMsg string) (*domain.User, error) {
	oldPublicID := ""
	if avatar != nil {
		img, err := s.media.Upload(ctx, *avatar, avatarFolder)
		if err != nil {
			return nil, uploadError(err)
		}
		oldPublicID = u.ImagePublicID
		u.Image, u.ImagePublicID = img.URL, img.PublicID
	}

	if err := s.store.Repos().Users.Update(ctx, u); err != nil {
		if avatar != nil {
			s.discardAvatar(ctx, u.ImagePublicID)
		}
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, apperr.Conflict("Email already in use")
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal(failMsg, err)
	}

	s.discardAvatar(ctx, oldPublicID)
	return u, nil
}

func (s *EmployeeService) discardAvatar(ctx context.Context, publicID string) {
	if publicID == "" {
		return
	}
	if err := s.media.Delete(ctx, publicID); err != nil {
		logger.For(ctx, s.log).Warn("failed to delete avatar", zap.String("public_id", publicID), zap.Error(err))
	}
}
