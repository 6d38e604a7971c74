package services

import (
	"context"
	"errors"
	"testing"

	"adminhub/internal/apperr"
	"adminhub/internal/domain"
	"adminhub/internal/infra/media"
	"adminhub/internal/mocks"
	"adminhub/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestEmployeeService_CreateEmployee(t *testing.T) {
	tests := []struct {
		name          string
		input         EmployeeInput
		avatar        *media.File
		setupMocks    func(*mocks.MockMediaStore)
		expectedError error
		expectedMsg   string
	}{
		{
			name:       "defaults to employee role and lowercases email",
			input:      EmployeeInput{Name: "Sam", Email: "Sam@Shop.io", Password: "longenough"},
			setupMocks: func(*mocks.MockMediaStore) {},
		},
		{
			name:   "with avatar",
			input:  EmployeeInput{Name: "Sam", Email: "sam@shop.io", Password: "longenough", Role: domain.RoleManager},
			avatar: imageFile("me.png"),
			setupMocks: func(m *mocks.MockMediaStore) {
				m.On("Upload", mock.Anything, mock.Anything, "avatars").Return(domain.Image{URL: "https://cdn/me.png", PublicID: "avatars/me"}, nil)
			},
		},
		{
			name:          "duplicate email",
			input:         EmployeeInput{Name: "Dup", Email: "TAKEN@shop.io", Password: "longenough"},
			setupMocks:    func(*mocks.MockMediaStore) {},
			expectedError: apperr.ErrConflict,
			expectedMsg:   "User with this email already exists",
		},
		{
			name:          "short password",
			input:         EmployeeInput{Name: "Sam", Email: "sam@shop.io", Password: "short"},
			setupMocks:    func(*mocks.MockMediaStore) {},
			expectedError: apperr.ErrValidation,
		},
		{
			name:          "missing fields",
			input:         EmployeeInput{Email: "sam@shop.io", Password: "longenough"},
			setupMocks:    func(*mocks.MockMediaStore) {},
			expectedError: apperr.ErrValidation,
			expectedMsg:   "Missing required fields",
		},
		{
			name:          "bad email",
			input:         EmployeeInput{Name: "Sam", Email: "not-an-email", Password: "longenough"},
			setupMocks:    func(*mocks.MockMediaStore) {},
			expectedError: apperr.ErrValidation,
		},
		{
			name:          "display-name address",
			input:         EmployeeInput{Name: "Bob", Email: "Bob Smith <bob@shop.io>", Password: "longenough"},
			setupMocks:    func(*mocks.MockMediaStore) {},
			expectedError: apperr.ErrValidation,
			expectedMsg:   "Please provide a valid email",
		},
		{
			name:          "unknown role",
			input:         EmployeeInput{Name: "Sam", Email: "sam@shop.io", Password: "longenough", Role: "owner"},
			setupMocks:    func(*mocks.MockMediaStore) {},
			expectedError: apperr.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := memory.NewStore()
			seedUser(t, s, "taken@shop.io", domain.RoleEmployee)
			m := new(mocks.MockMediaStore)
			tt.setupMocks(m)
			service := NewEmployeeService(s, m, zap.NewNop())

			result, err := service.CreateEmployee(context.Background(), tt.input, tt.avatar)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				if tt.expectedMsg != "" {
					assert.Equal(t, tt.expectedMsg, apperr.From(err).Message)
				}
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "sam@shop.io", result.Email)
				assert.NotEqual(t, tt.input.Password, result.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(result.PasswordHash), []byte(tt.input.Password)))
				if tt.input.Role == "" {
					assert.Equal(t, domain.RoleEmployee, result.Role)
				}
				if tt.avatar != nil {
					assert.Equal(t, "https://cdn/me.png", result.Image)
				}
			}
			m.AssertExpectations(t)
		})
	}
}

func TestEmployeeService_UpdateEmployee_KeepsBlankFields(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	u := seedUser(t, s, "sam@shop.io", domain.RoleEmployee)
	oldHash := u.PasswordHash
	service := NewEmployeeService(s, media.Disabled{}, zap.NewNop())

	got, err := service.UpdateEmployee(ctx, u.ID, EmployeeInput{Department: "Sales"}, nil)
	require.NoError(t, err)
	assert.Equal(t, u.Name, got.Name)
	assert.Equal(t, "sam@shop.io", got.Email)
	assert.Equal(t, "Sales", got.Department)
	assert.Equal(t, oldHash, got.PasswordHash)

	got, err = service.UpdateEmployee(ctx, u.ID, EmployeeInput{Password: "brand-new-pass"}, nil)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(got.PasswordHash), []byte("brand-new-pass")))

	_, err = service.UpdateEmployee(ctx, 404, EmployeeInput{Name: "x"}, nil)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestEmployeeService_UpdateEmployee_ReplacesAvatar(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	u := &domain.User{Name: "Sam", Email: "sam@shop.io", PasswordHash: "x", Role: domain.RoleEmployee, Image: "old", ImagePublicID: "avatars/old"}
	require.NoError(t, s.Repos().Users.Create(ctx, u))

	m := new(mocks.MockMediaStore)
	m.On("Upload", mock.Anything, mock.Anything, "avatars").Return(domain.Image{URL: "new", PublicID: "avatars/new"}, nil)
	m.On("Delete", mock.Anything, "avatars/old").Return(nil)
	service := NewEmployeeService(s, m, zap.NewNop())

	got, err := service.UpdateEmployee(ctx, u.ID, EmployeeInput{}, imageFile("new.png"))
	require.NoError(t, err)
	assert.Equal(t, "new", got.Image)
	m.AssertExpectations(t)
}

func TestEmployeeService_DeleteEmployee(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	u := &domain.User{Name: "Sam", Email: "sam@shop.io", PasswordHash: "x", Role: domain.RoleEmployee, ImagePublicID: "avatars/sam"}
	require.NoError(t, s.Repos().Users.Create(ctx, u))

	m := new(mocks.MockMediaStore)
	m.On("Delete", mock.Anything, "avatars/sam").Return(errors.New("cdn down")).Once()
	m.On("Delete", mock.Anything, "avatars/sam").Return(nil).Once()
	service := NewEmployeeService(s, m, zap.NewNop())

	err := service.DeleteEmployee(ctx, u.ID)
	assert.ErrorIs(t, err, apperr.ErrUpstream)
	_, err = service.GetEmployee(ctx, u.ID)
	require.NoError(t, err)

	require.NoError(t, service.DeleteEmployee(ctx, u.ID))
	_, err = service.GetEmployee(ctx, u.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	m.AssertExpectations(t)
}

func TestEmployeeService_UpdateProfile(t *testing.T) {
	tests := []struct {
		name          string
		input         ProfileInput
		expectedError error
		expectedMsg   string
		check         func(t *testing.T, u *domain.User)
	}{
		{
			name:  "name and phone",
			input: ProfileInput{Name: "Samantha", Phone: "555"},
			check: func(t *testing.T, u *domain.User) {
				assert.Equal(t, "Samantha", u.Name)
				assert.Equal(t, "555", u.Phone)
			},
		},
		{
			name:          "email already in use",
			input:         ProfileInput{Email: "other@shop.io"},
			expectedError: apperr.ErrConflict,
			expectedMsg:   "Email already in use",
		},
		{
			name:          "display-name address",
			input:         ProfileInput{Email: "Sam <sam@shop.io>"},
			expectedError: apperr.ErrValidation,
			expectedMsg:   "Please provide a valid email",
		},
		{
			name:  "same email is not a conflict",
			input: ProfileInput{Email: "SAM@shop.io"},
			check: func(t *testing.T, u *domain.User) {
				assert.Equal(t, "sam@shop.io", u.Email)
			},
		},
		{
			name:          "wrong current password",
			input:         ProfileInput{CurrentPassword: "nope-nope", NewPassword: "another-pass"},
			expectedError: apperr.ErrValidation,
			expectedMsg:   "Current password is incorrect",
		},
		{
			name:  "password change",
			input: ProfileInput{CurrentPassword: TestPassword, NewPassword: "another-pass"},
			check: func(t *testing.T, u *domain.User) {
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("another-pass")))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := memory.NewStore()
			me := seedUser(t, s, "sam@shop.io", domain.RoleEmployee)
			seedUser(t, s, "other@shop.io", domain.RoleEmployee)
			service := NewEmployeeService(s, media.Disabled{}, zap.NewNop())

			got, err := service.UpdateProfile(context.Background(), me.ID, tt.input, nil)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Equal(t, tt.expectedMsg, apperr.From(err).Message)
				return
			}
			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestEmployeeService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	me := seedUser(t, s, "sam@shop.io", domain.RoleEmployee)
	service := NewEmployeeService(s, media.Disabled{}, zap.NewNop())

	err := service.ChangePassword(ctx, me.ID, "", "x")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	err = service.ChangePassword(ctx, me.ID, "wrong-password", "another-pass")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	err = service.ChangePassword(ctx, 404, TestPassword, "another-pass")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	require.NoError(t, service.ChangePassword(ctx, me.ID, TestPassword, "another-pass"))
	u, err := service.GetProfile(ctx, me.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("another-pass")))
}
