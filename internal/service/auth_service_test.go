package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"admindesk/internal/apperrors"
	"admindesk/internal/auth"
	"admindesk/internal/model"
	"admindesk/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, q repository.ListQuery) ([]model.User, int64, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]model.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hashed)
}

func TestRegisterSuccess(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewAuthService(repo, auth.NewJWTService("test-secret"))

	repo.On("FindByEmail", mock.Anything, "a@x.com").Return(nil, gorm.ErrRecordNotFound)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "a@x.com" &&
			u.Name == "a" &&
			u.Role == model.RoleUser &&
			u.PasswordHash != "secret1"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.User).ID = 1
	}).Return(nil)

	id, err := svc.Register(context.Background(), "a@x.com", "secret1")
	assert.NoError(t, err)
	assert.Equal(t, uint(1), id)
	repo.AssertExpectations(t)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewAuthService(repo, auth.NewJWTService("test-secret"))

	existing := &model.User{ID: 7, Email: "a@x.com"}
	repo.On("FindByEmail", mock.Anything, "a@x.com").Return(existing, nil)

	_, err := svc.Register(context.Background(), "a@x.com", "secret1")
	assert.ErrorIs(t, err, apperrors.ErrEmailTaken)
	repo.AssertNotCalled(t, "Create")
}

func TestRegisterDuplicateEmailRace(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewAuthService(repo, auth.NewJWTService("test-secret"))

	repo.On("FindByEmail", mock.Anything, "a@x.com").Return(nil, gorm.ErrRecordNotFound)
	repo.On("Create", mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)

	_, err := svc.Register(context.Background(), "a@x.com", "secret1")
	assert.ErrorIs(t, err, apperrors.ErrEmailTaken)
}

func TestLoginSuccess(t *testing.T) {
	repo := new(MockUserRepository)
	jwtService := auth.NewJWTService("test-secret")
	svc := NewAuthService(repo, jwtService)

	stored := &model.User{
		ID:           3,
		Email:        "a@x.com",
		Name:         "a",
		PasswordHash: hashOf(t, "secret1"),
		Role:         model.RoleAdmin,
	}
	repo.On("FindByEmail", mock.Anything, "a@x.com").Return(stored, nil)

	token, user, err := svc.Login(context.Background(), "a@x.com", "secret1")
	assert.NoError(t, err)
	assert.Equal(t, stored, user)

	claims, err := jwtService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(3), claims.UserID)
	assert.Equal(t, model.RoleAdmin, claims.Role)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewAuthService(repo, auth.NewJWTService("test-secret"))

	stored := &model.User{
		ID:           3,
		Email:        "a@x.com",
		PasswordHash: hashOf(t, "secret1"),
		Role:         model.RoleUser,
	}
	repo.On("FindByEmail", mock.Anything, "a@x.com").Return(stored, nil)
	repo.On("FindByEmail", mock.Anything, "nobody@x.com").Return(nil, gorm.ErrRecordNotFound)

	_, _, wrongPassword := svc.Login(context.Background(), "a@x.com", "wrong")
	_, _, unknownEmail := svc.Login(context.Background(), "nobody@x.com", "secret1")

	assert.ErrorIs(t, wrongPassword, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, apperrors.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}
