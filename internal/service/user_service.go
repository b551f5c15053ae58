package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"admindesk/internal/apperrors"
	"admindesk/internal/cache"
	"admindesk/internal/model"
	"admindesk/internal/repository"
)

// PageSize is the fixed number of users per list page.
const PageSize = 10

// tempPassword is assigned to admin-created users until they reset it.
const tempPassword = "TempPass123!"

const userCacheTTL = 5 * time.Minute

// UserPage is one page of list results.
type UserPage struct {
	Items []model.User `json:"items"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Pages int          `json:"pages"`
}

// CreateUserInput is the admin-create payload after validation.
type CreateUserInput struct {
	Email string
	Name  string
	Role  model.Role
}

// UpdateUserInput carries the fields of a partial update. Nil means untouched.
type UpdateUserInput struct {
	Name *string
	Role *model.Role
}

// UserService exposes the admin user-management operations.
type UserService interface {
	List(ctx context.Context, q repository.ListQuery) (*UserPage, error)
	Get(ctx context.Context, id uint) (*model.User, error)
	Create(ctx context.Context, in CreateUserInput) (*model.User, error)
	Update(ctx context.Context, id uint, in UpdateUserInput) (*model.User, error)
	Delete(ctx context.Context, id uint) error
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

func (s *userService) List(ctx context.Context, q repository.ListQuery) (*UserPage, error) {
	q.PageSize = PageSize
	users, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	pages := int((total + PageSize - 1) / PageSize)
	if users == nil {
		users = []model.User{}
	}
	return &UserPage{
		Items: users,
		Total: total,
		Page:  q.Page,
		Pages: pages,
	}, nil
}

func (s *userService) Get(ctx context.Context, id uint) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}

// Create adds a user with a hashed temporary password. Role defaults to USER.
func (s *userService) Create(ctx context.Context, in CreateUserInput) (*model.User, error) {
	role := in.Role
	if role == "" {
		role = model.RoleUser
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash temp password: %w", err)
	}

	user := &model.User{
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: string(hashed),
		Role:         role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Update applies the supplied fields only; name and role are the sole mutable
// columns through this path.
func (s *userService) Update(ctx context.Context, id uint, in UpdateUserInput) (*model.User, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	fields := map[string]interface{}{}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Role != nil {
		fields["role"] = *in.Role
	}

	if len(fields) > 0 {
		if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		_ = s.cache.Delete(ctx, s.cacheKey(id))
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload user: %w", err)
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id uint) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrUserNotFound
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}
