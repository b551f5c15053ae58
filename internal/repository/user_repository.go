package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"admindesk/internal/model"
)

// ListQuery captures the list endpoint's query parameters after validation.
type ListQuery struct {
	Page     int
	PageSize int
	Q        string
	Sort     string
	Dir      string
}

// sortColumns is the fixed mapping from client-facing sort keys to columns.
// Client input is never interpolated into the order clause directly.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"name":      "name",
	"email":     "email",
	"role":      "role",
}

// SortColumn resolves a client sort key to its column, defaulting to created_at.
func SortColumn(key string) string {
	if col, ok := sortColumns[key]; ok {
		return col
	}
	return "created_at"
}

// orderClause builds a deterministic order clause: the requested key first,
// then id in the same direction as a stable tie-break.
func orderClause(q ListQuery) string {
	dir := "DESC"
	if strings.EqualFold(q.Dir, "asc") {
		dir = "ASC"
	}
	col := SortColumn(q.Sort)
	return col + " " + dir + ", id " + dir
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, q ListQuery) ([]model.User, int64, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns one page of users matching q plus the total match count.
func (r *userRepository) List(ctx context.Context, q ListQuery) ([]model.User, int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.User{})
	if q.Q != "" {
		pattern := "%" + strings.ToLower(q.Q) + "%"
		tx = tx.Where("LOWER(email) LIKE ? OR LOWER(name) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.User
	err := tx.Order(orderClause(q)).
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// UpdateFields applies a partial update. Existence is the caller's concern:
// MySQL reports zero affected rows for a no-op update, so RowsAffected cannot
// distinguish a missing row from an unchanged one.
func (r *userRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(fields).Error
}

// Delete hard-deletes a user and reports how many rows were removed.
func (r *userRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.User{}, id)
	return res.RowsAffected, res.Error
}
