package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"admindesk/internal/apperrors"
	"admindesk/internal/model"
	"admindesk/internal/repository"
)

func TestCreateDefaultsRoleAndAssignsTempPassword(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo, nil)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "new@x.com" &&
			u.Name == "New" &&
			u.Role == model.RoleUser &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(tempPassword)) == nil
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.User).ID = 10
	}).Return(nil)

	user, err := svc.Create(context.Background(), CreateUserInput{
		Email: "new@x.com",
		Name:  "New",
	})
	assert.NoError(t, err)
	assert.Equal(t, uint(10), user.ID)
	assert.Equal(t, model.RoleUser, user.Role)
	repo.AssertExpectations(t)
}

func TestCreateKeepsExplicitRole(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo, nil)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Role == model.RoleAdmin
	})).Return(nil)

	user, err := svc.Create(context.Background(), CreateUserInput{
		Email: "boss@x.com",
		Name:  "Boss",
		Role:  model.RoleAdmin,
	})
	assert.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, user.Role)
}

func TestCreateDuplicateEmail(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo, nil)

	repo.On("Create", mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)

	_, err := svc.Create(context.Background(), CreateUserInput{
		Email: "dup@x.com",
		Name:  "Dup",
	})
	assert.ErrorIs(t, err, apperrors.ErrEmailTaken)
}

func TestUpdateOnlySuppliedFields(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo, nil)

	stored := &model.User{ID: 5, Email: "u@x.com", Name: "Old", Role: model.RoleUser}
	repo.On("FindByID", mock.Anything, uint(5)).Return(stored, nil)

	name := "Renamed"
	repo.On("UpdateFields", mock.Anything, uint(5), map[string]interface{}{
		"name": "Renamed",
	}).Return(nil)

	_, err := svc.Update(context.Background(), 5, UpdateUserInput{Name: &name})
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUpdateRoleOnlyLeavesNameAlone(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo, nil)

	stored := &model.User{ID: 5, Email: "u@x.com", Name: "Keep", Role: model.RoleUser}
	repo.On("FindByID", mock.Anything, uint(5)).Return(stored, nil)

	role := model.RoleAdmin
	repo.On("UpdateFields", mock.Anything, uint(5), map[string]interface{}{
		"role": model.RoleAdmin,
	}).Return(nil)

	_, err := svc.Update(context.Background(), 5, UpdateUserInput{Role: &role})
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUpdateWithNoFieldsSkipsWrite(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo, nil)

	stored := &model.User{ID: 5, Email: "u@x.com", Name: "Keep"}
	repo.On("FindByID", mock.Anything, uint(5)).Return(stored, nil)

	user, err := svc.Update(context.Background(), 5, UpdateUserInput{})
	assert.NoError(t, err)
	assert.Equal(t, stored, user)
	repo.AssertNotCalled(t, "UpdateFields")
}

func TestUpdateMissingUser(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo, nil)

	repo.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

	name := "x"
	_, err := svc.Update(context.Background(), 99, UpdateUserInput{Name: &name})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	repo.AssertNotCalled(t, "UpdateFields")
}

func TestDeleteMissingUser(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo, nil)

	repo.On("Delete", mock.Anything, uint(99)).Return(int64(0), nil)

	err := svc.Delete(context.Background(), 99)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestDeleteSuccess(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo, nil)

	repo.On("Delete", mock.Anything, uint(5)).Return(int64(1), nil)

	assert.NoError(t, svc.Delete(context.Background(), 5))
}

func TestListComputesPages(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo, nil)

	items := make([]model.User, 10)
	repo.On("List", mock.Anything, mock.MatchedBy(func(q repository.ListQuery) bool {
		return q.PageSize == PageSize && q.Page == 2 && q.Q == "a"
	})).Return(items, int64(25), nil)

	page, err := svc.List(context.Background(), repository.ListQuery{Page: 2, Q: "a", Sort: "name", Dir: "asc"})
	assert.NoError(t, err)
	assert.Equal(t, int64(25), page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 3, page.Pages)
	assert.Len(t, page.Items, 10)
}

func TestListEmptyResultIsNotNil(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo, nil)

	repo.On("List", mock.Anything, mock.Anything).Return(nil, int64(0), nil)

	page, err := svc.List(context.Background(), repository.ListQuery{Page: 1})
	assert.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Len(t, page.Items, 0)
	assert.Equal(t, 0, page.Pages)
}

func TestGetMissingUser(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo, nil)

	repo.On("FindByID", mock.Anything, uint(404)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Get(context.Background(), 404)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
