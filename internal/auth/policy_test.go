package auth

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"admindesk/internal/apperrors"
	"admindesk/internal/model"
)

func TestPolicyAuthorize(t *testing.T) {
	policy := NewPolicy().
		Require(http.MethodGet, "/api/users", model.RoleAdmin).
		Require(http.MethodDelete, "/api/users/:id", model.RoleAdmin)

	admin := Identity{UserID: 1, Role: model.RoleAdmin}
	user := Identity{UserID: 2, Role: model.RoleUser}

	assert.NoError(t, policy.Authorize(http.MethodGet, "/api/users", admin))
	assert.ErrorIs(t, policy.Authorize(http.MethodGet, "/api/users", user), apperrors.ErrForbidden)
	assert.ErrorIs(t, policy.Authorize(http.MethodDelete, "/api/users/:id", user), apperrors.ErrForbidden)

	// Routes outside the table only require authentication.
	assert.NoError(t, policy.Authorize(http.MethodGet, "/api/me", user))
	assert.NoError(t, policy.Authorize(http.MethodGet, "/api/me", admin))
}
