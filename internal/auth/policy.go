package auth

import (
	"github.com/labstack/echo/v4"

	"admindesk/internal/apperrors"
	"admindesk/internal/model"
)

// identityKey is the echo context key under which the caller's identity is stored.
const identityKey = "identity"

// Identity is the authenticated caller decoded from a session token.
type Identity struct {
	UserID uint
	Role   model.Role
}

// Policy is an explicit authorization table mapping routes to the role they
// require. Routes absent from the table only require a valid token.
type Policy struct {
	rules map[string]model.Role
}

// NewPolicy creates an empty policy.
func NewPolicy() *Policy {
	return &Policy{rules: map[string]model.Role{}}
}

// Require records that the given method and route template need the given role.
func (p *Policy) Require(method, path string, role model.Role) *Policy {
	p.rules[method+" "+path] = role
	return p
}

// Authorize decides whether id may call the given route.
func (p *Policy) Authorize(method, path string, id Identity) error {
	required, ok := p.rules[method+" "+path]
	if !ok {
		return nil
	}
	if id.Role != required {
		return apperrors.ErrForbidden
	}
	return nil
}

// Middleware enforces the policy against the claims stored by the JWT
// middleware and attaches the caller's identity to the request context.
func (p *Policy) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get("user").(*Claims)
			if !ok {
				httpErr := apperrors.MapErrorToHTTP(apperrors.ErrInvalidToken)
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}

			id := Identity{UserID: claims.UserID, Role: claims.Role}
			if err := p.Authorize(c.Request().Method, c.Path(), id); err != nil {
				httpErr := apperrors.MapErrorToHTTP(err)
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}

			c.Set(identityKey, id)
			return next(c)
		}
	}
}

// IdentityFromContext returns the identity attached by Middleware, if any.
func IdentityFromContext(c echo.Context) (Identity, bool) {
	id, ok := c.Get(identityKey).(Identity)
	return id, ok
}
