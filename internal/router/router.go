package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"admindesk/internal/apperrors"
	"admindesk/internal/auth"
	"admindesk/internal/handler"
	"admindesk/internal/model"
	"admindesk/internal/observability"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	jwtService *auth.JWTService,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	registry *prometheus.Registry,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	prom := observability.NewProm(registry)
	e.Use(prom.Middleware())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// Every /users route is admin-only; /me only needs a valid token.
	policy := auth.NewPolicy().
		Require(http.MethodGet, "/api/users", model.RoleAdmin).
		Require(http.MethodPost, "/api/users", model.RoleAdmin).
		Require(http.MethodGet, "/api/users/:id", model.RoleAdmin).
		Require(http.MethodPut, "/api/users/:id", model.RoleAdmin).
		Require(http.MethodDelete, "/api/users/:id", model.RoleAdmin)

	// Secured routes: the JWT middleware verifies the token, the policy
	// middleware decides per route.
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return jwtService.ValidateToken(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			httpErr := apperrors.MapErrorToHTTP(apperrors.ErrInvalidToken)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		},
	}), policy.Middleware())

	secured.GET("/me", func(c echo.Context) error {
		id, ok := auth.IdentityFromContext(c)
		if !ok {
			httpErr := apperrors.MapErrorToHTTP(apperrors.ErrInvalidToken)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
		return c.JSON(http.StatusOK, echo.Map{"id": id.UserID, "role": id.Role})
	})

	secured.GET("/users", userHandler.List)
	secured.POST("/users", userHandler.Create)
	secured.GET("/users/:id", userHandler.Get)
	secured.PUT("/users/:id", userHandler.Update)
	secured.DELETE("/users/:id", userHandler.Delete)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
