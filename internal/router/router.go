package router

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"pixflow/internal/auth"
	"pixflow/internal/cache"
	"pixflow/internal/config"
	"pixflow/internal/handler"
	"pixflow/internal/ratelimit"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	cacheClient *cache.Client,
	authHandler *handler.AuthHandler,
	chargeHandler *handler.ChargeHandler,
	dashboardHandler *handler.DashboardHandler,
	adminHandler *handler.AdminHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "PixFlow API", "hint": "/api/*"})
	})

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("", rateLimiter(cacheClient, "default", 50, time.Hour))

	// Public routes. Login and reset carry the tightest quotas: both are
	// password-guessing surfaces.
	api.POST("/api/login", authHandler.Login, rateLimiter(cacheClient, "login", 5, 15*time.Minute))
	api.POST("/api/reset", authHandler.Reset, rateLimiter(cacheClient, "reset", 3, time.Hour))

	// Secured routes (require JWT authentication)
	secured := api.Group("/api", echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	}))

	secured.GET("/me", authHandler.Me)
	secured.POST("/change-password", authHandler.ChangePassword)
	secured.POST("/pix", authHandler.SetPix)
	secured.POST("/settings/credential", authHandler.SetCredential)
	secured.GET("/settings/credential", authHandler.GetCredential)

	// Charge routes
	secured.POST("/charges", chargeHandler.Create)
	secured.GET("/charges", chargeHandler.List)
	secured.PATCH("/charges/:id", chargeHandler.UpdateStatus)
	secured.POST("/refund/:id", chargeHandler.Refund)
	secured.GET("/export/charges.csv", chargeHandler.ExportCSV)

	// Dashboard routes
	secured.GET("/dashboard/stats", dashboardHandler.Stats)
	secured.GET("/report/today", dashboardHandler.ReportToday)

	// Admin routes; the role gate lives in the handlers so a non-admin gets
	// the same 403 shape as other permission failures.
	secured.GET("/admin/users", adminHandler.ListUsers)
	secured.POST("/admin/invite", adminHandler.Invite)
	secured.PATCH("/admin/users/:id/toggle", adminHandler.ToggleActive)
	secured.DELETE("/admin/users/:id", adminHandler.DeleteUser)
	secured.POST("/admin/reset-link", adminHandler.ResetLink)
}

// rateLimiter builds a fixed-window limiter backed by Redis.
func rateLimiter(cacheClient *cache.Client, name string, limit int64, window time.Duration) echo.MiddlewareFunc {
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: ratelimit.NewStore(cacheClient, name, limit, window),
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
