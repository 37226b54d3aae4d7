package handler

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"pixflow/internal/auth"
	apperrors "pixflow/internal/errors"
	"pixflow/internal/model"
	"pixflow/internal/service"
)

// claimsFrom extracts the session claims placed in context by the JWT
// middleware.
func claimsFrom(c echo.Context) (*auth.Claims, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
			Error: "invalid token",
			Code:  "UNAUTHORIZED",
		})
	}
	claims, ok := token.Claims.(*auth.Claims)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
			Error: "invalid token",
			Code:  "UNAUTHORIZED",
		})
	}
	return claims, nil
}

// actingUser resolves the authenticated user behind the request. A token for
// a deleted user is unauthorized; a disabled account is forbidden.
func actingUser(c echo.Context, authService service.AuthService) (*model.User, error) {
	claims, err := claimsFrom(c)
	if err != nil {
		return nil, err
	}

	user, err := authService.CurrentUser(c.Request().Context(), claims.UserID)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
			Error: "invalid token",
			Code:  "UNAUTHORIZED",
		})
	}
	if !user.Active {
		return nil, httpError(apperrors.ErrAccountDisabled)
	}
	return user, nil
}

// actingAdmin is actingUser plus the admin role gate.
func actingAdmin(c echo.Context, authService service.AuthService) (*model.User, error) {
	user, err := actingUser(c, authService)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, httpError(apperrors.ErrPermissionDenied)
	}
	return user, nil
}

// httpError converts a domain error into an echo error with the standard
// JSON body.
func httpError(err error) *echo.HTTPError {
	mapped := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(mapped.StatusCode, mapped.ToErrorResponse())
}
