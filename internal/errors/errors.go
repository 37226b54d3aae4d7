package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidCredentials is returned on unknown email or password mismatch.
	// The two cases are deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountDisabled is returned when a deactivated user attempts to log in.
	ErrAccountDisabled = errors.New("account is disabled")
	// ErrPermissionDenied is returned when a non-admin calls an admin operation.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrAdminImmutable is returned when toggling or deleting an admin account.
	ErrAdminImmutable = errors.New("admin account cannot be modified")
	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrChargeNotFound is returned when a charge does not exist or is not
	// owned by the caller. Ownership violations report identically to absence.
	ErrChargeNotFound = errors.New("charge not found")
	// ErrValidation is returned on malformed or missing input.
	ErrValidation = errors.New("client and value are required")
	// ErrInvalidStatus is returned when a status update is not one of the
	// canonical values.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrInvalidState is returned when refunding a charge that is not approved.
	ErrInvalidState = errors.New("only approved charges can be refunded")
	// ErrValueInvalid is returned when a charge value does not parse as a
	// positive decimal.
	ErrValueInvalid = errors.New("value must be a positive decimal")
	// ErrCredentialInvalid is returned when a gateway token fails the basic
	// format check.
	ErrCredentialInvalid = errors.New("gateway token looks invalid")
	// ErrRefundAlreadyDone is the user-facing form of the gateway's
	// already-refunded result.
	ErrRefundAlreadyDone = errors.New("payment already refunded")
	// ErrRefundWindowExpired is the user-facing form of the gateway's
	// expired-window result (90-day limit).
	ErrRefundWindowExpired = errors.New("refund window expired (max 90 days)")
	// ErrRefundFailed covers any other gateway refund failure.
	ErrRefundFailed = errors.New("refund failed")
	// ErrCredentialMissing is returned when the user has no gateway credential.
	ErrCredentialMissing = errors.New("gateway credential not configured")
	// ErrCredentialUnreadable is returned when a stored credential cannot be
	// decrypted (wrong key, corrupted blob, or key rotation).
	ErrCredentialUnreadable = errors.New("gateway credential unreadable")
	// ErrEmailTaken is returned on duplicate email during invite.
	ErrEmailTaken = errors.New("email already exists")
	// ErrPasswordPolicy is returned when a new password is not exactly 8 characters.
	ErrPasswordPolicy = errors.New("password must be exactly 8 characters")
	// ErrResetTokenInvalid covers every reset failure: bad format, unknown id,
	// secret mismatch, or expiry.
	ErrResetTokenInvalid = errors.New("invalid or expired reset token")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrAccountDisabled):
		return NewHTTPError(http.StatusForbidden, err.Error(), "ACCOUNT_DISABLED")
	case errors.Is(err, ErrPermissionDenied):
		return NewHTTPError(http.StatusForbidden, err.Error(), "PERMISSION_DENIED")
	case errors.Is(err, ErrAdminImmutable):
		return NewHTTPError(http.StatusForbidden, err.Error(), "ADMIN_IMMUTABLE")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrChargeNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "CHARGE_NOT_FOUND")
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	case errors.Is(err, ErrValueInvalid):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALUE_INVALID")
	case errors.Is(err, ErrCredentialInvalid):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "CREDENTIAL_INVALID")
	case errors.Is(err, ErrRefundAlreadyDone):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "REFUND_ALREADY_DONE")
	case errors.Is(err, ErrRefundWindowExpired):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "REFUND_WINDOW_EXPIRED")
	case errors.Is(err, ErrRefundFailed):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "REFUND_FAILED")
	case errors.Is(err, ErrInvalidStatus):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_STATUS")
	case errors.Is(err, ErrInvalidState):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_STATE")
	case errors.Is(err, ErrCredentialMissing):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "CREDENTIAL_MISSING")
	case errors.Is(err, ErrCredentialUnreadable):
		return NewHTTPError(http.StatusInternalServerError, err.Error(), "CREDENTIAL_UNREADABLE")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrPasswordPolicy):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "PASSWORD_POLICY")
	case errors.Is(err, ErrResetTokenInvalid):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "RESET_TOKEN_INVALID")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
