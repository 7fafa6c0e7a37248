package http

import (
	"errors"
	"log/slog"
	"net/http"

	"orderledger/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// KindUnauthorized is reported for missing or invalid session tokens.
const KindUnauthorized errs.Kind = "Unauthorized"

var errUnauthorized = errors.New("missing or invalid session token")

// Error is the body of every failed response.
type Error struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func statusOf(kind errs.Kind) int {
	switch kind {
	case errs.KindValidation:
		return http.StatusBadRequest
	case errs.KindInvalidTransition, errs.KindInsufficientFunds:
		return http.StatusUnprocessableEntity
	case errs.KindVersionConflict:
		return http.StatusConflict
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err with the status its kind maps to. Internal errors are logged
// and their message is not exposed.
func writeError(c echo.Context, logger *slog.Logger, err error) error {
	kind := errs.KindOf(err)
	if errors.Is(err, errUnauthorized) {
		kind = KindUnauthorized
	}

	code := statusOf(kind)
	message := err.Error()
	if code == http.StatusInternalServerError {
		logger.ErrorContext(c.Request().Context(), "Request failed",
			"method", c.Request().Method, "path", c.Path(), "error", err)
		message = "internal error"
	}

	return c.JSON(code, Error{Code: code, Kind: string(kind), Message: message})
}

// ErrorHandler renders errors that reach echo itself, such as unknown routes, in the
// same shape as handler errors.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			kind := errs.KindInternal
			switch he.Code {
			case http.StatusNotFound, http.StatusMethodNotAllowed:
				kind = errs.KindNotFound
			case http.StatusBadRequest:
				kind = errs.KindValidation
			case http.StatusUnauthorized:
				kind = KindUnauthorized
			case http.StatusTooManyRequests:
				kind = "RateLimited"
			}
			_ = c.JSON(he.Code, Error{Code: he.Code, Kind: string(kind), Message: http.StatusText(he.Code)})
			return
		}

		_ = writeError(c, logger, err)
	}
}
