package http

import (
	"fmt"
	"log/slog"
	"strings"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/order"
	"orderledger/internal/core/ports"

	"aidanwoods.dev/go-paseto"
	"github.com/labstack/echo/v4"
)

const (
	sessionContextKey = "session"
	roleClaim         = "role"
)

// PasetoVerifier accepts v4.local tokens carrying the user id as subject and the role
// as the "role" claim. Tokens are issued by the identity service sharing the key.
type PasetoVerifier struct {
	parser paseto.Parser
	key    paseto.V4SymmetricKey
}

var _ ports.SessionVerifier = (*PasetoVerifier)(nil)

func NewPasetoVerifier(keyHex string) (*PasetoVerifier, error) {
	key, err := paseto.V4SymmetricKeyFromHex(keyHex)
	if err != nil {
		return nil, fmt.Errorf("session key: %w", err)
	}
	return &PasetoVerifier{parser: paseto.NewParser(), key: key}, nil
}

func (v *PasetoVerifier) Verify(token string) (ports.Session, error) {
	parsed, err := v.parser.ParseV4Local(v.key, token, nil)
	if err != nil {
		return ports.Session{}, fmt.Errorf("%w: %w", errUnauthorized, err)
	}

	subject, err := parsed.GetSubject()
	if err != nil {
		return ports.Session{}, fmt.Errorf("%w: %w", errUnauthorized, err)
	}
	userID, err := kernel.UUIDFromString(subject)
	if err != nil {
		return ports.Session{}, fmt.Errorf("%w: subject: %w", errUnauthorized, err)
	}

	claim, err := parsed.GetString(roleClaim)
	if err != nil {
		return ports.Session{}, fmt.Errorf("%w: %w", errUnauthorized, err)
	}
	role, err := order.ParseRole(claim)
	if err != nil || role == order.RoleSystem {
		return ports.Session{}, fmt.Errorf("%w: role %q", errUnauthorized, claim)
	}

	return ports.Session{UserID: userID, Role: role}, nil
}

// Authenticate resolves the bearer token into a session for the handlers behind it.
func Authenticate(verifier ports.SessionVerifier, logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || strings.TrimSpace(token) == "" {
				return writeError(c, logger, errUnauthorized)
			}

			session, err := verifier.Verify(strings.TrimSpace(token))
			if err != nil {
				logger.DebugContext(c.Request().Context(), "Session rejected", "error", err)
				return writeError(c, logger, errUnauthorized)
			}

			c.Set(sessionContextKey, session)
			return next(c)
		}
	}
}

func sessionFrom(c echo.Context) (ports.Session, bool) {
	session, ok := c.Get(sessionContextKey).(ports.Session)
	return session, ok
}
