package ports

import (
	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/order"
)

// Session is an authenticated caller.
type Session struct {
	UserID kernel.UUID
	Role   order.Role
}

// SessionVerifier turns a bearer token issued elsewhere into a Session.
type SessionVerifier interface {
	Verify(token string) (Session, error)
}
