package port

import (
	"github.com/google/uuid"

	"privasee/internal/domain"
)

// SessionStore is the registry of live interactive sessions, keyed by
// session id. It owns the create/mutate/destroy lifecycle; the engine
// itself stays stateless aside from the mapping scope passed into it.
type SessionStore interface {
	Create(s *domain.Session) error
	Get(id uuid.UUID) (*domain.Session, error)
	Update(s *domain.Session) error
	Delete(id uuid.UUID) error
}
