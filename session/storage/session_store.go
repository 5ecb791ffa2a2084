package storage

import "github.com/freekieb7/coyote/session"

type SessionStore interface {
	Close() error
	Has(id string) bool
	Get(id string) (session.Session, error)
	Save(session session.Session) error
	Delete(id string) error
}
