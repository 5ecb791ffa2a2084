package session

import (
	"maps"
	"sync"

	"github.com/google/uuid"
)

// CookieName is the cookie carrying the session id.
const CookieName = "JSESSIONID"

/*
Inspited by https://github.com/symfony/symfony/blob/7.2/src/Symfony/Component/HttpFoundation/Session/SessionInterface.php
*/
type Session interface {
	ID() string
	Has(name string) bool
	Get(name string) (any, bool)
	Set(name string, value any)
	All() map[string]any
	Remove(name string)
	Clear()
}

type defaultSession struct {
	mu         sync.RWMutex
	id         string
	attributes map[string]any
}

// New starts a session with a random id.
func New() Session {
	return NewWithID(uuid.NewString())
}

func NewWithID(id string) Session {
	return &defaultSession{
		id:         id,
		attributes: make(map[string]any),
	}
}

func (s *defaultSession) ID() string {
	return s.id
}

func (s *defaultSession) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, found := s.attributes[name]
	return found
}

func (s *defaultSession) Get(name string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, found := s.attributes[name]
	return value, found
}

func (s *defaultSession) Set(name string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attributes[name] = value
}

// All returns a copy of the attributes.
func (s *defaultSession) All() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return maps.Clone(s.attributes)
}

func (s *defaultSession) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.attributes, name)
}

func (s *defaultSession) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attributes = make(map[string]any)
}
