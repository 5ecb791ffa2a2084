package storage

import (
	"errors"
	"sync"

	"github.com/freekieb7/coyote/session"
)

var ErrSessionNotFound = errors.New("session store: session not found")

const MemorySessionStoreName = "memory"

type MemorySessionStore struct {
	mu   sync.RWMutex
	data map[string]session.Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		data: make(map[string]session.Session),
	}
}

func (m *MemorySessionStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clear(m.data)
	return nil
}

func (m *MemorySessionStore) Has(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, found := m.data[id]
	return found
}

func (m *MemorySessionStore) Get(id string) (session.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, found := m.data[id]
	if !found {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Save(sess session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[sess.ID()] = sess
	return nil
}

func (m *MemorySessionStore) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, id)
	return nil
}
