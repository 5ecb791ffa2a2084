package app

import (
	"crypto/subtle"
	"errors"
	"sync"
)

var (
	ErrUserNotFound = errors.New("app: user not found")
	ErrUserExists   = errors.New("app: account already registered")
)

type User struct {
	ID       int64
	Account  string
	Password string
	Email    string
}

// CheckPassword compares in constant time.
func (u User) CheckPassword(password string) bool {
	return subtle.ConstantTimeCompare([]byte(u.Password), []byte(password)) == 1
}

// UserRepository is an in-memory user table keyed by account.
type UserRepository struct {
	mu     sync.RWMutex
	nextID int64
	users  map[string]User
}

// NewUserRepository returns a repository seeded with users.
func NewUserRepository(users ...User) *UserRepository {
	repo := &UserRepository{users: make(map[string]User)}
	for _, u := range users {
		repo.Save(u)
	}
	return repo
}

// Save stores u under its account, assigning an id. An existing account is
// reported as ErrUserExists.
func (r *UserRepository) Save(u User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, found := r.users[u.Account]; found {
		return User{}, ErrUserExists
	}

	r.nextID++
	u.ID = r.nextID
	r.users[u.Account] = u
	return u, nil
}

func (r *UserRepository) FindByAccount(account string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, found := r.users[account]
	if !found {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (r *UserRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.users)
}
