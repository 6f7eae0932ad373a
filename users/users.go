package users

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound       = fmt.Errorf("user not found")
	ErrUsernameExists = fmt.Errorf("username already exists")
	ErrEmailExists    = fmt.Errorf("email already exists")
)

// User is a registered account. The password hash never leaves this
// package and never serializes.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`

	hash []byte
}

// Store is the in-memory credential store, indexed by id, email and
// username. Passwords are stored as bcrypt hashes.
type Store struct {
	mtx       sync.Mutex
	users     map[string]*User
	emails    map[string]string
	usernames map[string]string
}

func NewStore() *Store {
	return &Store{
		users:     map[string]*User{},
		emails:    map[string]string{},
		usernames: map[string]string{},
	}
}

// Create registers a new user. Username and email are unique.
func (s *Store) Create(username, email, password string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.usernames[username]; ok {
		return nil, ErrUsernameExists
	}
	if _, ok := s.emails[email]; ok {
		return nil, ErrEmailExists
	}

	u := &User{
		ID:       uuid.New().String(),
		Username: username,
		Email:    email,
		hash:     hash,
	}

	s.users[u.ID] = u
	s.emails[email] = u.ID
	s.usernames[username] = u.ID

	c := *u
	return &c, nil
}

// GetByID returns the user with the given id, or nil.
func (s *Store) GetByID(id string) *User {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if u, ok := s.users[id]; ok {
		c := *u
		return &c
	}
	return nil
}

// Authenticate resolves a user by email or username and verifies the
// password. Returns nil when either step fails.
func (s *Store) Authenticate(usernameOrEmail, password string) *User {
	s.mtx.Lock()
	u := s.lookup(usernameOrEmail)
	s.mtx.Unlock()

	if u == nil {
		return nil
	}
	if bcrypt.CompareHashAndPassword(u.hash, []byte(password)) != nil {
		return nil
	}

	c := *u
	return &c
}

func (s *Store) lookup(usernameOrEmail string) *User {
	if id, ok := s.emails[usernameOrEmail]; ok {
		return s.users[id]
	}
	if id, ok := s.usernames[usernameOrEmail]; ok {
		return s.users[id]
	}
	return nil
}
