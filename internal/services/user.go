package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/numpanel/apiserver/internal/store"
	"github.com/numpanel/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for every authentication failure.
// Unknown usernames and wrong passwords are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	GetByUsername(username string) (types.User, error)
	Create(user types.User) (types.User, error)
	Update(user types.User) error
	Delete(username string) error
	List() ([]types.User, error)
	Count() (int, error)
}

// FailedLoginRepository records rejected authentication attempts.
type FailedLoginRepository interface {
	Append(record types.FailedLogin) error
}

// UserService encapsulates account use-cases shared by both channels.
type UserService struct {
	repo    UserRepository
	faillog FailedLoginRepository
}

func NewUserService(repo UserRepository, faillog FailedLoginRepository) *UserService {
	return &UserService{repo: repo, faillog: faillog}
}

// Authenticate verifies a username/password pair. On any failure it
// appends a failed-login record tagged with source (remote IP or chat id)
// and returns ErrInvalidCredentials.
func (s *UserService) Authenticate(username, password, source string) (types.User, error) {
	user, err := s.repo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.recordFailure(username, source)
			return types.User{}, ErrInvalidCredentials
		}
		return types.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.recordFailure(username, source)
		return types.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// VerifyPassword checks a password against an existing account without
// recording a failure. The sudo confirmation flow records its own.
func (s *UserService) VerifyPassword(username, password string) bool {
	user, err := s.repo.GetByUsername(username)
	if err != nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// RecordFailedLogin appends a failed-login record outside of Authenticate.
func (s *UserService) RecordFailedLogin(username, source string) {
	s.recordFailure(username, source)
}

func (s *UserService) recordFailure(username, source string) {
	// The log is audit-only; a write failure must not change the
	// caller-visible outcome.
	_ = s.faillog.Append(types.FailedLogin{
		Username: username,
		Source:   source,
		Time:     time.Now(),
	})
}

// Create registers a new account with a freshly hashed password.
func (s *UserService) Create(username, password, role string) (types.User, error) {
	if role == "" {
		role = types.RoleUser
	}
	if !types.ValidRole(role) {
		return types.User{}, fmt.Errorf("unknown role %q", role)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return types.User{}, err
	}
	return s.repo.Create(types.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	})
}

// Delete removes an account.
func (s *UserService) Delete(username string) error {
	return s.repo.Delete(username)
}

// List returns all accounts. Password hashes stay out of API responses
// via the types.User json tags.
func (s *UserService) List() ([]types.User, error) {
	return s.repo.List()
}

// EnsureDefaultAdmin seeds the initial admin account when the store is
// empty, rotating in a fresh hash of the well-known bootstrap password.
func (s *UserService) EnsureDefaultAdmin(username, password string) (bool, error) {
	count, err := s.repo.Count()
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if _, err := s.Create(username, password, types.RoleAdmin); err != nil {
		return false, err
	}
	return true, nil
}
