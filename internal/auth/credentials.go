package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"messagely/internal/models"
	"messagely/internal/repositories"
)

// dummyPassword is hashed once so unknown usernames cost one bcrypt compare too.
const dummyPassword = "messagely-dummy-password"

// CredentialStore owns password hashing on top of user persistence.
type CredentialStore struct {
	users     repositories.UserRepository
	hasher    PasswordHasher
	dummyHash string
}

// NewCredentialStore wires the store and precomputes the dummy hash.
func NewCredentialStore(users repositories.UserRepository, hasher PasswordHasher) (*CredentialStore, error) {
	dummy, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &CredentialStore{users: users, hasher: hasher, dummyHash: dummy}, nil
}

// Register validates input, hashes the password and creates the user.
func (s *CredentialStore) Register(ctx context.Context, in models.RegisterInput) (models.UserDetail, error) {
	if err := validateRegistration(in); err != nil {
		return models.UserDetail{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return models.UserDetail{}, err
	}

	return s.users.CreateUser(ctx, models.User{
		Username:     in.Username,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
	})
}

// Authenticate reports whether username exists and password matches.
// An unknown username is not an error.
func (s *CredentialStore) Authenticate(ctx context.Context, username, password string) (bool, error) {
	found := true
	hash, err := s.users.GetPasswordHash(ctx, username)
	if errors.Is(err, repositories.ErrUserNotFound) {
		found = false
		hash = s.dummyHash
	} else if err != nil {
		return false, err
	}

	matched := s.hasher.Compare(hash, password)
	return found && matched, nil
}

// UpdateLoginTimestamp records a successful login.
func (s *CredentialStore) UpdateLoginTimestamp(ctx context.Context, username string) (models.LoginStamp, error) {
	return s.users.UpdateLoginTimestamp(ctx, username)
}

// Get returns the public projection of one user.
func (s *CredentialStore) Get(ctx context.Context, username string) (models.UserDetail, error) {
	return s.users.GetUser(ctx, username)
}

// ListAll returns basic info on every user.
func (s *CredentialStore) ListAll(ctx context.Context) ([]models.UserSummary, error) {
	return s.users.ListUsers(ctx)
}

func validateRegistration(in models.RegisterInput) error {
	var missing []string
	for _, field := range []struct {
		name  string
		value string
	}{
		{"username", in.Username},
		{"password", in.Password},
		{"first_name", in.FirstName},
		{"last_name", in.LastName},
		{"phone", in.Phone},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return models.NewValidationError("missing required fields: " + strings.Join(missing, ", "))
	}
	if len(in.Password) > maxPasswordBytes {
		return models.NewValidationError(fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
	}
	return nil
}
