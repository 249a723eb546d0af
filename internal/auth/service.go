package auth

import (
	"context"
	"log/slog"

	"messagely/internal/models"
	"messagely/internal/observability"
	"messagely/internal/telemetry"
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	User  models.LoginStamp `json:"user"`
	Token string            `json:"token"`
}

// Service issues identity tokens for logins and registrations.
type Service struct {
	creds  *CredentialStore
	tokens *TokenManager
	events *telemetry.Events
}

func NewService(creds *CredentialStore, tokens *TokenManager, events *telemetry.Events) *Service {
	return &Service{creds: creds, tokens: tokens, events: events}
}

// Login checks credentials, records the login and issues a token.
// Every credential failure, including missing fields, is ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (LoginResult, error) {
	ok := false
	if username != "" && password != "" {
		var err error
		ok, err = s.creds.Authenticate(ctx, username, password)
		if err != nil {
			observability.IncAuthAttempt("login", "error")
			return LoginResult{}, err
		}
	}
	if !ok {
		observability.IncAuthAttempt("login", "failure")
		return LoginResult{}, models.ErrInvalidCredentials
	}

	stamp, err := s.creds.UpdateLoginTimestamp(ctx, username)
	if err != nil {
		return LoginResult{}, err
	}

	token, err := s.tokens.Issue(username)
	if err != nil {
		return LoginResult{}, models.NewInternalError(err)
	}

	observability.IncAuthAttempt("login", "success")
	slog.InfoContext(ctx, "user logged in", "user", username)
	return LoginResult{User: stamp, Token: token}, nil
}

// Register creates the user, awaits the login timestamp update and issues a token.
func (s *Service) Register(ctx context.Context, in models.RegisterInput) (string, error) {
	user, err := s.creds.Register(ctx, in)
	if err != nil {
		observability.IncAuthAttempt("register", "failure")
		return "", err
	}

	if _, err := s.creds.UpdateLoginTimestamp(ctx, user.Username); err != nil {
		return "", err
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return "", models.NewInternalError(err)
	}

	observability.IncAuthAttempt("register", "success")
	s.events.UserRegistered(ctx, user)
	slog.InfoContext(ctx, "user registered", "user", user.Username)
	return token, nil
}

// ParseToken returns the username carried by a valid token.
func (s *Service) ParseToken(token string) (string, error) {
	return s.tokens.Parse(token)
}

