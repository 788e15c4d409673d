package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/atelier-studio/registry-api/internal/core/domain"
	"github.com/atelier-studio/registry-api/internal/core/ports"
)

// AuthService authenticates console users against the registry's users
// collection and issues short-lived session tokens.
type AuthService struct {
	registry  ports.Registry
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

// NewAuthService builds an AuthService. The token TTL is the session marker
// lifetime; it defaults to one hour.
func NewAuthService(registry ports.Registry, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &AuthService{registry: registry, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

// Login verifies the credentials and returns a signed session token. Accounts
// migrated from the old console may still store a base64-obscured password;
// those are accepted and upgraded to bcrypt on first successful login.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *ports.UserView, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	users := s.registry.Users()
	idx := -1
	for i, u := range users {
		if u.Username == username {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", nil, domain.ErrInvalidCredentials
	}

	user := users[idx]
	if !user.VerifyPassword(password) {
		return "", nil, domain.ErrInvalidCredentials
	}

	if user.HasLegacyPassword() {
		s.upgradeCredential(ctx, users, idx, password)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("username", user.Username).Str("role", user.Role).Msg("user logged in")
	view := userView(user)
	return token, &view, nil
}

// upgradeCredential replaces a legacy base64 password with a bcrypt hash.
// Best-effort: a failed or non-durable write leaves the legacy credential in
// place and login still succeeds.
func (s *AuthService) upgradeCredential(ctx context.Context, users []domain.User, idx int, password string) {
	hash, err := domain.HashPassword(password)
	if err != nil {
		s.log.Warn().Err(err).Msg("credential upgrade: hash failed")
		return
	}
	now := time.Now().UTC()
	users[idx].Password = hash
	users[idx].UpdatedAt = &now

	commit := domain.Commit{
		Message: fmt.Sprintf("Upgrade credential for %s", users[idx].Username),
		Actor:   users[idx].Username,
	}
	if err := s.registry.Put(ctx, domain.CollectionUsers, users, commit); err != nil {
		s.log.Warn().Err(err).Str("username", users[idx].Username).Msg("credential upgrade not persisted")
	}
}

func (s *AuthService) generateToken(user domain.User) (string, error) {
	claims := jwt.MapClaims{
		"username": user.Username,
		"role":     user.Role,
		"user_id":  user.ID,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func userView(u domain.User) ports.UserView {
	return ports.UserView{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
