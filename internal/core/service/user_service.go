package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/atelier-studio/registry-api/internal/core/domain"
	"github.com/atelier-studio/registry-api/internal/core/ports"
)

// UserService implements console account management. All passwords written
// through this service are bcrypt hashes.
type UserService struct {
	registry ports.Registry
	log      zerolog.Logger
}

func NewUserService(registry ports.Registry, log zerolog.Logger) *UserService {
	return &UserService{registry: registry, log: log}
}

func (s *UserService) List(_ context.Context) ([]ports.UserView, error) {
	users := s.registry.Users()
	views := make([]ports.UserView, 0, len(users))
	for _, u := range users {
		views = append(views, userView(u))
	}
	return views, nil
}

func (s *UserService) Create(ctx context.Context, in ports.CreateUserInput, actor string) (*ports.UserView, error) {
	if in.Username == "" || in.Password == "" || !domain.ValidRole(in.Role) {
		return nil, domain.ErrInvalidCredentials
	}

	users := s.registry.Users()
	for _, u := range users {
		if u.Username == in.Username {
			return nil, domain.ErrUserExists
		}
	}

	hash, err := domain.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := domain.User{
		ID:        s.registry.GenerateID(domain.CollectionUsers),
		Username:  in.Username,
		Name:      in.Name,
		Role:      in.Role,
		Password:  hash,
		CreatedAt: time.Now().UTC(),
	}

	commit := domain.Commit{
		Message: fmt.Sprintf("Add user %s", user.Username),
		Actor:   actor,
	}
	if err := s.registry.Put(ctx, domain.CollectionUsers, append(users, user), commit); err != nil {
		return nil, err
	}

	s.log.Info().Str("username", user.Username).Str("role", user.Role).Msg("user created")
	v := userView(user)
	return &v, nil
}

func (s *UserService) Update(ctx context.Context, id int, in ports.UserUpdateInput, actor string) (*ports.UserView, error) {
	users := s.registry.Users()
	idx := -1
	for i, u := range users {
		if u.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, domain.ErrUserNotFound
	}

	if in.Username != nil && *in.Username != users[idx].Username {
		for _, u := range users {
			if u.Username == *in.Username {
				return nil, domain.ErrUserExists
			}
		}
		users[idx].Username = *in.Username
	}
	if in.Name != nil {
		users[idx].Name = *in.Name
	}
	if in.Role != nil {
		if !domain.ValidRole(*in.Role) {
			return nil, domain.ErrInvalidCredentials
		}
		users[idx].Role = *in.Role
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := domain.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		users[idx].Password = hash
	}
	now := time.Now().UTC()
	users[idx].UpdatedAt = &now

	commit := domain.Commit{
		Message: fmt.Sprintf("Update user %s", users[idx].Username),
		Actor:   actor,
	}
	if err := s.registry.Put(ctx, domain.CollectionUsers, users, commit); err != nil {
		return nil, err
	}

	v := userView(users[idx])
	return &v, nil
}

// Delete removes an account. The seed admin account is protected so the
// console can never lock everyone out.
func (s *UserService) Delete(ctx context.Context, id int, actor string) error {
	if id == domain.SeedUserID {
		return domain.ErrSeedUserProtected
	}

	users := s.registry.Users()
	kept := users[:0]
	for _, u := range users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	if len(kept) == len(users) {
		return domain.ErrUserNotFound
	}

	commit := domain.Commit{
		Message: fmt.Sprintf("Delete user #%d", id),
		Actor:   actor,
	}
	return s.registry.Put(ctx, domain.CollectionUsers, kept, commit)
}
