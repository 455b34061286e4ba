package service

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/bookshelf/internal/catalog/domain"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/fault"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/store"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/uow"
	"github.com/aussiebroadwan/bookshelf/pkg/cryptox"
	"github.com/aussiebroadwan/bookshelf/pkg/idx"
	"github.com/aussiebroadwan/bookshelf/pkg/slogx"
)

type UserService struct {
	Store  store.Store
	Writes *uow.Coordinator
	Hasher *cryptox.PasswordHasher
}

// NewUser is the input of Create.
type NewUser struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      domain.Role
}

// LookupIdentity resolves a token subject for the guard chain.
func (s *UserService) LookupIdentity(ctx context.Context, id string) (domain.Identity, error) {
	u, err := s.Store.Users().GetUserByID(ctx, id)
	if err != nil {
		return domain.Identity{}, classify(ctx, err)
	}
	return u.Identity(), nil
}

func (s *UserService) Get(ctx context.Context, id string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, id)
	return u, classify(ctx, err)
}

func (s *UserService) List(ctx context.Context, filter domain.UserFilter, page domain.Page) ([]domain.User, error) {
	users, err := s.Store.Users().ListUsers(ctx, filter, page)
	return users, classify(ctx, err)
}

// Create hashes the password and inserts the user with the requested role
// (RoleUser when empty).
func (s *UserService) Create(ctx context.Context, in NewUser) (domain.User, error) {
	if in.Role == "" {
		in.Role = domain.RoleUser
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, fault.Unclassified(err)
	}

	return uow.Run(ctx, s.Writes, "user.create", func(tx store.Tx) (domain.User, error) {
		role, err := tx.Roles().GetRoleByName(ctx, in.Role)
		if err != nil {
			return domain.User{}, err
		}

		id := idx.New().String()
		err = tx.Users().CreateUser(ctx, domain.User{
			ID:           id,
			Username:     in.Username,
			FirstName:    in.FirstName,
			LastName:     in.LastName,
			Email:        in.Email,
			PasswordHash: hash,
			RoleID:       role.ID,
		})
		if err != nil {
			return domain.User{}, err
		}
		return tx.Users().GetUserByID(ctx, id)
	})
}

// Update applies a partial profile update.
func (s *UserService) Update(ctx context.Context, id string, patch domain.UserPatch) (domain.User, error) {
	return uow.Run(ctx, s.Writes, "user.update", func(tx store.Tx) (domain.User, error) {
		u, err := tx.Users().GetUserByID(ctx, id)
		if err != nil {
			return domain.User{}, err
		}
		patch.Apply(&u)
		if err := tx.Users().UpdateUser(ctx, u); err != nil {
			return domain.User{}, err
		}
		return tx.Users().GetUserByID(ctx, id)
	})
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.Writes.Do(ctx, "user.delete", func(tx store.Tx) error {
		return tx.Users().DeleteUser(ctx, id)
	})
}

func (s *UserService) AssignRole(ctx context.Context, id string, role domain.Role) (domain.User, error) {
	return uow.Run(ctx, s.Writes, "user.assign_role", func(tx store.Tx) (domain.User, error) {
		r, err := tx.Roles().GetRoleByName(ctx, role)
		if err != nil {
			return domain.User{}, err
		}
		if err := tx.Users().UpdateRole(ctx, id, r.ID); err != nil {
			return domain.User{}, err
		}
		return tx.Users().GetUserByID(ctx, id)
	})
}

// SetPassword stores a new hash. Tokens issued before the change stay valid
// until they expire.
func (s *UserService) SetPassword(ctx context.Context, id, password string) error {
	hash, err := s.Hasher.Hash(password)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to hash password", slog.Any("error", err))
		return fault.Unclassified(err)
	}

	return s.Writes.Do(ctx, "user.set_password", func(tx store.Tx) error {
		return tx.Users().UpdatePasswordHash(ctx, id, hash)
	})
}
