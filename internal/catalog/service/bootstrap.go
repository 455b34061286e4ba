package service

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/bookshelf/internal/catalog/domain"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/store"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/uow"
	"github.com/aussiebroadwan/bookshelf/pkg/cryptox"
	"github.com/aussiebroadwan/bookshelf/pkg/idx"
	"github.com/aussiebroadwan/bookshelf/pkg/slogx"
)

type BootstrapService struct {
	Store  store.Store
	Writes *uow.Coordinator
	Hasher *cryptox.PasswordHasher

	AdminUsername string
	AdminPassword string // generated and logged once when empty
}

// Seed creates the first admin when the users table is empty. It reports
// whether an admin was created. Running it against a populated database is a
// no-op.
func (s *BootstrapService) Seed(ctx context.Context) (bool, error) {
	l := slogx.FromContext(ctx)

	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return false, classify(ctx, err)
	}
	if !empty {
		return false, nil
	}

	password := s.AdminPassword
	generated := password == ""
	if generated {
		if password, err = cryptox.GeneratePassword(); err != nil {
			return false, err
		}
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return false, err
	}

	adminID := idx.New().String()
	created := false
	err = s.Writes.Do(ctx, "user.bootstrap", func(tx store.Tx) error {
		// Another replica may have seeded between the check and the transaction.
		empty, err := tx.Users().IsEmpty(ctx)
		if err != nil {
			return err
		}
		if !empty {
			return nil
		}

		role, err := tx.Roles().GetRoleByName(ctx, domain.RoleAdmin)
		if err != nil {
			return err
		}
		err = tx.Users().CreateUser(ctx, domain.User{
			ID:           adminID,
			Username:     s.AdminUsername,
			FirstName:    "Admin",
			LastName:     "Admin",
			PasswordHash: hash,
			RoleID:       role.ID,
		})
		created = err == nil
		return err
	})
	if err != nil || !created {
		return false, err
	}

	attrs := []any{slog.String("user_id", adminID), slog.String("username", s.AdminUsername)}
	if generated {
		attrs = append(attrs, slog.String("password", password))
	}
	l.Warn("bootstrap admin created", attrs...)
	return true, nil
}
