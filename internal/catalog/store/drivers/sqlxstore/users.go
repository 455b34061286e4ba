package sqlxstore

import (
	"context"
	"time"

	"github.com/aussiebroadwan/bookshelf/internal/catalog/domain"
)

type userRow struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Disabled     bool      `db:"disabled"`
	RoleID       string    `db:"role_id"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func mapUser(row userRow) domain.User {
	return domain.User{
		ID:           row.ID,
		Username:     row.Username,
		FirstName:    row.FirstName,
		LastName:     row.LastName,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		Disabled:     row.Disabled,
		RoleID:       row.RoleID,
		Role:         domain.Role(row.Role),
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

const selectUsers = `
SELECT u.id, u.username, u.first_name, u.last_name, u.email, u.password_hash,
       u.disabled, u.role_id, r.name AS role, u.created_at, u.updated_at
FROM users u
JOIN roles r ON r.id = u.role_id`

type usersRepo struct{ base }

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	var row userRow
	if err := r.get(ctx, &row, selectUsers+` WHERE u.id = ?`, id); err != nil {
		return domain.User{}, mapNotFound(err, "user", id)
	}
	return mapUser(row), nil
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	var row userRow
	if err := r.get(ctx, &row, selectUsers+` WHERE u.username = ?`, username); err != nil {
		return domain.User{}, mapNotFound(err, "user", username)
	}
	return mapUser(row), nil
}

func (r *usersRepo) ListUsers(
	ctx context.Context,
	filter domain.UserFilter,
	page domain.Page,
) ([]domain.User, error) {
	var (
		conds []string
		args  []any
	)
	for _, f := range [...]struct{ col, val string }{
		{"u.username", filter.Username},
		{"u.first_name", filter.FirstName},
		{"u.last_name", filter.LastName},
		{"u.email", filter.Email},
	} {
		if f.val == "" {
			continue
		}
		conds = append(conds, "LOWER("+f.col+") LIKE ?")
		args = append(args, likeContains(f.val))
	}

	limit, offset := pageArgs(page)
	args = append(args, limit, offset)

	var rows []userRow
	err := r.selectAll(ctx, &rows, selectUsers+where(conds)+` ORDER BY u.id LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, err
	}

	users := make([]domain.User, len(rows))
	for i, row := range rows {
		users[i] = mapUser(row)
	}
	return users, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	ts := now()
	return r.insert(ctx, "users", `
INSERT INTO users (id, username, first_name, last_name, email, password_hash, disabled, role_id, created_at, updated_at)
VALUES (:id, :username, :first_name, :last_name, :email, :password_hash, :disabled, :role_id, :created_at, :updated_at)`,
		userRow{
			ID:           u.ID,
			Username:     u.Username,
			FirstName:    u.FirstName,
			LastName:     u.LastName,
			Email:        u.Email,
			PasswordHash: u.PasswordHash,
			Disabled:     u.Disabled,
			RoleID:       u.RoleID,
			CreatedAt:    ts,
			UpdatedAt:    ts,
		})
}

func (r *usersRepo) UpdateUser(ctx context.Context, u domain.User) error {
	return r.update(ctx, "users", "user", u.ID, `
UPDATE users
SET username = ?, first_name = ?, last_name = ?, email = ?, disabled = ?, updated_at = ?
WHERE id = ?`,
		u.Username, u.FirstName, u.LastName, u.Email, u.Disabled, now(), u.ID)
}

func (r *usersRepo) UpdateRole(ctx context.Context, userID, roleID string) error {
	return r.update(ctx, "users", "user", userID,
		`UPDATE users SET role_id = ?, updated_at = ? WHERE id = ?`, roleID, now(), userID)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	return r.update(ctx, "users", "user", userID,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`, hash, now(), userID)
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	return r.delete(ctx, "users", "user", userID, `DELETE FROM users WHERE id = ?`, userID)
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int
	if err := r.get(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return false, err
	}
	return count == 0, nil
}

type roleRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func mapRole(row roleRow) domain.RoleRecord {
	return domain.RoleRecord{
		ID:        row.ID,
		Name:      domain.Role(row.Name),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

type rolesRepo struct{ base }

func (r *rolesRepo) GetRoleByName(ctx context.Context, name domain.Role) (domain.RoleRecord, error) {
	var row roleRow
	err := r.get(ctx, &row, `SELECT id, name, created_at, updated_at FROM roles WHERE name = ?`, string(name))
	if err != nil {
		return domain.RoleRecord{}, mapNotFound(err, "role", string(name))
	}
	return mapRole(row), nil
}

func (r *rolesRepo) ListAll(ctx context.Context) ([]domain.RoleRecord, error) {
	var rows []roleRow
	if err := r.selectAll(ctx, &rows, `SELECT id, name, created_at, updated_at FROM roles ORDER BY name`); err != nil {
		return nil, err
	}

	roles := make([]domain.RoleRecord, len(rows))
	for i, row := range rows {
		roles[i] = mapRole(row)
	}
	return roles, nil
}
