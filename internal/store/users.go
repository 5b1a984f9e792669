package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lukasmw/devreg/internal/model"
)

// CreateUser creates a new user account.
// Returns ErrConflict if the username is already taken.
func CreateUser(ctx context.Context, db DBTX, u model.User) (*model.User, error) {
	_, err := db.ExecContext(ctx,
		`INSERT INTO users (rz_username, full_name, organisation_unit, has_admin_privileges, password_hash)
		 VALUES (?, ?, ?, ?, ?)`,
		u.RZUsername, u.FullName, u.OrganisationUnit, u.HasAdminPrivileges, u.PasswordHash,
	)
	if isConstraintErr(err) {
		return nil, fmt.Errorf("creating user %q: %w", u.RZUsername, ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return GetUserByUsername(ctx, db, u.RZUsername)
}

// GetUserByUsername returns a user by their RZ username.
func GetUserByUsername(ctx context.Context, db DBTX, username string) (*model.User, error) {
	u := &model.User{}
	err := db.QueryRowContext(ctx,
		`SELECT rz_username, full_name, organisation_unit, has_admin_privileges, password_hash
		 FROM users WHERE rz_username = ?`, username,
	).Scan(&u.RZUsername, &u.FullName, &u.OrganisationUnit, &u.HasAdminPrivileges, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

// ListUsers returns users with offset/limit pagination.
// A limit of 0 applies the default page size, a negative limit disables it.
func ListUsers(ctx context.Context, db DBTX, skip, limit int) ([]model.User, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT rz_username, full_name, organisation_unit, has_admin_privileges, password_hash
		 FROM users ORDER BY rz_username LIMIT ? OFFSET ?`,
		normalizeLimit(limit), skip,
	)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.RZUsername, &u.FullName, &u.OrganisationUnit, &u.HasAdminPrivileges, &u.PasswordHash); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// BootstrapDefaults idempotently ensures the built-in "user" and "admin"
// accounts exist. Existing accounts with those names are never overwritten,
// so the supplied hashes only matter on first start.
func BootstrapDefaults(ctx context.Context, db DBTX, userHash, adminHash string) error {
	defaults := []model.User{
		{
			RZUsername:         "user",
			FullName:           "User User",
			OrganisationUnit:   "1111111",
			HasAdminPrivileges: false,
			PasswordHash:       userHash,
		},
		{
			RZUsername:         "admin",
			FullName:           "User Admin",
			OrganisationUnit:   "2222222",
			HasAdminPrivileges: true,
			PasswordHash:       adminHash,
		},
	}

	for _, u := range defaults {
		_, err := GetUserByUsername(ctx, db, u.RZUsername)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}
		if _, err := CreateUser(ctx, db, u); err != nil {
			return fmt.Errorf("bootstrapping %q: %w", u.RZUsername, err)
		}
	}
	return nil
}
