package store

import (
	"context"
	"errors"
	"testing"

	"github.com/lukasmw/devreg/internal/db"
	"github.com/lukasmw/devreg/internal/model"
)

func TestCreateAndGetUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, err := CreateUser(ctx, database, model.User{
		RZUsername:       "mmuster",
		FullName:         "Max Muster",
		OrganisationUnit: "1234567",
		PasswordHash:     "hash123",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.RZUsername != "mmuster" {
		t.Errorf("expected username 'mmuster', got %q", user.RZUsername)
	}

	got, err := GetUserByUsername(ctx, database, "mmuster")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if got.FullName != "Max Muster" {
		t.Errorf("expected full name 'Max Muster', got %q", got.FullName)
	}
	if got.HasAdminPrivileges {
		t.Error("expected non-admin user")
	}
}

func TestCreateUserDuplicate(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateUser(ctx, database, model.User{RZUsername: "alice", PasswordHash: "h"})

	_, err := CreateUser(ctx, database, model.User{RZUsername: "alice", PasswordHash: "h2"})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestGetUserByUsernameMissing(t *testing.T) {
	database := db.NewTestDB(t)

	_, err := GetUserByUsername(context.Background(), database, "nobody")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListUsersPagination(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateUser(ctx, database, model.User{RZUsername: "a", PasswordHash: "h"})
	CreateUser(ctx, database, model.User{RZUsername: "b", PasswordHash: "h"})
	CreateUser(ctx, database, model.User{RZUsername: "c", PasswordHash: "h"})

	all, err := ListUsers(ctx, database, 0, 0)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 users, got %d", len(all))
	}

	page, err := ListUsers(ctx, database, 1, 1)
	if err != nil {
		t.Fatalf("ListUsers with pagination: %v", err)
	}
	if len(page) != 1 {
		t.Errorf("expected 1 user, got %d", len(page))
	}
}

func TestBootstrapDefaults(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if err := BootstrapDefaults(ctx, database, "user-hash", "admin-hash"); err != nil {
		t.Fatalf("BootstrapDefaults: %v", err)
	}

	admin, err := GetUserByUsername(ctx, database, "admin")
	if err != nil {
		t.Fatalf("GetUserByUsername(admin): %v", err)
	}
	if !admin.HasAdminPrivileges {
		t.Error("expected admin account to have admin privileges")
	}

	user, err := GetUserByUsername(ctx, database, "user")
	if err != nil {
		t.Fatalf("GetUserByUsername(user): %v", err)
	}
	if user.HasAdminPrivileges {
		t.Error("expected user account without admin privileges")
	}
}

func TestBootstrapDefaultsIdempotent(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	BootstrapDefaults(ctx, database, "first-hash", "first-hash")

	// A second run must not overwrite the existing accounts.
	if err := BootstrapDefaults(ctx, database, "second-hash", "second-hash"); err != nil {
		t.Fatalf("second BootstrapDefaults: %v", err)
	}

	admin, _ := GetUserByUsername(ctx, database, "admin")
	if admin.PasswordHash != "first-hash" {
		t.Errorf("expected original hash preserved, got %q", admin.PasswordHash)
	}

	users, _ := ListUsers(ctx, database, 0, 0)
	if len(users) != 2 {
		t.Errorf("expected 2 users after double bootstrap, got %d", len(users))
	}
}
