package identity

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore_CreateAndLookup(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	u, err := store.CreateUser(ctx, CreateUserInput{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "Ada@Example.com",
		PasswordHash: "$2a$10$fake",
		Now:          time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.ID == "" {
		t.Fatalf("missing user ID")
	}
	if u.Role != RoleUser {
		t.Fatalf("default role: got %q", u.Role)
	}

	// Lookup is case-insensitive on email.
	got, err := store.GetUserAuthByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("GetUserAuthByEmail: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("lookup mismatch: %q vs %q", got.ID, u.ID)
	}

	if _, err := store.GetUserByID(ctx, u.ID); err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if _, err := store.GetUserByID(ctx, "nope"); !IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestMemoryStore_EmailConflict(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	in := CreateUserInput{FirstName: "Ada", LastName: "L", Email: "ada@example.com", PasswordHash: "h"}
	if _, err := store.CreateUser(ctx, in); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	in.Email = "ADA@example.com"
	_, err := store.CreateUser(ctx, in)
	if !IsConflict(err) || ConflictField(err) != "email" {
		t.Fatalf("expected email conflict, got %v", err)
	}
}

func TestMemoryStore_AdminIDConflict(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	adminID := "admin-7"

	if _, err := store.CreateUser(ctx, CreateUserInput{
		AdminID: &adminID, FirstName: "A", LastName: "B",
		Email: "a@example.com", PasswordHash: "h", Role: RoleAdmin,
	}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	_, err := store.CreateUser(ctx, CreateUserInput{
		AdminID: &adminID, FirstName: "C", LastName: "D",
		Email: "c@example.com", PasswordHash: "h", Role: RoleAdmin,
	})
	if !IsConflict(err) || ConflictField(err) != "admin_id" {
		t.Fatalf("expected admin_id conflict, got %v", err)
	}
}
