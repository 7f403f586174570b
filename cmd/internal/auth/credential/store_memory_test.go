package credential

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStore_DuplicateToken(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	rec := Record{Token: "tok-1", OwnerID: "acct-1", ExpiresAt: time.Now().Add(time.Hour)}

	if err := store.Create(ctx, rec); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Create(ctx, rec); !errors.Is(err, ErrDuplicateToken) {
		t.Fatalf("expected ErrDuplicateToken, got %v", err)
	}
}

func TestMemoryStore_DeleteCounts(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)

	for _, rec := range []Record{
		{Token: "tok-1", OwnerID: "acct-1", ExpiresAt: exp},
		{Token: "tok-2", OwnerID: "acct-1", ExpiresAt: exp},
		{Token: "tok-3", OwnerID: "acct-2", ExpiresAt: exp},
	} {
		if err := store.Create(ctx, rec); err != nil {
			t.Fatalf("create %s: %v", rec.Token, err)
		}
	}

	if n, err := store.DeleteByToken(ctx, "tok-3"); err != nil || n != 1 {
		t.Fatalf("DeleteByToken: n=%d err=%v", n, err)
	}
	if n, err := store.DeleteByToken(ctx, "tok-3"); err != nil || n != 0 {
		t.Fatalf("repeat DeleteByToken: n=%d err=%v", n, err)
	}
	if n, err := store.DeleteAllForOwner(ctx, "acct-1"); err != nil || n != 2 {
		t.Fatalf("DeleteAllForOwner: n=%d err=%v", n, err)
	}
	if _, err := store.FindByToken(ctx, "tok-1"); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound, got %v", err)
	}
}
