package session

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/Alipio135/dropmail-ai-reply-55/internal/database"
	"github.com/Alipio135/dropmail-ai-reply-55/pkg/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	db, err := database.New(t.TempDir() + "/sessions.db")
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return NewSQLiteStore(db, NewCodec(testKey), discardLogger())
}

func TestStoreRoundTrip(t *testing.T) {
	stores := map[string]Store{
		"memory": NewMemoryStore(NewCodec(testKey)),
		"sqlite": newTestSQLiteStore(t),
	}

	want := models.Session{Email: "john@x.com", DisplayName: "john", MailboxConnected: true}
	ctx := context.Background()

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			if err := store.Save(ctx, &want); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			got, err := store.Load(ctx)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if got == nil || *got != want {
				t.Errorf("Load() = %+v, want %+v", got, want)
			}
		})
	}
}

func TestStoreLoadEmpty(t *testing.T) {
	stores := map[string]Store{
		"memory": NewMemoryStore(NewCodec(testKey)),
		"sqlite": newTestSQLiteStore(t),
	}
	ctx := context.Background()

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			got, err := store.Load(ctx)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if got != nil {
				t.Errorf("Load() on empty store = %+v, want nil", got)
			}
		})
	}
}

func TestStoreClearIsIdempotent(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, &models.Session{Email: "a@b.c"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("second Clear() error = %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != nil {
		t.Errorf("Load() after Clear() = %+v, want nil", got)
	}
}

func TestStoreSaveOverwrites(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, &models.Session{Email: "a@b.c"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Save(ctx, &models.Session{Email: "a@b.c", MailboxConnected: true}); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got == nil || !got.MailboxConnected {
		t.Errorf("Load() = %+v, want mailbox connected", got)
	}
}

func TestCorruptSnapshotMeansLoggedOut(t *testing.T) {
	store := NewMemoryStore(NewCodec(testKey))
	ctx := context.Background()

	if err := store.Save(ctx, &models.Session{Email: "a@b.c"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	store.Corrupt()

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != nil {
		t.Errorf("Load() of corrupt snapshot = %+v, want nil", got)
	}
}
