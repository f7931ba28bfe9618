package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/dfryer1193/inkwell/blog/domain"
	_ "modernc.org/sqlite"
)

func setupTestSubscriberDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}

	_, err = db.Exec(`
		CREATE TABLE subscribers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL UNIQUE,
			subscribed_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		t.Fatalf("Failed to create subscribers table: %v", err)
	}

	return db
}

func TestSubscriberRepository_Insert(t *testing.T) {
	db := setupTestSubscriberDB(t)
	defer db.Close()

	repo := NewSubscriberRepository(db)
	ctx := context.Background()

	sub := &domain.Subscriber{
		Email:        "reader@example.com",
		SubscribedAt: time.Now().UTC().Truncate(time.Second),
	}

	if err := repo.Insert(ctx, sub); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if sub.ID == 0 {
		t.Error("Insert should assign a non-zero ID")
	}

	subs, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("List returned %d subscribers, want 1", len(subs))
	}
	if subs[0].Email != sub.Email {
		t.Errorf("Email = %q, want %q", subs[0].Email, sub.Email)
	}
	if !subs[0].SubscribedAt.Equal(sub.SubscribedAt) {
		t.Errorf("SubscribedAt = %v, want %v", subs[0].SubscribedAt, sub.SubscribedAt)
	}
}

func TestSubscriberRepository_Insert_DuplicateEmail(t *testing.T) {
	db := setupTestSubscriberDB(t)
	defer db.Close()

	repo := NewSubscriberRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()

	first := &domain.Subscriber{Email: "dup@example.com", SubscribedAt: now}
	if err := repo.Insert(ctx, first); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	second := &domain.Subscriber{Email: "dup@example.com", SubscribedAt: now}
	err := repo.Insert(ctx, second)
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Errorf("Second insert error = %v, want ErrDuplicateEmail", err)
	}
}

func TestSubscriberRepository_Insert_CaseSensitiveEmails(t *testing.T) {
	db := setupTestSubscriberDB(t)
	defer db.Close()

	repo := NewSubscriberRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()

	lower := &domain.Subscriber{Email: "reader@example.com", SubscribedAt: now}
	upper := &domain.Subscriber{Email: "Reader@example.com", SubscribedAt: now}

	if err := repo.Insert(ctx, lower); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	// Uniqueness is case-sensitive, so this is a distinct subscriber
	if err := repo.Insert(ctx, upper); err != nil {
		t.Errorf("Insert of differently-cased email failed: %v", err)
	}
}

func TestSubscriberRepository_Insert_EmptyEmail(t *testing.T) {
	db := setupTestSubscriberDB(t)
	defer db.Close()

	repo := NewSubscriberRepository(db)

	sub := &domain.Subscriber{SubscribedAt: time.Now().UTC()}
	if err := repo.Insert(context.Background(), sub); err == nil {
		t.Error("Insert should return error for empty email")
	}
}

func TestSubscriberRepository_Insert_NilSubscriber(t *testing.T) {
	db := setupTestSubscriberDB(t)
	defer db.Close()

	repo := NewSubscriberRepository(db)

	if err := repo.Insert(context.Background(), nil); err == nil {
		t.Error("Insert should return error for nil subscriber")
	}
}

func TestSubscriberRepository_List_Ordering(t *testing.T) {
	db := setupTestSubscriberDB(t)
	defer db.Close()

	repo := NewSubscriberRepository(db)
	ctx := context.Background()

	baseTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	emails := []string{"first@example.com", "second@example.com", "third@example.com"}

	for i, email := range emails {
		sub := &domain.Subscriber{
			Email:        email,
			SubscribedAt: baseTime.Add(time.Duration(i) * time.Hour),
		}
		if err := repo.Insert(ctx, sub); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	subs, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if len(subs) != 3 {
		t.Fatalf("List returned %d subscribers, want 3", len(subs))
	}

	// Most recent subscription first
	want := []string{"third@example.com", "second@example.com", "first@example.com"}
	for i, email := range want {
		if subs[i].Email != email {
			t.Errorf("subs[%d].Email = %q, want %q", i, subs[i].Email, email)
		}
	}
}

func TestSubscriberRepository_List_EmptyResult(t *testing.T) {
	db := setupTestSubscriberDB(t)
	defer db.Close()

	repo := NewSubscriberRepository(db)

	subs, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if subs == nil {
		t.Error("List should return empty slice, not nil")
	}
	if len(subs) != 0 {
		t.Errorf("List returned %d subscribers, want 0", len(subs))
	}
}

func TestSubscriberRepository_InterfaceCompliance(t *testing.T) {
	var _ domain.SubscriberRepository = (*SQLiteSubscriberRepository)(nil)
}
