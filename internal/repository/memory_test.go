package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/harentsoaR/hospital-api/internal/models"
)

func TestMemoryUserRepository(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	u := &models.User{Email: "ada@example.com", Password: "hash", Role: models.RoleDoctor,
		DocAvatar: &models.DocAvatar{PublicID: "doctors/1.png", URL: "http://x/1.png"}}
	if err := repo.Create(ctx, u); err != nil {
		t.Fatal(err)
	}
	if u.ID.IsZero() {
		t.Fatal("Create should assign an ID")
	}

	got, _ := repo.FindByEmail(ctx, "ada@example.com", false)
	if got == nil || got.Password != "" {
		t.Fatalf("FindByEmail without password: %+v", got)
	}
	got.DocAvatar.URL = "mutated"

	withPw, _ := repo.FindByEmail(ctx, "ada@example.com", true)
	if withPw.Password != "hash" {
		t.Error("expected hash when requested")
	}
	if withPw.DocAvatar.URL != "http://x/1.png" {
		t.Error("callers must not be able to mutate stored records")
	}

	byID, _ := repo.FindByID(ctx, u.ID.Hex())
	if byID == nil || byID.Email != u.Email {
		t.Errorf("FindByID = %+v", byID)
	}

	if err := repo.Create(ctx, &models.User{Email: "ada@example.com"}); !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("duplicate create: %v", err)
	}

	doctors, _ := repo.FindByRole(ctx, models.RoleDoctor)
	admins, _ := repo.FindByRole(ctx, models.RoleAdmin)
	if len(doctors) != 1 || admins == nil || len(admins) != 0 {
		t.Errorf("FindByRole doctors=%d admins=%v", len(doctors), admins)
	}
}

func TestMemoryUserRepositoryConcurrentCreate(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.Create(ctx, &models.User{Email: "race@example.com"})
		}()
	}
	wg.Wait()
	close(errs)

	created := 0
	for err := range errs {
		if err == nil {
			created++
		} else if !errors.Is(err, ErrDuplicateEmail) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if created != 1 || repo.Len() != 1 {
		t.Errorf("created=%d len=%d, want exactly one", created, repo.Len())
	}
}
