package categorystore_test

import (
	"testing"
	"time"

	categorystore "github.com/lucasmenke/suggestion-app/internal/app/store/categories"
	"github.com/lucasmenke/suggestion-app/internal/app/store/dbconn"
	"github.com/lucasmenke/suggestion-app/internal/app/system/cache"
	"github.com/lucasmenke/suggestion-app/internal/domain/models"
	"github.com/lucasmenke/suggestion-app/internal/testutil"
	"github.com/viccon/sturdyc"
)

func newStore(t *testing.T) (*categorystore.Store, *testutil.Fixtures, *sturdyc.TestClock) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	clock := sturdyc.NewTestClock(time.Now())
	cfg := cache.ReferenceConfig()
	cfg.Clock = clock
	c, err := cache.New(cfg)
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}
	return categorystore.New(dbconn.New(db.Client(), db.Name()), c), testutil.NewFixtures(t, db), clock
}

func TestStore_GetAll(t *testing.T) {
	store, fx, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateCategory(ctx, "Courses")
	fx.CreateCategory(ctx, "Other")

	got, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(got))
	}
	if got[0].Name != "Courses" || got[1].Name != "Other" {
		t.Errorf("expected sorted by name, got %q, %q", got[0].Name, got[1].Name)
	}
}

func TestStore_GetAll_ServesCacheWithinTTL(t *testing.T) {
	store, fx, clock := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateCategory(ctx, "Courses")
	if _, err := store.GetAll(ctx); err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}

	// Out-of-band insert is invisible until the TTL passes.
	fx.CreateCategory(ctx, "Other")
	clock.Add(23 * time.Hour)

	got, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected cached list of 1 within TTL, got %d", len(got))
	}

	clock.Add(2 * time.Hour)
	got, err = store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected fresh list of 2 after TTL, got %d", len(got))
	}
}

func TestStore_GetAll_ReturnsCopy(t *testing.T) {
	store, fx, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateCategory(ctx, "Courses")
	got, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	got[0].Name = "Edited"

	again, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if again[0].Name != "Courses" {
		t.Errorf("cached entry was modified through a returned slice: %q", again[0].Name)
	}
}

func TestStore_Create(t *testing.T) {
	store, _, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, newCategory("  Dev Questions  "))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID.IsZero() {
		t.Error("expected ID to be assigned")
	}
	if created.Name != "Dev Questions" {
		t.Errorf("expected trimmed name, got %q", created.Name)
	}

	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 stored category, got %d", n)
	}
}

func TestStore_Create_RequiresName(t *testing.T) {
	store, _, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, newCategory("   ")); err != categorystore.ErrNameRequired {
		t.Errorf("expected ErrNameRequired, got %v", err)
	}
}

func newCategory(name string) models.Category {
	return models.Category{Name: name, Description: "test"}
}
