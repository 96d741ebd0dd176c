package statusstore_test

import (
	"testing"
	"time"

	"github.com/lucasmenke/suggestion-app/internal/app/store/dbconn"
	statusstore "github.com/lucasmenke/suggestion-app/internal/app/store/statuses"
	"github.com/lucasmenke/suggestion-app/internal/app/system/cache"
	"github.com/lucasmenke/suggestion-app/internal/domain/models"
	"github.com/lucasmenke/suggestion-app/internal/testutil"
	"github.com/viccon/sturdyc"
)

func TestStore_GetAll_CachedForADay(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	clock := sturdyc.NewTestClock(time.Now())
	cfg := cache.ReferenceConfig()
	cfg.Clock = clock
	c, err := cache.New(cfg)
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}
	store := statusstore.New(dbconn.New(db.Client(), db.Name()), c)

	if _, err := store.Create(ctx, models.Status{Name: "Completed"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	first, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("expected 1 status, got %d", len(first))
	}

	if _, err := store.Create(ctx, models.Status{Name: "Watching"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	cached, _ := store.GetAll(ctx)
	if len(cached) != 1 {
		t.Errorf("expected cached list within TTL, got %d entries", len(cached))
	}

	cached[0].Name = "Edited"
	again, _ := store.GetAll(ctx)
	if again[0].Name != "Completed" {
		t.Errorf("cached entry was modified through a returned slice: %q", again[0].Name)
	}

	clock.Add(25 * time.Hour)
	fresh, _ := store.GetAll(ctx)
	if len(fresh) != 2 {
		t.Errorf("expected refetch after TTL, got %d entries", len(fresh))
	}
}

func TestStore_Create_RequiresName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c, err := cache.New(cache.ReferenceConfig())
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}
	store := statusstore.New(dbconn.New(db.Client(), db.Name()), c)

	if _, err := store.Create(ctx, models.Status{Name: ""}); err != statusstore.ErrNameRequired {
		t.Errorf("expected ErrNameRequired, got %v", err)
	}
}
