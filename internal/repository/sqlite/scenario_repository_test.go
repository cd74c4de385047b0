package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mamadbah2/costeo/internal/domain/models"
)

func newTestRepository(t *testing.T) *ScenarioRepository {
	t.Helper()

	db, err := Open(MemoryPath)
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	repo := NewScenarioRepository(db, nil)
	clock := time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)
	repo.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return repo
}

func TestScenarioRepository_CreateListGet(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	first, err := repo.Create(ctx, models.Scenario{
		Name:       "  Carne +15%  ",
		Adjustment: models.ScenarioAdjustment{Type: models.ScenarioRawMaterial, Percent: 15, Target: "11"},
	})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	if first.ID == 0 || first.Name != "Carne +15%" {
		t.Fatalf("first = %+v", first)
	}

	second, err := repo.Create(ctx, models.Scenario{
		Name:       "Inflación 1%",
		Adjustment: models.ScenarioAdjustment{Type: models.ScenarioInflation, Percent: 1},
	})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != first.ID || list[1].ID != second.ID {
		t.Fatalf("list = %+v", list)
	}

	got, err := repo.Get(ctx, first.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Adjustment != first.Adjustment || !got.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("got = %+v, want %+v", got, first)
	}
}

func TestScenarioRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	sc, err := repo.Create(ctx, models.Scenario{
		Name:       "Producción -10%",
		Adjustment: models.ScenarioAdjustment{Type: models.ScenarioProduction, Percent: -10},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.Delete(ctx, sc.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, sc.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}
	if _, err := repo.Get(ctx, sc.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get err = %v, want ErrNotFound", err)
	}
}

func TestScenarioRepository_EmptyList(t *testing.T) {
	list, err := newTestRepository(t).List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("list = %#v, want empty slice", list)
	}
}

func TestScenarioRepository_RequiresName(t *testing.T) {
	_, err := newTestRepository(t).Create(context.Background(), models.Scenario{Name: " "})
	if err == nil {
		t.Fatalf("expected error for blank name")
	}
}

func TestScenarioRepository_LogsWrites(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zapcore.DebugLevel)

	repo := newTestRepository(t)
	repo.logger = zap.New(core)

	sc, err := repo.Create(ctx, models.Scenario{
		Name:       "GIF +5%",
		Adjustment: models.ScenarioAdjustment{Type: models.ScenarioIndirect, Percent: 5},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Delete(ctx, sc.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if got := logs.FilterMessage("scenario stored").Len(); got != 1 {
		t.Fatalf("stored entries = %d, want 1", got)
	}
	if got := logs.FilterMessage("scenario deleted").Len(); got != 1 {
		t.Fatalf("deleted entries = %d, want 1", got)
	}
}
