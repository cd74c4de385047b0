package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/costeo/internal/domain/models"
)

// ErrNotFound is returned when a scenario id does not exist.
var ErrNotFound = errors.New("scenario not found")

// ScenarioRepository persists named what-if scenarios.
type ScenarioRepository struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewScenarioRepository wraps an already migrated database.
func NewScenarioRepository(db *sql.DB, logger *zap.Logger) *ScenarioRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScenarioRepository{db: db, logger: logger, now: time.Now}
}

// Create stores sc and returns it with its id and creation time set.
func (r *ScenarioRepository) Create(ctx context.Context, sc models.Scenario) (models.Scenario, error) {
	sc.Name = strings.TrimSpace(sc.Name)
	if sc.Name == "" {
		return models.Scenario{}, errors.New("scenario name is required")
	}
	sc.CreatedAt = r.now().UTC().Truncate(time.Second)

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO scenarios (name, type, percent, target, created_at) VALUES (?, ?, ?, ?, ?)`,
		sc.Name, string(sc.Adjustment.Type), sc.Adjustment.Percent, sc.Adjustment.Target, sc.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return models.Scenario{}, fmt.Errorf("insert scenario: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Scenario{}, fmt.Errorf("read scenario id: %w", err)
	}
	sc.ID = id
	r.logger.Debug("scenario stored", zap.Int64("id", id), zap.String("type", string(sc.Adjustment.Type)))
	return sc, nil
}

// List returns every scenario, oldest first.
func (r *ScenarioRepository) List(ctx context.Context) ([]models.Scenario, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, type, percent, target, created_at FROM scenarios ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query scenarios: %w", err)
	}
	defer rows.Close()

	scenarios := []models.Scenario{}
	for rows.Next() {
		sc, err := scanScenario(rows)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scenarios: %w", err)
	}
	return scenarios, nil
}

// Get returns a single scenario or ErrNotFound.
func (r *ScenarioRepository) Get(ctx context.Context, id int64) (models.Scenario, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, type, percent, target, created_at FROM scenarios WHERE id = ?`, id)

	sc, err := scanScenario(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Scenario{}, ErrNotFound
	}
	return sc, err
}

// Delete removes a scenario or returns ErrNotFound.
func (r *ScenarioRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM scenarios WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete scenario: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete scenario: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	r.logger.Debug("scenario deleted", zap.Int64("id", id))
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanScenario(s scanner) (models.Scenario, error) {
	var (
		sc        models.Scenario
		kind      string
		createdAt string
	)
	if err := s.Scan(&sc.ID, &sc.Name, &kind, &sc.Adjustment.Percent, &sc.Adjustment.Target, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Scenario{}, err
		}
		return models.Scenario{}, fmt.Errorf("scan scenario: %w", err)
	}
	sc.Adjustment.Type = models.ScenarioType(kind)

	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.Scenario{}, fmt.Errorf("parse scenario created_at %q: %w", createdAt, err)
	}
	sc.CreatedAt = t
	return sc, nil
}
