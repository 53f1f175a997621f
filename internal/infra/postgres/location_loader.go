package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/prash240303/Globetrotter/internal/domain"
)

// LocationLoader loads the location catalog from Postgres JSONB columns.
type LocationLoader struct {
	pool *pgxpool.Pool
}

func NewLocationLoader(pool *pgxpool.Pool) *LocationLoader {
	return &LocationLoader{pool: pool}
}

func (l *LocationLoader) LoadLocations(ctx context.Context) ([]domain.Location, error) {
	rows, err := l.pool.Query(ctx,
		`SELECT id, location_name, nation, clues, fun_facts, trivia FROM locations`)
	if err != nil {
		return nil, fmt.Errorf("load locations: %w", err)
	}
	defer rows.Close()

	var locations []domain.Location
	for rows.Next() {
		var (
			loc                      domain.Location
			clues, funFacts, trivia []byte
		)
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.Nation, &clues, &funFacts, &trivia); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		if err := json.Unmarshal(clues, &loc.Clues); err != nil {
			return nil, fmt.Errorf("unmarshal clues: %w", err)
		}
		if err := json.Unmarshal(funFacts, &loc.FunFacts); err != nil {
			return nil, fmt.Errorf("unmarshal fun facts: %w", err)
		}
		if err := json.Unmarshal(trivia, &loc.Trivia); err != nil {
			return nil, fmt.Errorf("unmarshal trivia: %w", err)
		}
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}

// Seed inserts the given locations when the catalog is empty. Idempotent,
// so it is safe to run on every startup.
func (l *LocationLoader) Seed(ctx context.Context, locations []domain.Location) error {
	var count int
	if err := l.pool.QueryRow(ctx, `SELECT count(*) FROM locations`).Scan(&count); err != nil {
		return fmt.Errorf("count locations: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, loc := range locations {
		clues, err := json.Marshal(loc.Clues)
		if err != nil {
			return fmt.Errorf("marshal clues: %w", err)
		}
		funFacts, err := json.Marshal(loc.FunFacts)
		if err != nil {
			return fmt.Errorf("marshal fun facts: %w", err)
		}
		trivia, err := json.Marshal(loc.Trivia)
		if err != nil {
			return fmt.Errorf("marshal trivia: %w", err)
		}
		if _, err := l.pool.Exec(ctx,
			`INSERT INTO locations (location_name, nation, clues, fun_facts, trivia)
			 VALUES ($1, $2, $3, $4, $5)`,
			loc.Name, loc.Nation, clues, funFacts, trivia); err != nil {
			return fmt.Errorf("insert location %q: %w", loc.Name, err)
		}
	}
	return nil
}
