package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/prash240303/Globetrotter/internal/domain"
)

const uniqueViolation = "23505"

// PlayerRepository stores player records in Postgres.
type PlayerRepository struct {
	pool *pgxpool.Pool
}

func NewPlayerRepository(pool *pgxpool.Pool) *PlayerRepository {
	return &PlayerRepository{pool: pool}
}

func (r *PlayerRepository) ByName(ctx context.Context, name string) (domain.Player, error) {
	return r.selectOne(ctx,
		`SELECT id, player_name, referral_code, best_score FROM players WHERE player_name = $1`,
		name, domain.ErrPlayerNotFound)
}

func (r *PlayerRepository) ByCode(ctx context.Context, code string) (domain.Player, error) {
	return r.selectOne(ctx,
		`SELECT id, player_name, referral_code, best_score FROM players WHERE referral_code = $1`,
		code, domain.ErrReferralNotFound)
}

func (r *PlayerRepository) selectOne(ctx context.Context, query, arg string, missing error) (domain.Player, error) {
	var p domain.Player
	err := r.pool.QueryRow(ctx, query, arg).Scan(&p.ID, &p.Name, &p.ReferralCode, &p.BestScore)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Player{}, missing
	}
	if err != nil {
		return domain.Player{}, fmt.Errorf("query player: %w", err)
	}
	return p, nil
}

func (r *PlayerRepository) Create(ctx context.Context, name, code string) (domain.Player, error) {
	var p domain.Player
	err := r.pool.QueryRow(ctx,
		`INSERT INTO players (player_name, referral_code, best_score) VALUES ($1, $2, 0)
		 RETURNING id, player_name, referral_code, best_score`,
		name, code).Scan(&p.ID, &p.Name, &p.ReferralCode, &p.BestScore)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.Player{}, domain.ErrNameTaken
		}
		return domain.Player{}, fmt.Errorf("insert player: %w", err)
	}
	return p, nil
}

// ApplyScore merges max(best_score, submitted) and reads the prior best in
// one statement; sibling CTEs share a snapshot, so prev sees the
// pre-update value even under concurrent submissions.
func (r *PlayerRepository) ApplyScore(ctx context.Context, name string, score int) (domain.Player, int, error) {
	var (
		p    domain.Player
		prev int
	)
	err := r.pool.QueryRow(ctx,
		`WITH prev AS (
			SELECT best_score FROM players WHERE player_name = $1
		), upd AS (
			UPDATE players SET best_score = GREATEST(best_score, $2)
			WHERE player_name = $1
			RETURNING id, player_name, referral_code, best_score
		)
		SELECT upd.id, upd.player_name, upd.referral_code, upd.best_score, prev.best_score
		FROM upd, prev`,
		name, score).Scan(&p.ID, &p.Name, &p.ReferralCode, &p.BestScore, &prev)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Player{}, 0, domain.ErrPlayerNotFound
	}
	if err != nil {
		return domain.Player{}, 0, fmt.Errorf("apply score: %w", err)
	}
	return p, prev, nil
}

func (r *PlayerRepository) Top(ctx context.Context, limit int) ([]domain.Player, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, player_name, referral_code, best_score FROM players
		 ORDER BY best_score DESC, player_name ASC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query top players: %w", err)
	}
	defer rows.Close()

	var players []domain.Player
	for rows.Next() {
		var p domain.Player
		if err := rows.Scan(&p.ID, &p.Name, &p.ReferralCode, &p.BestScore); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}
