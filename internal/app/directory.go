package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/prash240303/Globetrotter/internal/domain"
)

// PlayerRepository abstracts how player records are stored (in-memory, Postgres).
type PlayerRepository interface {
	ByName(ctx context.Context, name string) (domain.Player, error)
	ByCode(ctx context.Context, code string) (domain.Player, error)
	Create(ctx context.Context, name, code string) (domain.Player, error)
	// ApplyScore merges the submitted score with max(existing, submitted)
	// atomically and returns the updated record plus the prior best.
	ApplyScore(ctx context.Context, name string, score int) (domain.Player, int, error)
	Top(ctx context.Context, limit int) ([]domain.Player, error)
}

// Directory owns player identity and best-score state. Score updates fan
// out leaderboard snapshots to subscribers.
type Directory struct {
	players PlayerRepository
	newCode func() string
	clock   func() time.Time

	mu          sync.Mutex
	subscribers map[chan domain.Leaderboard]struct{}
}

func NewDirectory(players PlayerRepository) *Directory {
	return &Directory{
		players:     players,
		newCode:     newReferralCode,
		clock:       time.Now,
		subscribers: make(map[chan domain.Leaderboard]struct{}),
	}
}

// NewDirectoryWithHooks is test-only for deterministic codes and timestamps.
func NewDirectoryWithHooks(players PlayerRepository, newCode func() string, clock func() time.Time) *Directory {
	d := NewDirectory(players)
	if newCode != nil {
		d.newCode = newCode
	}
	if clock != nil {
		d.clock = clock
	}
	return d
}

// referral codes mirror the 8-hex shape players already share in invite URLs.
func newReferralCode() string {
	raw := uuid.New()
	return fmt.Sprintf("%x", raw[:4])
}

// PlayerByName resolves a player by canonical display name.
func (d *Directory) PlayerByName(ctx context.Context, rawName string) (domain.Player, error) {
	name, err := domain.CanonicalName(rawName)
	if err != nil {
		return domain.Player{}, err
	}
	return d.players.ByName(ctx, name)
}

// PlayerByCode resolves the player a referral code was issued to.
func (d *Directory) PlayerByCode(ctx context.Context, code string) (domain.Player, error) {
	if code == "" {
		return domain.Player{}, domain.ErrReferralNotFound
	}
	return d.players.ByCode(ctx, code)
}

// CreatePlayer registers a new player under a canonical name with a fresh
// referral code. A duplicate name surfaces as domain.ErrNameTaken; the
// repository is the sole arbiter of uniqueness.
func (d *Directory) CreatePlayer(ctx context.Context, rawName string) (domain.Player, error) {
	name, err := domain.CanonicalName(rawName)
	if err != nil {
		return domain.Player{}, err
	}
	player, err := d.players.Create(ctx, name, d.newCode())
	if err != nil {
		return domain.Player{}, err
	}
	d.broadcast(ctx)
	return player, nil
}

// UpdateScore merges a session's correct-answer count into the player's
// best score. The merge is max(existing, submitted), so concurrent and
// retried submissions commute. The personal-best verdict is a pure
// function of (player, score, stored best): a replayed submission that
// matches the standing record reports the same verdict as the attempt
// that set it.
func (d *Directory) UpdateScore(ctx context.Context, rawName string, score int) (domain.ScoreUpdate, error) {
	name, err := domain.CanonicalName(rawName)
	if err != nil {
		return domain.ScoreUpdate{}, err
	}
	if score < 0 {
		return domain.ScoreUpdate{}, fmt.Errorf("%w: %d", domain.ErrInvalidScore, score)
	}

	player, prev, err := d.players.ApplyScore(ctx, name, score)
	if errors.Is(err, domain.ErrPlayerNotFound) {
		// First score for a name that never signed in: register it. A
		// concurrent create is fine, the merge below settles the score.
		if _, cerr := d.players.Create(ctx, name, d.newCode()); cerr != nil && !errors.Is(cerr, domain.ErrNameTaken) {
			return domain.ScoreUpdate{}, fmt.Errorf("register player for score: %w", cerr)
		}
		player, prev, err = d.players.ApplyScore(ctx, name, score)
	}
	if err != nil {
		return domain.ScoreUpdate{}, fmt.Errorf("apply score: %w", err)
	}

	update := domain.ScoreUpdate{
		PlayerName:   player.Name,
		BestScore:    player.BestScore,
		PersonalBest: score > 0 && score >= prev,
	}
	d.broadcast(ctx)
	return update, nil
}

// Leaderboard returns the top best scores, highest first.
func (d *Directory) Leaderboard(ctx context.Context, limit int) (domain.Leaderboard, error) {
	if limit <= 0 {
		limit = 10
	}
	players, err := d.players.Top(ctx, limit)
	if err != nil {
		return domain.Leaderboard{}, fmt.Errorf("load leaderboard: %w", err)
	}
	entries := make([]domain.LeaderboardEntry, 0, len(players))
	for _, p := range players {
		entries = append(entries, domain.LeaderboardEntry{PlayerName: p.Name, BestScore: p.BestScore})
	}
	return domain.Leaderboard{Entries: entries, UpdatedAt: d.clock()}, nil
}

// Subscribe returns a channel that receives leaderboard snapshots whenever
// scores change. The caller must invoke the returned cancel function to
// avoid leaks.
func (d *Directory) Subscribe(ctx context.Context) (<-chan domain.Leaderboard, func(), error) {
	initial, err := d.Leaderboard(ctx, 10)
	if err != nil {
		return nil, nil, err
	}

	ch := make(chan domain.Leaderboard, 8)
	d.mu.Lock()
	d.subscribers[ch] = struct{}{}
	d.mu.Unlock()

	ch <- initial

	cancel := func() {
		d.mu.Lock()
		if _, ok := d.subscribers[ch]; ok {
			delete(d.subscribers, ch)
			close(ch)
		}
		d.mu.Unlock()
	}
	return ch, cancel, nil
}

func (d *Directory) broadcast(ctx context.Context) {
	d.mu.Lock()
	if len(d.subscribers) == 0 {
		d.mu.Unlock()
		return
	}
	d.mu.Unlock()

	snapshot, err := d.Leaderboard(ctx, 10)
	if err != nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for ch := range d.subscribers {
		select {
		case ch <- snapshot:
		default:
			// Drop the stale snapshot so slow readers never block updates.
			select {
			case <-ch:
			default:
			}
			ch <- snapshot
		}
	}
}
