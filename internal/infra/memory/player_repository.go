package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/prash240303/Globetrotter/internal/domain"
)

// PlayerRepository is an in-memory implementation of app.PlayerRepository.
type PlayerRepository struct {
	mu     sync.RWMutex
	nextID int64
	byName map[string]*domain.Player
	byCode map[string]string
}

func NewPlayerRepository() *PlayerRepository {
	return &PlayerRepository{
		byName: make(map[string]*domain.Player),
		byCode: make(map[string]string),
	}
}

func (r *PlayerRepository) ByName(_ context.Context, name string) (domain.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	player, ok := r.byName[name]
	if !ok {
		return domain.Player{}, domain.ErrPlayerNotFound
	}
	return *player, nil
}

func (r *PlayerRepository) ByCode(_ context.Context, code string) (domain.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.byCode[code]
	if !ok {
		return domain.Player{}, domain.ErrReferralNotFound
	}
	return *r.byName[name], nil
}

func (r *PlayerRepository) Create(_ context.Context, name, code string) (domain.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[name]; ok {
		return domain.Player{}, domain.ErrNameTaken
	}
	if _, ok := r.byCode[code]; ok {
		return domain.Player{}, fmt.Errorf("referral code collision: %s", code)
	}
	r.nextID++
	player := &domain.Player{ID: r.nextID, Name: name, ReferralCode: code}
	r.byName[name] = player
	r.byCode[code] = name
	return *player, nil
}

func (r *PlayerRepository) ApplyScore(_ context.Context, name string, score int) (domain.Player, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	player, ok := r.byName[name]
	if !ok {
		return domain.Player{}, 0, domain.ErrPlayerNotFound
	}
	prev := player.BestScore
	if score > prev {
		player.BestScore = score
	}
	return *player, prev, nil
}

func (r *PlayerRepository) Top(_ context.Context, limit int) ([]domain.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	players := make([]domain.Player, 0, len(r.byName))
	for _, p := range r.byName {
		players = append(players, *p)
	}
	sort.Slice(players, func(i, j int) bool {
		if players[i].BestScore != players[j].BestScore {
			return players[i].BestScore > players[j].BestScore
		}
		return players[i].Name < players[j].Name
	})
	if len(players) > limit {
		players = players[:limit]
	}
	return players, nil
}
