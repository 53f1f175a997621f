package game

import (
	"context"
	"fmt"

	"github.com/prash240303/Globetrotter/internal/domain"
)

// ScoreDirectory is the reconciler's port to the player directory.
type ScoreDirectory interface {
	UpdateScore(ctx context.Context, name string, score int) (domain.ScoreUpdate, error)
}

// Reconciler submits a finished session's correct-answer count to the
// directory and reports whether it set a new personal best. The directory
// applies the monotonic max merge; nothing is mutated locally, so a failed
// submission can simply be retried.
type Reconciler struct {
	directory ScoreDirectory
	celebrate func(domain.ScoreUpdate)
}

func NewReconciler(directory ScoreDirectory) *Reconciler {
	return &Reconciler{directory: directory}
}

// OnPersonalBest registers a fire-and-forget signal consumed by the
// presentation layer when a submission raises the record.
func (r *Reconciler) OnPersonalBest(fn func(domain.ScoreUpdate)) {
	r.celebrate = fn
}

// Reconcile persists the session score. On failure the locally accumulated
// tally remains the displayed truth and the caller may offer a retry.
func (r *Reconciler) Reconcile(ctx context.Context, playerName string, correctCount int) (domain.ScoreUpdate, error) {
	update, err := r.directory.UpdateScore(ctx, playerName, correctCount)
	if err != nil {
		return domain.ScoreUpdate{}, fmt.Errorf("save score: %w", err)
	}
	if update.PersonalBest && r.celebrate != nil {
		r.celebrate(update)
	}
	return update, nil
}
