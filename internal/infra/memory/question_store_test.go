package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prash240303/Globetrotter/internal/domain"
)

func TestQuestionStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewQuestionStore(time.Minute)

	issued := domain.IssuedQuestion{
		ID:         "q-1",
		CorrectID:  3,
		OptionIDs:  []int64{1, 2, 3, 4},
		FunFact:    "fact",
		TriviaNote: "trivia",
	}
	if err := store.Put(ctx, issued); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.Get(ctx, "q-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.CorrectID != 3 || len(got.OptionIDs) != 4 {
		t.Fatalf("unexpected record %+v", got)
	}

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected question not found, got %v", err)
	}
}

func TestQuestionStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1000, 0)
	store := NewQuestionStoreWithClock(time.Minute, func() time.Time { return now })

	if err := store.Put(ctx, domain.IssuedQuestion{ID: "q-1", CorrectID: 1, OptionIDs: []int64{1}}); err != nil {
		t.Fatalf("put: %v", err)
	}

	now = now.Add(61 * time.Second)
	if _, err := store.Get(ctx, "q-1"); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected expiry, got %v", err)
	}
}
