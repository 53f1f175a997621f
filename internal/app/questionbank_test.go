package app_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/prash240303/Globetrotter/internal/app"
	"github.com/prash240303/Globetrotter/internal/domain"
	"github.com/prash240303/Globetrotter/internal/infra/memory"
)

func testLocations() []domain.Location {
	locations := make([]domain.Location, 0, 5)
	for i := int64(1); i <= 5; i++ {
		locations = append(locations, domain.Location{
			ID:       i,
			Name:     fmt.Sprintf("City %d", i),
			Nation:   fmt.Sprintf("Nation %d", i),
			Clues:    []string{"clue a", "clue b", "clue c"},
			FunFacts: []string{fmt.Sprintf("fact %d", i)},
			Trivia:   []string{fmt.Sprintf("trivia %d", i)},
		})
	}
	return locations
}

func newTestBank() (*app.QuestionBank, *memory.QuestionStore) {
	store := memory.NewQuestionStore(time.Minute)
	catalog := memory.NewLocationCatalog(memory.NewStaticLocationLoader(testLocations()), time.Minute)
	ids := 0
	newID := func() string {
		ids++
		return fmt.Sprintf("q-%04d", ids)
	}
	return app.NewQuestionBankWithRand(catalog, store, rand.New(rand.NewSource(7)), newID), store
}

func TestNextQuestionShape(t *testing.T) {
	ctx := context.Background()
	bank, store := newTestBank()

	question, err := bank.NextQuestion(ctx)
	if err != nil {
		t.Fatalf("next question: %v", err)
	}
	if question.ID == "" {
		t.Fatalf("expected opaque question id")
	}
	if len(question.Options) != 4 {
		t.Fatalf("expected 4 options, got %d", len(question.Options))
	}
	if len(question.Clues) == 0 || len(question.Clues) > 2 {
		t.Fatalf("expected 1-2 clues, got %d", len(question.Clues))
	}

	issued, err := store.Get(ctx, question.ID)
	if err != nil {
		t.Fatalf("issued record: %v", err)
	}
	found := false
	for _, opt := range question.Options {
		if opt.ID == issued.CorrectID {
			found = true
		}
	}
	if !found {
		t.Fatalf("correct option %d not among offered options %+v", issued.CorrectID, question.Options)
	}
}

func TestVerifyVerdicts(t *testing.T) {
	ctx := context.Background()
	bank, store := newTestBank()

	question, err := bank.NextQuestion(ctx)
	if err != nil {
		t.Fatalf("next question: %v", err)
	}
	issued, err := store.Get(ctx, question.ID)
	if err != nil {
		t.Fatalf("issued record: %v", err)
	}

	var wrong int64
	for _, opt := range question.Options {
		if opt.ID != issued.CorrectID {
			wrong = opt.ID
			break
		}
	}

	verdict, err := bank.Verify(ctx, question.ID, issued.CorrectID)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !verdict.Correct || verdict.FunFact == "" || verdict.TriviaNote == "" {
		t.Fatalf("unexpected correct verdict %+v", verdict)
	}

	verdict, err = bank.Verify(ctx, question.ID, wrong)
	if err != nil {
		t.Fatalf("verify wrong: %v", err)
	}
	if verdict.Correct {
		t.Fatalf("expected wrong verdict for option %d", wrong)
	}
}

func TestVerifyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	bank, store := newTestBank()

	question, err := bank.NextQuestion(ctx)
	if err != nil {
		t.Fatalf("next question: %v", err)
	}
	issued, err := store.Get(ctx, question.ID)
	if err != nil {
		t.Fatalf("issued record: %v", err)
	}

	first, err := bank.Verify(ctx, question.ID, issued.CorrectID)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	second, err := bank.Verify(ctx, question.ID, issued.CorrectID)
	if err != nil {
		t.Fatalf("verify again: %v", err)
	}
	if first != second {
		t.Fatalf("verdicts differ: %+v vs %+v", first, second)
	}
}

func TestVerifyUnknownQuestion(t *testing.T) {
	ctx := context.Background()
	bank, _ := newTestBank()

	if _, err := bank.Verify(ctx, "missing", 1); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected question not found, got %v", err)
	}
}

func TestVerifyRejectsUnofferedOption(t *testing.T) {
	ctx := context.Background()
	bank, _ := newTestBank()

	question, err := bank.NextQuestion(ctx)
	if err != nil {
		t.Fatalf("next question: %v", err)
	}
	if _, err := bank.Verify(ctx, question.ID, 9999); !errors.Is(err, domain.ErrOptionNotFound) {
		t.Fatalf("expected option not found, got %v", err)
	}
}

func TestNextQuestionEmptyCatalog(t *testing.T) {
	ctx := context.Background()
	store := memory.NewQuestionStore(time.Minute)
	catalog := memory.NewLocationCatalog(memory.NewStaticLocationLoader(nil), time.Minute)
	bank := app.NewQuestionBank(catalog, store)

	if _, err := bank.NextQuestion(ctx); !errors.Is(err, domain.ErrNoLocations) {
		t.Fatalf("expected no locations, got %v", err)
	}
}
