package app

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/prash240303/Globetrotter/internal/domain"
)

// LocationSource supplies the location catalog (cached infra).
type LocationSource interface {
	Locations(ctx context.Context) ([]domain.Location, error)
}

// QuestionStore parks issued questions until they are verified or expire.
type QuestionStore interface {
	Put(ctx context.Context, question domain.IssuedQuestion) error
	Get(ctx context.Context, id string) (domain.IssuedQuestion, error)
}

// QuestionBank builds multiple-choice questions from the location catalog
// and verifies submitted answers against the issued record.
type QuestionBank struct {
	source LocationSource
	issued QuestionStore
	newID  func() string

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewQuestionBank(source LocationSource, issued QuestionStore) *QuestionBank {
	return &QuestionBank{
		source: source,
		issued: issued,
		newID:  uuid.NewString,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewQuestionBankWithRand is test-only for deterministic draws.
func NewQuestionBankWithRand(source LocationSource, issued QuestionStore, rnd *rand.Rand, newID func() string) *QuestionBank {
	bank := NewQuestionBank(source, issued)
	bank.rnd = rnd
	bank.newID = newID
	return bank
}

const (
	maxDecoys = 3
	maxClues  = 2
)

// NextQuestion draws a target location plus up to three decoys, shuffles the
// options, and parks the correct answer server-side under an opaque ID.
func (b *QuestionBank) NextQuestion(ctx context.Context) (domain.Question, error) {
	locations, err := b.source.Locations(ctx)
	if err != nil {
		return domain.Question{}, fmt.Errorf("load locations: %w", err)
	}
	if len(locations) == 0 {
		return domain.Question{}, domain.ErrNoLocations
	}

	b.mu.Lock()
	target, options := b.drawLocked(locations)
	clues := b.pickLocked(target.Clues, maxClues)
	funFact := b.chooseLocked(target.FunFacts)
	triviaNote := b.chooseLocked(target.Trivia)
	b.mu.Unlock()

	issued := domain.IssuedQuestion{
		ID:         b.newID(),
		CorrectID:  target.ID,
		OptionIDs:  make([]int64, 0, len(options)),
		FunFact:    funFact,
		TriviaNote: triviaNote,
	}
	for _, opt := range options {
		issued.OptionIDs = append(issued.OptionIDs, opt.ID)
	}
	if err := b.issued.Put(ctx, issued); err != nil {
		return domain.Question{}, fmt.Errorf("store question: %w", err)
	}

	return domain.Question{ID: issued.ID, Clues: clues, Options: options}, nil
}

// Verify resolves the issued record and compares the submitted option.
// The record is not consumed, so re-submitting the same pair yields the
// same verdict for as long as the question lives.
func (b *QuestionBank) Verify(ctx context.Context, questionID string, optionID int64) (domain.Verification, error) {
	issued, err := b.issued.Get(ctx, questionID)
	if err != nil {
		return domain.Verification{}, err
	}

	offered := false
	for _, id := range issued.OptionIDs {
		if id == optionID {
			offered = true
			break
		}
	}
	if !offered {
		return domain.Verification{}, domain.ErrOptionNotFound
	}

	return domain.Verification{
		QuestionID: questionID,
		Correct:    optionID == issued.CorrectID,
		FunFact:    issued.FunFact,
		TriviaNote: issued.TriviaNote,
	}, nil
}

func (b *QuestionBank) drawLocked(locations []domain.Location) (domain.Location, []domain.Option) {
	target := locations[b.rnd.Intn(len(locations))]

	decoys := make([]domain.Location, 0, len(locations)-1)
	for _, loc := range locations {
		if loc.ID != target.ID {
			decoys = append(decoys, loc)
		}
	}
	b.rnd.Shuffle(len(decoys), func(i, j int) { decoys[i], decoys[j] = decoys[j], decoys[i] })
	if len(decoys) > maxDecoys {
		decoys = decoys[:maxDecoys]
	}

	pool := append([]domain.Location{target}, decoys...)
	b.rnd.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	options := make([]domain.Option, 0, len(pool))
	for _, loc := range pool {
		options = append(options, domain.Option{ID: loc.ID, Label: loc.Name, Nation: loc.Nation})
	}
	return target, options
}

func (b *QuestionBank) pickLocked(values []string, n int) []string {
	if len(values) <= n {
		return append([]string(nil), values...)
	}
	idx := b.rnd.Perm(len(values))[:n]
	picked := make([]string, 0, n)
	for _, i := range idx {
		picked = append(picked, values[i])
	}
	return picked
}

func (b *QuestionBank) chooseLocked(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[b.rnd.Intn(len(values))]
}
