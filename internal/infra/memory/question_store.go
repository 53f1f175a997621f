package memory

import (
	"context"
	"sync"
	"time"

	"github.com/prash240303/Globetrotter/internal/domain"
)

// QuestionStore holds issued questions in memory until they expire.
type QuestionStore struct {
	ttl   time.Duration
	clock func() time.Time

	mu     sync.RWMutex
	issued map[string]storedQuestion
}

type storedQuestion struct {
	question  domain.IssuedQuestion
	expiresAt time.Time
}

func NewQuestionStore(ttl time.Duration) *QuestionStore {
	return &QuestionStore{
		ttl:    ttl,
		clock:  time.Now,
		issued: make(map[string]storedQuestion),
	}
}

// NewQuestionStoreWithClock is test-only for deterministic expiry.
func NewQuestionStoreWithClock(ttl time.Duration, clock func() time.Time) *QuestionStore {
	store := NewQuestionStore(ttl)
	store.clock = clock
	return store
}

func (s *QuestionStore) Put(_ context.Context, question domain.IssuedQuestion) error {
	now := s.clock()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, entry := range s.issued {
		if !entry.expiresAt.After(now) {
			delete(s.issued, id)
		}
	}
	s.issued[question.ID] = storedQuestion{question: question, expiresAt: now.Add(s.ttl)}
	return nil
}

func (s *QuestionStore) Get(_ context.Context, id string) (domain.IssuedQuestion, error) {
	now := s.clock()
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.issued[id]
	if !ok || !entry.expiresAt.After(now) {
		return domain.IssuedQuestion{}, domain.ErrQuestionNotFound
	}
	return entry.question, nil
}
