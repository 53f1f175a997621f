package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/prash240303/Globetrotter/internal/domain"
)

// QuestionStore keeps issued questions in Redis so any instance can verify
// an answer. Each question is a hash:
//
//	HSET question:{id} correct {optionID} options {json} fun_fact {s} trivia_note {s}
//
// with a TTL bounding how long an unanswered question stays verifiable.
type QuestionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewQuestionStore(client *redis.Client, ttl time.Duration) *QuestionStore {
	return &QuestionStore{client: client, ttl: ttl}
}

func (s *QuestionStore) Put(ctx context.Context, question domain.IssuedQuestion) error {
	options, err := json.Marshal(question.OptionIDs)
	if err != nil {
		return fmt.Errorf("marshal options: %w", err)
	}

	key := s.key(question.ID)
	pipe := s.client.Pipeline()
	pipe.HSet(ctx, key,
		"correct", question.CorrectID,
		"options", options,
		"fun_fact", question.FunFact,
		"trivia_note", question.TriviaNote,
	)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store question: %w", err)
	}
	return nil
}

func (s *QuestionStore) Get(ctx context.Context, id string) (domain.IssuedQuestion, error) {
	fields, err := s.client.HGetAll(ctx, s.key(id)).Result()
	if err != nil {
		return domain.IssuedQuestion{}, fmt.Errorf("load question: %w", err)
	}
	if len(fields) == 0 {
		return domain.IssuedQuestion{}, domain.ErrQuestionNotFound
	}

	question := domain.IssuedQuestion{
		ID:         id,
		FunFact:    fields["fun_fact"],
		TriviaNote: fields["trivia_note"],
	}
	correct, err := strconv.ParseInt(fields["correct"], 10, 64)
	if err != nil {
		return domain.IssuedQuestion{}, fmt.Errorf("parse correct option: %w", err)
	}
	question.CorrectID = correct
	if err := json.Unmarshal([]byte(fields["options"]), &question.OptionIDs); err != nil {
		return domain.IssuedQuestion{}, fmt.Errorf("parse options: %w", err)
	}
	return question, nil
}

func (s *QuestionStore) key(id string) string {
	return "question:" + id
}
