package game

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prash240303/Globetrotter/internal/domain"
)

// scriptedProvider serves questions with known IDs; option 1 is always
// correct. Hooks allow failure injection and mid-call session resets.
type scriptedProvider struct {
	nextErr      error
	verifyErr    error
	issued       int
	verifyCalls  int
	beforeVerify func()
}

func (p *scriptedProvider) NextQuestion(context.Context) (domain.Question, error) {
	if p.nextErr != nil {
		err := p.nextErr
		p.nextErr = nil
		return domain.Question{}, err
	}
	p.issued++
	return domain.Question{
		ID:    fmt.Sprintf("q-%d", p.issued),
		Clues: []string{"a clue"},
		Options: []domain.Option{
			{ID: 1, Label: "Right", Nation: "X"},
			{ID: 2, Label: "Wrong", Nation: "Y"},
		},
	}, nil
}

func (p *scriptedProvider) Verify(_ context.Context, questionID string, optionID int64) (domain.Verification, error) {
	p.verifyCalls++
	if p.beforeVerify != nil {
		p.beforeVerify()
	}
	if p.verifyErr != nil {
		err := p.verifyErr
		p.verifyErr = nil
		return domain.Verification{}, err
	}
	return domain.Verification{
		QuestionID: questionID,
		Correct:    optionID == 1,
		FunFact:    "fact",
		TriviaNote: "trivia",
	}, nil
}

func TestPlayThroughEndsOnFirstWrongAnswer(t *testing.T) {
	ctx := context.Background()
	session := NewCoordinator(&scriptedProvider{})
	session.Start()

	// Ada answers three questions correctly, then one incorrectly.
	for i := 0; i < 3; i++ {
		if _, err := session.RequestQuestion(ctx); err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		verdict, applied, err := session.SubmitAnswer(ctx, 1)
		if err != nil || !applied || !verdict.Correct {
			t.Fatalf("submit %d: verdict=%+v applied=%v err=%v", i, verdict, applied, err)
		}
	}
	if _, err := session.RequestQuestion(ctx); err != nil {
		t.Fatalf("request final: %v", err)
	}
	verdict, applied, err := session.SubmitAnswer(ctx, 2)
	if err != nil || !applied || verdict.Correct {
		t.Fatalf("expected wrong verdict, got %+v applied=%v err=%v", verdict, applied, err)
	}

	if session.State() != StateGameOver || session.Active() {
		t.Fatalf("expected terminal state, got %v", session.State())
	}
	tally := session.Tally()
	if tally.Correct != 3 || tally.Incorrect != 1 || tally.Total != 4 {
		t.Fatalf("unexpected tally %+v", tally)
	}

	// Terminal means terminal: no further questions for this session.
	if _, err := session.RequestQuestion(ctx); !errors.Is(err, ErrSessionOver) {
		t.Fatalf("expected session over, got %v", err)
	}
}

func TestSubmitBeforeQuestionIsNoOp(t *testing.T) {
	ctx := context.Background()
	session := NewCoordinator(&scriptedProvider{})
	session.Start()

	if _, applied, err := session.SubmitAnswer(ctx, 1); applied || err != nil {
		t.Fatalf("expected no-op, got applied=%v err=%v", applied, err)
	}
}

func TestDoubleSubmitCountsOnce(t *testing.T) {
	ctx := context.Background()
	provider := &scriptedProvider{}
	session := NewCoordinator(provider)
	session.Start()

	if _, err := session.RequestQuestion(ctx); err != nil {
		t.Fatalf("request: %v", err)
	}
	if _, applied, err := session.SubmitAnswer(ctx, 1); !applied || err != nil {
		t.Fatalf("first submit: applied=%v err=%v", applied, err)
	}
	// Double-click: the second submission never reaches the provider.
	if _, applied, err := session.SubmitAnswer(ctx, 1); applied || err != nil {
		t.Fatalf("second submit: applied=%v err=%v", applied, err)
	}
	if provider.verifyCalls != 1 {
		t.Fatalf("expected one verify call, got %d", provider.verifyCalls)
	}
	if tally := session.Tally(); tally.Total != 1 {
		t.Fatalf("expected total 1, got %+v", tally)
	}
}

func TestRequestQuestionWhilePendingRejected(t *testing.T) {
	ctx := context.Background()
	session := NewCoordinator(&scriptedProvider{})
	session.Start()

	if _, err := session.RequestQuestion(ctx); err != nil {
		t.Fatalf("request: %v", err)
	}
	if _, err := session.RequestQuestion(ctx); !errors.Is(err, ErrQuestionPending) {
		t.Fatalf("expected pending rejection, got %v", err)
	}
}

func TestRequestQuestionBeforeStart(t *testing.T) {
	session := NewCoordinator(&scriptedProvider{})
	if _, err := session.RequestQuestion(context.Background()); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("expected not started, got %v", err)
	}
}

func TestFetchFailureStaysRetryable(t *testing.T) {
	ctx := context.Background()
	provider := &scriptedProvider{nextErr: errors.New("boom")}
	session := NewCoordinator(provider)
	session.Start()

	if _, err := session.RequestQuestion(ctx); err == nil {
		t.Fatalf("expected fetch failure")
	}
	if session.State() != StateFetching {
		t.Fatalf("expected to remain fetching, got %v", session.State())
	}
	// The caller decides to retry; the session did not advance on its own.
	if _, err := session.RequestQuestion(ctx); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if tally := session.Tally(); tally.Total != 0 {
		t.Fatalf("failure must not touch the tally: %+v", tally)
	}
}

func TestVerifyFailureReturnsToAwaiting(t *testing.T) {
	ctx := context.Background()
	provider := &scriptedProvider{}
	session := NewCoordinator(provider)
	session.Start()

	if _, err := session.RequestQuestion(ctx); err != nil {
		t.Fatalf("request: %v", err)
	}
	provider.verifyErr = errors.New("network down")
	if _, _, err := session.SubmitAnswer(ctx, 1); err == nil {
		t.Fatalf("expected verify failure")
	}
	if session.State() != StateAwaitingAnswer {
		t.Fatalf("expected awaiting answer, got %v", session.State())
	}

	// Same question can be answered again after the failure.
	if _, applied, err := session.SubmitAnswer(ctx, 1); !applied || err != nil {
		t.Fatalf("resubmit: applied=%v err=%v", applied, err)
	}
	if tally := session.Tally(); tally.Total != 1 {
		t.Fatalf("expected total 1, got %+v", tally)
	}
}

func TestResetMidVerifyDiscardsResult(t *testing.T) {
	ctx := context.Background()
	provider := &scriptedProvider{}
	session := NewCoordinator(provider)
	// Restart the session while the verify response is in flight.
	provider.beforeVerify = func() { session.Start() }
	session.Start()

	if _, err := session.RequestQuestion(ctx); err != nil {
		t.Fatalf("request: %v", err)
	}
	_, applied, err := session.SubmitAnswer(ctx, 1)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if applied {
		t.Fatalf("stale verdict must be discarded")
	}
	if tally := session.Tally(); tally.Total != 0 {
		t.Fatalf("fresh session tally must stay zero, got %+v", tally)
	}
	if session.State() != StateFetching {
		t.Fatalf("expected fresh session fetching, got %v", session.State())
	}
}

func TestStartResetsTally(t *testing.T) {
	ctx := context.Background()
	session := NewCoordinator(&scriptedProvider{})
	session.Start()

	if _, err := session.RequestQuestion(ctx); err != nil {
		t.Fatalf("request: %v", err)
	}
	if _, _, err := session.SubmitAnswer(ctx, 2); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if session.State() != StateGameOver {
		t.Fatalf("expected game over, got %v", session.State())
	}

	session.Start()
	if tally := session.Tally(); tally != (Tally{}) {
		t.Fatalf("expected zeroed tally, got %+v", tally)
	}
	if session.State() != StateFetching {
		t.Fatalf("expected fetching after restart, got %v", session.State())
	}
}
