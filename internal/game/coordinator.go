// Package game holds the client-side play-through core: the session state
// machine, best-score reconciliation, and challenge-link handling. A
// Coordinator belongs to exactly one logical flow; overlapping calls are
// rejected by state guards rather than locks.
package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/prash240303/Globetrotter/internal/domain"
)

// State is the session coordinator's position in the play-through.
type State int

const (
	StateIdle State = iota
	StateFetching
	StateAwaitingAnswer
	StateVerifying
	StateFeedback
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateAwaitingAnswer:
		return "awaiting_answer"
	case StateVerifying:
		return "verifying"
	case StateFeedback:
		return "feedback"
	case StateGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

var (
	// ErrNotStarted is returned when a question is requested before Start.
	ErrNotStarted = errors.New("session not started")
	// ErrQuestionPending is returned when a question is requested while one
	// is still awaiting an answer or a verdict.
	ErrQuestionPending = errors.New("question already pending")
	// ErrSessionOver is returned for any action after the terminal state.
	ErrSessionOver = errors.New("session is over")
	// ErrSessionReset marks a response that arrived after the session was
	// restarted; the result was discarded, not applied.
	ErrSessionReset = errors.New("session was reset")
)

// Tally is the session's transient score aggregate.
type Tally struct {
	Correct   int
	Incorrect int
	Total     int
}

// QuestionProvider is the coordinator's port to the question bank.
type QuestionProvider interface {
	NextQuestion(ctx context.Context) (domain.Question, error)
	Verify(ctx context.Context, questionID string, optionID int64) (domain.Verification, error)
}

// Coordinator drives one player's play-through: it requests questions,
// submits answers, accumulates the tally, and decides termination. Not
// safe for concurrent use; one session means one flow in flight.
type Coordinator struct {
	provider QuestionProvider

	state      State
	generation uint64
	question   domain.Question
	counted    string
	feedback   domain.Verification
	tally      Tally
}

func NewCoordinator(provider QuestionProvider) *Coordinator {
	return &Coordinator{provider: provider}
}

// Start resets the session to zero counts and readies the first fetch.
// Calling it mid-flight abandons any outstanding request: its response
// will be discarded rather than applied to the fresh session.
func (c *Coordinator) Start() {
	c.generation++
	c.state = StateFetching
	c.question = domain.Question{}
	c.counted = ""
	c.feedback = domain.Verification{}
	c.tally = Tally{}
}

// State reports the coordinator's current position.
func (c *Coordinator) State() State { return c.state }

// Tally returns the session's score counters.
func (c *Coordinator) Tally() Tally { return c.tally }

// Active reports whether the session is mid-play-through.
func (c *Coordinator) Active() bool {
	return c.state != StateIdle && c.state != StateGameOver
}

// Question returns the current question, if one is outstanding.
func (c *Coordinator) Question() (domain.Question, bool) {
	if c.state == StateAwaitingAnswer || c.state == StateVerifying {
		return c.question, true
	}
	return domain.Question{}, false
}

// Feedback returns the verdict for the last resolved question.
func (c *Coordinator) Feedback() (domain.Verification, bool) {
	if c.state == StateFeedback || c.state == StateGameOver {
		return c.feedback, true
	}
	return domain.Verification{}, false
}

// RequestQuestion fetches the next question. Valid while fetching (including
// a retry after a failed fetch) or after correct feedback. A fetch failure
// leaves the session in the fetching state; the caller decides whether to
// retry, nothing advances silently.
func (c *Coordinator) RequestQuestion(ctx context.Context) (domain.Question, error) {
	switch c.state {
	case StateFetching:
	case StateFeedback:
		// Feedback is only reachable on a correct answer; a wrong one
		// terminates the session instead.
		c.state = StateFetching
	case StateIdle:
		return domain.Question{}, ErrNotStarted
	case StateGameOver:
		return domain.Question{}, ErrSessionOver
	default:
		return domain.Question{}, ErrQuestionPending
	}

	gen := c.generation
	question, err := c.provider.NextQuestion(ctx)
	if err != nil {
		return domain.Question{}, fmt.Errorf("fetch question: %w", err)
	}
	if gen != c.generation {
		return domain.Question{}, ErrSessionReset
	}

	c.question = question
	c.state = StateAwaitingAnswer
	return question, nil
}

// SubmitAnswer verifies the chosen option for the outstanding question.
// Valid only while awaiting an answer: a second call while verifying or
// later is a no-op (ok=false), which shields the tally from double-clicks
// and replayed responses. A verification failure returns the session to
// awaiting so the caller can retry the same question.
func (c *Coordinator) SubmitAnswer(ctx context.Context, optionID int64) (domain.Verification, bool, error) {
	if c.state != StateAwaitingAnswer {
		return domain.Verification{}, false, nil
	}

	gen := c.generation
	questionID := c.question.ID
	c.state = StateVerifying

	verdict, err := c.provider.Verify(ctx, questionID, optionID)
	if err != nil {
		if gen == c.generation {
			c.state = StateAwaitingAnswer
		}
		return domain.Verification{}, false, fmt.Errorf("verify answer: %w", err)
	}

	return verdict, c.applyVerdict(gen, questionID, verdict), nil
}

// applyVerdict writes the counters exactly once per resolved question:
// stale generations are discarded and an already-counted question id is
// never counted again.
func (c *Coordinator) applyVerdict(gen uint64, questionID string, verdict domain.Verification) bool {
	if gen != c.generation {
		return false
	}
	if questionID == c.counted {
		return false
	}
	c.counted = questionID
	c.feedback = verdict
	c.tally.Total++
	if verdict.Correct {
		c.tally.Correct++
		c.state = StateFeedback
	} else {
		c.tally.Incorrect++
		c.state = StateGameOver
	}
	return true
}
