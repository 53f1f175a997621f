package domain

import (
	"strings"
	"time"
)

// Player is a registered quiz player. Names are unique with exact-case
// matching; the referral code never changes once assigned.
type Player struct {
	ID           int64  `json:"id"`
	Name         string `json:"player_name"`
	ReferralCode string `json:"referral_code"`
	BestScore    int    `json:"best_score"`
}

// Location is one catalog entry questions are built from.
type Location struct {
	ID       int64    `json:"id"`
	Name     string   `json:"location_name"`
	Nation   string   `json:"nation"`
	Clues    []string `json:"clues"`
	FunFacts []string `json:"fun_facts"`
	Trivia   []string `json:"trivia"`
}

// Option is a multiple-choice candidate presented to the client.
type Option struct {
	ID     int64  `json:"id"`
	Label  string `json:"location_name"`
	Nation string `json:"nation"`
}

// Question is the client-facing view of an issued question. The correct
// option stays server-side until the answer is verified.
type Question struct {
	ID      string   `json:"id"`
	Clues   []string `json:"clues"`
	Options []Option `json:"options"`
}

// IssuedQuestion is the server-side record backing a Question. It is kept
// until it expires so that re-verifying the same pair stays deterministic.
type IssuedQuestion struct {
	ID         string  `json:"id"`
	CorrectID  int64   `json:"correct_id"`
	OptionIDs  []int64 `json:"option_ids"`
	FunFact    string  `json:"fun_fact"`
	TriviaNote string  `json:"trivia_note"`
}

// Verification is the verdict for a submitted (question, option) pair.
type Verification struct {
	QuestionID string `json:"question_id"`
	Correct    bool   `json:"is_correct"`
	FunFact    string `json:"fun_fact"`
	TriviaNote string `json:"trivia_note"`
}

// ScoreUpdate reports the outcome of a best-score reconciliation.
type ScoreUpdate struct {
	PlayerName   string `json:"player_name"`
	BestScore    int    `json:"best_score"`
	PersonalBest bool   `json:"is_personal_best"`
}

// LeaderboardEntry is a snapshot-friendly view of a player's record.
type LeaderboardEntry struct {
	PlayerName string `json:"player_name"`
	BestScore  int    `json:"best_score"`
}

// Leaderboard captures the top best scores at a point in time.
type Leaderboard struct {
	Entries   []LeaderboardEntry `json:"entries"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// CanonicalName applies the single canonicalization rule used by every
// lookup and create path: trim surrounding whitespace, match exact case.
func CanonicalName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", ErrInvalidName
	}
	return name, nil
}
