package domain

import "errors"

var (
	// ErrPlayerNotFound is returned when a name lookup misses. Expected
	// during sign-in; it triggers the create path.
	ErrPlayerNotFound = errors.New("player not found")
	// ErrReferralNotFound is returned when a referral code resolves to nobody.
	ErrReferralNotFound = errors.New("referral code not found")
	// ErrNameTaken indicates a create raced with an existing registration.
	ErrNameTaken = errors.New("player name already taken")
	// ErrInvalidName indicates an empty or unusable display name.
	ErrInvalidName = errors.New("invalid player name")
	// ErrInvalidScore indicates a score report outside the valid range.
	ErrInvalidScore = errors.New("invalid score")
	// ErrQuestionNotFound indicates a submitted question ID is unknown or expired.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrOptionNotFound indicates the submitted option was never offered.
	ErrOptionNotFound = errors.New("option not found")
	// ErrNoLocations indicates the location catalog is empty.
	ErrNoLocations = errors.New("no locations available")
)
