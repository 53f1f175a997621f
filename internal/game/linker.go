package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/prash240303/Globetrotter/internal/domain"
)

// PlayerDirectory is the linker's port to the player directory.
type PlayerDirectory interface {
	PlayerByName(ctx context.Context, name string) (domain.Player, error)
	PlayerByCode(ctx context.Context, code string) (domain.Player, error)
	CreatePlayer(ctx context.Context, name string) (domain.Player, error)
}

// Environment is the capability the linker needs from its surroundings:
// the current origin, the persisted sign-in name, and a clipboard.
type Environment interface {
	Origin() string
	StoredPlayerName() string
	StorePlayerName(name string) error
	WriteClipboard(text string) error
}

// Linker turns a played session into an invite link and an invite link
// back into an inviter identity. It also owns the sign-in flow.
type Linker struct {
	directory PlayerDirectory
	env       Environment
	log       zerolog.Logger
}

func NewLinker(directory PlayerDirectory, env Environment, log zerolog.Logger) *Linker {
	return &Linker{directory: directory, env: env, log: log}
}

// MintLink builds the shareable challenge URL from a referral code. Pure
// construction; no network involved.
func (l *Linker) MintLink(referralCode string) string {
	return l.env.Origin() + "?code=" + referralCode
}

// ShareChallenge mints the player's challenge link and copies it to the
// clipboard. The link is returned either way; a clipboard failure only
// means the caller must present it some other way.
func (l *Linker) ShareChallenge(player domain.Player) (string, error) {
	link := l.MintLink(player.ReferralCode)
	if err := l.env.WriteClipboard(link); err != nil {
		return link, fmt.Errorf("copy challenge link: %w", err)
	}
	return link, nil
}

// ResolveInviter looks up the player behind a referral code. An unknown
// code is a normal outcome (no banner), reported as ok=false with a nil
// error. A transport failure is logged and returned distinctly; the
// banner is non-critical, so callers typically treat it as absent.
func (l *Linker) ResolveInviter(ctx context.Context, code string) (domain.Player, bool, error) {
	inviter, err := l.directory.PlayerByCode(ctx, code)
	if errors.Is(err, domain.ErrReferralNotFound) {
		return domain.Player{}, false, nil
	}
	if err != nil {
		l.log.Warn().Err(err).Str("code", code).Msg("inviter lookup failed")
		return domain.Player{}, false, fmt.Errorf("resolve inviter: %w", err)
	}
	return inviter, true, nil
}

// SignIn resolves a display name to a player, creating the record on a
// clean miss. Lookup always runs first so two clients racing on the same
// name converge on one record: a create conflict is treated as "the name
// is someone's sign-in" and resolved with a second lookup. Only if that
// lookup also fails is the error surfaced.
func (l *Linker) SignIn(ctx context.Context, rawName string) (domain.Player, error) {
	name, err := domain.CanonicalName(rawName)
	if err != nil {
		return domain.Player{}, err
	}

	player, err := l.directory.PlayerByName(ctx, name)
	if err == nil {
		l.remember(name)
		return player, nil
	}
	if !errors.Is(err, domain.ErrPlayerNotFound) {
		return domain.Player{}, fmt.Errorf("sign in: %w", err)
	}

	player, err = l.directory.CreatePlayer(ctx, name)
	if err == nil {
		l.remember(name)
		return player, nil
	}
	if !errors.Is(err, domain.ErrNameTaken) {
		return domain.Player{}, fmt.Errorf("sign in: %w", err)
	}

	player, err = l.directory.PlayerByName(ctx, name)
	if err != nil {
		return domain.Player{}, fmt.Errorf("sign in after name conflict: %w", err)
	}
	l.remember(name)
	return player, nil
}

// StoredSignIn returns the persisted name from a previous visit, if any.
func (l *Linker) StoredSignIn() (string, bool) {
	name := l.env.StoredPlayerName()
	return name, name != ""
}

func (l *Linker) remember(name string) {
	if err := l.env.StorePlayerName(name); err != nil {
		l.log.Warn().Err(err).Msg("persist player name failed")
	}
}
