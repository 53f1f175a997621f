package game

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/prash240303/Globetrotter/internal/domain"
)

type fakePlayerDirectory struct {
	players map[string]domain.Player
	codes   map[string]string

	lookupErr error
	createErr error
	onCreate  func()
	creates   int
}

func newFakePlayerDirectory() *fakePlayerDirectory {
	return &fakePlayerDirectory{
		players: make(map[string]domain.Player),
		codes:   make(map[string]string),
	}
}

func (f *fakePlayerDirectory) add(p domain.Player) {
	f.players[p.Name] = p
	f.codes[p.ReferralCode] = p.Name
}

func (f *fakePlayerDirectory) PlayerByName(_ context.Context, name string) (domain.Player, error) {
	if f.lookupErr != nil {
		return domain.Player{}, f.lookupErr
	}
	p, ok := f.players[name]
	if !ok {
		return domain.Player{}, domain.ErrPlayerNotFound
	}
	return p, nil
}

func (f *fakePlayerDirectory) PlayerByCode(_ context.Context, code string) (domain.Player, error) {
	if f.lookupErr != nil {
		return domain.Player{}, f.lookupErr
	}
	name, ok := f.codes[code]
	if !ok {
		return domain.Player{}, domain.ErrReferralNotFound
	}
	return f.players[name], nil
}

func (f *fakePlayerDirectory) CreatePlayer(_ context.Context, name string) (domain.Player, error) {
	f.creates++
	if f.onCreate != nil {
		f.onCreate()
	}
	if f.createErr != nil {
		return domain.Player{}, f.createErr
	}
	if _, ok := f.players[name]; ok {
		return domain.Player{}, domain.ErrNameTaken
	}
	p := domain.Player{ID: int64(len(f.players) + 1), Name: name, ReferralCode: "code-" + name}
	f.add(p)
	return p, nil
}

type memoryEnvironment struct {
	origin    string
	name      string
	clipboard []string
	clipErr   error
}

func (e *memoryEnvironment) Origin() string           { return e.origin }
func (e *memoryEnvironment) StoredPlayerName() string { return e.name }
func (e *memoryEnvironment) StorePlayerName(name string) error {
	e.name = name
	return nil
}
func (e *memoryEnvironment) WriteClipboard(text string) error {
	if e.clipErr != nil {
		return e.clipErr
	}
	e.clipboard = append(e.clipboard, text)
	return nil
}

func newTestLinker(directory *fakePlayerDirectory, env *memoryEnvironment) *Linker {
	return NewLinker(directory, env, zerolog.Nop())
}

func TestMintLink(t *testing.T) {
	env := &memoryEnvironment{origin: "https://globetrotter.example"}
	linker := newTestLinker(newFakePlayerDirectory(), env)

	link := linker.MintLink("ab12cd34")
	if link != "https://globetrotter.example?code=ab12cd34" {
		t.Fatalf("unexpected link %q", link)
	}
}

func TestShareChallengeCopiesLink(t *testing.T) {
	env := &memoryEnvironment{origin: "https://globetrotter.example"}
	linker := newTestLinker(newFakePlayerDirectory(), env)

	link, err := linker.ShareChallenge(domain.Player{Name: "Ada", ReferralCode: "ab12cd34"})
	if err != nil {
		t.Fatalf("share: %v", err)
	}
	if len(env.clipboard) != 1 || env.clipboard[0] != link {
		t.Fatalf("expected link on clipboard, got %+v", env.clipboard)
	}

	env.clipErr = errors.New("no clipboard")
	link, err = linker.ShareChallenge(domain.Player{Name: "Ada", ReferralCode: "ab12cd34"})
	if err == nil {
		t.Fatalf("expected clipboard failure")
	}
	if link == "" {
		t.Fatalf("link must be returned even when the clipboard fails")
	}
}

func TestResolveInviterAbsentIsNotAnError(t *testing.T) {
	linker := newTestLinker(newFakePlayerDirectory(), &memoryEnvironment{})

	_, ok, err := linker.ResolveInviter(context.Background(), "zzz999")
	if err != nil {
		t.Fatalf("unknown code must not error: %v", err)
	}
	if ok {
		t.Fatalf("expected absent inviter")
	}
}

func TestResolveInviterTransportFailureIsDistinct(t *testing.T) {
	directory := newFakePlayerDirectory()
	directory.lookupErr = errors.New("timeout")
	linker := newTestLinker(directory, &memoryEnvironment{})

	_, ok, err := linker.ResolveInviter(context.Background(), "ab12cd34")
	if err == nil || ok {
		t.Fatalf("expected transport failure, got ok=%v err=%v", ok, err)
	}
}

func TestResolveInviterFindsIssuer(t *testing.T) {
	directory := newFakePlayerDirectory()
	directory.add(domain.Player{ID: 1, Name: "Ada", ReferralCode: "ab12cd34", BestScore: 7})
	linker := newTestLinker(directory, &memoryEnvironment{})

	inviter, ok, err := linker.ResolveInviter(context.Background(), "ab12cd34")
	if err != nil || !ok {
		t.Fatalf("resolve: ok=%v err=%v", ok, err)
	}
	if inviter.Name != "Ada" || inviter.BestScore != 7 {
		t.Fatalf("unexpected inviter %+v", inviter)
	}
}

func TestSignInCreatesOnCleanMiss(t *testing.T) {
	directory := newFakePlayerDirectory()
	env := &memoryEnvironment{}
	linker := newTestLinker(directory, env)

	player, err := linker.SignIn(context.Background(), " Ada ")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if player.Name != "Ada" {
		t.Fatalf("expected canonical Ada, got %q", player.Name)
	}
	if env.name != "Ada" {
		t.Fatalf("expected persisted name, got %q", env.name)
	}
}

func TestSignInReturnsExistingPlayer(t *testing.T) {
	directory := newFakePlayerDirectory()
	directory.add(domain.Player{ID: 1, Name: "Bob", ReferralCode: "bob123", BestScore: 4})
	linker := newTestLinker(directory, &memoryEnvironment{})

	player, err := linker.SignIn(context.Background(), "Bob")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if player.ReferralCode != "bob123" || player.BestScore != 4 {
		t.Fatalf("expected existing Bob, got %+v", player)
	}
	if directory.creates != 0 {
		t.Fatalf("lookup hit must not create")
	}
}

func TestSignInRecoversFromCreateConflict(t *testing.T) {
	directory := newFakePlayerDirectory()
	// A concurrent client registers Bob between our lookup and our create:
	// the create conflicts, and the recovery lookup finds the winner's record.
	directory.onCreate = func() {
		directory.add(domain.Player{ID: 1, Name: "Bob", ReferralCode: "bob123"})
	}
	linker := newTestLinker(directory, &memoryEnvironment{})

	player, err := linker.SignIn(context.Background(), "Bob")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if player.ReferralCode != "bob123" {
		t.Fatalf("expected convergence on existing Bob, got %+v", player)
	}
}

func TestSignInSurfacesFailedConflictRecovery(t *testing.T) {
	directory := newFakePlayerDirectory()
	directory.onCreate = func() {
		directory.add(domain.Player{ID: 1, Name: "Bob", ReferralCode: "bob123"})
		directory.lookupErr = errors.New("connection reset")
	}
	linker := newTestLinker(directory, &memoryEnvironment{})

	if _, err := linker.SignIn(context.Background(), "Bob"); err == nil {
		t.Fatalf("expected surfaced error when the recovery lookup fails")
	}
}

func TestSignInEmptyNameRejected(t *testing.T) {
	linker := newTestLinker(newFakePlayerDirectory(), &memoryEnvironment{})
	if _, err := linker.SignIn(context.Background(), "   "); !errors.Is(err, domain.ErrInvalidName) {
		t.Fatalf("expected invalid name, got %v", err)
	}
}

func TestSignInSurfacesTransportFailure(t *testing.T) {
	directory := newFakePlayerDirectory()
	directory.lookupErr = errors.New("connection refused")
	linker := newTestLinker(directory, &memoryEnvironment{})

	if _, err := linker.SignIn(context.Background(), "Ada"); err == nil {
		t.Fatalf("expected transport failure")
	}
}
