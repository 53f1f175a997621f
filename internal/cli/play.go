package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/prash240303/Globetrotter/internal/client"
	"github.com/prash240303/Globetrotter/internal/domain"
	"github.com/prash240303/Globetrotter/internal/game"
)

// NewPlayCmd runs a terminal play-through against a quiz server.
func NewPlayCmd() *cobra.Command {
	var serverURL, inviteCode string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a quiz session in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), serverURL, inviteCode, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "quiz server base URL")
	cmd.Flags().StringVar(&inviteCode, "code", "", "referral code from a challenge link")
	return cmd
}

func runPlay(ctx context.Context, serverURL, inviteCode string, in io.Reader, out io.Writer) error {
	api := client.New(serverURL)
	env := newTerminalEnvironment(serverURL, out)
	linker := game.NewLinker(api, env, log.With().Str("component", "linker").Logger())
	reader := bufio.NewReader(in)

	if inviteCode != "" {
		if inviter, ok, err := linker.ResolveInviter(ctx, inviteCode); err == nil && ok {
			fmt.Fprintf(out, "You've been challenged by %s! Their high score: %d\n\n", inviter.Name, inviter.BestScore)
		}
	}

	name, ok := linker.StoredSignIn()
	if !ok {
		fmt.Fprint(out, "Enter your explorer name: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		name = strings.TrimSpace(line)
	}

	player, err := linker.SignIn(ctx, name)
	if err != nil {
		return fmt.Errorf("sign in failed: %w", err)
	}
	fmt.Fprintf(out, "Welcome, %s! Personal best: %d\n\n", player.Name, player.BestScore)

	reconciler := game.NewReconciler(api)
	reconciler.OnPersonalBest(func(update domain.ScoreUpdate) {
		fmt.Fprintf(out, "\n*** New personal best: %d! ***\n", update.BestScore)
	})

	for {
		if err := playSession(ctx, api, reconciler, linker, player, reader, out); err != nil {
			return err
		}
		fmt.Fprint(out, "\nPlay again? [y/N] ")
		line, err := reader.ReadString('\n')
		if err != nil || !strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "y") {
			return nil
		}
		fmt.Fprintln(out)
	}
}

func playSession(ctx context.Context, api *client.Client, reconciler *game.Reconciler, linker *game.Linker, player domain.Player, reader *bufio.Reader, out io.Writer) error {
	session := game.NewCoordinator(api)
	session.Start()

	for session.Active() {
		question, err := session.RequestQuestion(ctx)
		if err != nil {
			if !askRetry(reader, out, "Could not fetch a question") {
				return nil
			}
			continue
		}

		fmt.Fprintln(out, "Where in the world is this?")
		for _, clue := range question.Clues {
			fmt.Fprintf(out, "  * %s\n", clue)
		}
		for i, option := range question.Options {
			fmt.Fprintf(out, "  [%d] %s, %s\n", i+1, option.Label, option.Nation)
		}

		option, ok := readChoice(reader, out, question.Options)
		if !ok {
			return nil
		}

		// A verify failure leaves the question answerable, so retry the
		// same submission rather than asking for a new question.
		verdict, _, err := session.SubmitAnswer(ctx, option.ID)
		for err != nil {
			if !askRetry(reader, out, "Could not verify the answer") {
				return nil
			}
			verdict, _, err = session.SubmitAnswer(ctx, option.ID)
		}
		if verdict.Correct {
			fmt.Fprintf(out, "Correct! %s\n\n", verdict.FunFact)
		} else {
			fmt.Fprintf(out, "Wrong! %s\n", verdict.FunFact)
		}
	}

	tally := session.Tally()
	fmt.Fprintf(out, "\nGame over. Correct: %d  Incorrect: %d  Total: %d\n", tally.Correct, tally.Incorrect, tally.Total)

	for {
		update, err := reconciler.Reconcile(ctx, player.Name, tally.Correct)
		if err != nil {
			if askRetry(reader, out, "Could not save your score") {
				continue
			}
			fmt.Fprintf(out, "Score not saved; this session's count stays at %d.\n", tally.Correct)
			return nil
		}
		fmt.Fprintf(out, "Best score on record: %d\n", update.BestScore)
		break
	}

	if link, err := linker.ShareChallenge(player); err == nil {
		fmt.Fprintf(out, "Challenge your friends: %s\n", link)
	}
	return nil
}

func readChoice(reader *bufio.Reader, out io.Writer, options []domain.Option) (domain.Option, bool) {
	for {
		fmt.Fprint(out, "Your answer: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return domain.Option{}, false
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil && n >= 1 && n <= len(options) {
			return options[n-1], true
		}
		fmt.Fprintf(out, "Pick a number between 1 and %d.\n", len(options))
	}
}

func askRetry(reader *bufio.Reader, out io.Writer, what string) bool {
	fmt.Fprintf(out, "%s. Retry? [y/N] ", what)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "y")
}

// terminalEnvironment adapts the process environment to game.Environment:
// the server URL stands in for the page origin, the sign-in name persists
// in the user's home directory, and the clipboard degrades to stdout.
type terminalEnvironment struct {
	origin   string
	namePath string
	out      io.Writer
}

func newTerminalEnvironment(origin string, out io.Writer) *terminalEnvironment {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &terminalEnvironment{
		origin:   origin,
		namePath: filepath.Join(home, ".globetrotter", "player"),
		out:      out,
	}
}

func (e *terminalEnvironment) Origin() string { return e.origin }

func (e *terminalEnvironment) StoredPlayerName() string {
	data, err := os.ReadFile(e.namePath)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func (e *terminalEnvironment) StorePlayerName(name string) error {
	if err := os.MkdirAll(filepath.Dir(e.namePath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(e.namePath, []byte(name+"\n"), 0o600)
}

func (e *terminalEnvironment) WriteClipboard(text string) error {
	// No clipboard in a terminal session; surfacing the link is enough.
	_, err := fmt.Fprintf(e.out, "(copy this link) %s\n", text)
	return err
}
