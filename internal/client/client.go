// Package client is the REST implementation of the game core's ports.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prash240303/Globetrotter/internal/domain"
	"github.com/prash240303/Globetrotter/internal/game"
)

// Client talks to the quiz server's REST API. The zero timeout of the
// default client is replaced so a dead server surfaces as a transport
// failure instead of a hang.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// NewWithHTTPClient is for tests that need a custom transport.
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	c := New(baseURL)
	c.http = httpClient
	return c
}

var (
	_ game.QuestionProvider = (*Client)(nil)
	_ game.PlayerDirectory  = (*Client)(nil)
	_ game.ScoreDirectory   = (*Client)(nil)
)

func (c *Client) NextQuestion(ctx context.Context) (domain.Question, error) {
	var question domain.Question
	err := c.get(ctx, "/api/quiz/question", &question, nil)
	return question, err
}

func (c *Client) Verify(ctx context.Context, questionID string, optionID int64) (domain.Verification, error) {
	var verdict domain.Verification
	path := "/api/quiz/verify/" + url.PathEscape(questionID) + "/" + strconv.FormatInt(optionID, 10)
	err := c.get(ctx, path, &verdict, map[int]error{
		http.StatusNotFound:   domain.ErrQuestionNotFound,
		http.StatusBadRequest: domain.ErrOptionNotFound,
	})
	return verdict, err
}

func (c *Client) PlayerByName(ctx context.Context, name string) (domain.Player, error) {
	var player domain.Player
	err := c.get(ctx, "/api/players/name/"+url.PathEscape(name), &player, map[int]error{
		http.StatusNotFound: domain.ErrPlayerNotFound,
	})
	return player, err
}

func (c *Client) PlayerByCode(ctx context.Context, code string) (domain.Player, error) {
	var player domain.Player
	err := c.get(ctx, "/api/players/code/"+url.PathEscape(code), &player, map[int]error{
		http.StatusNotFound: domain.ErrReferralNotFound,
	})
	return player, err
}

func (c *Client) CreatePlayer(ctx context.Context, name string) (domain.Player, error) {
	var player domain.Player
	err := c.send(ctx, http.MethodPost, "/api/players",
		map[string]string{"player_name": name}, &player, map[int]error{
			http.StatusConflict:   domain.ErrNameTaken,
			http.StatusBadRequest: domain.ErrInvalidName,
		})
	return player, err
}

func (c *Client) UpdateScore(ctx context.Context, name string, score int) (domain.ScoreUpdate, error) {
	var update domain.ScoreUpdate
	err := c.send(ctx, http.MethodPut, "/api/players/score",
		map[string]any{"player_name": name, "score": score}, &update, nil)
	return update, err
}

func (c *Client) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	var entries []domain.LeaderboardEntry
	err := c.get(ctx, "/api/leaderboard?limit="+strconv.Itoa(limit), &entries, nil)
	return entries, err
}

func (c *Client) get(ctx context.Context, path string, out any, statusErrs map[int]error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out, statusErrs)
}

func (c *Client) send(ctx context.Context, method, path string, body, out any, statusErrs map[int]error) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out, statusErrs)
}

func (c *Client) do(req *http.Request, out any, statusErrs map[int]error) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		if mapped, ok := statusErrs[resp.StatusCode]; ok {
			return mapped
		}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
