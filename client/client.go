// Package client is a typed Go client for the card score REST API.
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

	"cardscore/models"
	"cardscore/scoring"
	"cardscore/services"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api status %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client for the API rooted at baseURL, for example
// "http://localhost:5001/api".
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 8 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) ListPlayers(ctx context.Context) ([]models.Player, error) {
	var players []models.Player
	err := c.do(ctx, http.MethodGet, "/players", nil, &players)
	return players, err
}

func (c *Client) CreatePlayer(ctx context.Context, name string) (*models.Player, error) {
	var player models.Player
	if err := c.do(ctx, http.MethodPost, "/players", services.CreatePlayerRequest{Name: name}, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (c *Client) DeletePlayer(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/players/%d", id), nil, nil)
}

func (c *Client) ListGames(ctx context.Context, activeOnly bool) ([]services.GameSummary, error) {
	path := "/games"
	if activeOnly {
		path += "?" + url.Values{"active": {"true"}}.Encode()
	}
	var games []services.GameSummary
	err := c.do(ctx, http.MethodGet, path, nil, &games)
	return games, err
}

func (c *Client) GetGame(ctx context.Context, id uint) (*services.GameState, error) {
	var game services.GameState
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/games/%d", id), nil, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

// CreateGame starts a game. targetScore must be nil for Five Crowns.
func (c *Client) CreateGame(ctx context.Context, gameType scoring.GameType, playerIDs []uint, targetScore *int) (*services.GameState, error) {
	req := services.CreateGameRequest{
		GameType:    string(gameType),
		PlayerIDs:   playerIDs,
		TargetScore: targetScore,
	}
	var game services.GameState
	if err := c.do(ctx, http.MethodPost, "/games", req, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

type submitRoundBody struct {
	Round   int             `json:"round"`
	Scores  map[string]int  `json:"scores"`
	WentOut map[string]bool `json:"went_out,omitempty"`
}

func (c *Client) SubmitRound(ctx context.Context, gameID uint, round int, scores scoring.Scores, wentOut scoring.WentOut) (*services.GameState, error) {
	body := submitRoundBody{Round: round, Scores: make(map[string]int, len(scores))}
	for id, points := range scores {
		body.Scores[strconv.FormatUint(uint64(id), 10)] = points
	}
	if len(wentOut) > 0 {
		body.WentOut = make(map[string]bool, len(wentOut))
		for id, out := range wentOut {
			body.WentOut[strconv.FormatUint(uint64(id), 10)] = out
		}
	}

	var game services.GameState
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/games/%d/score", gameID), body, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

func (c *Client) DeleteGame(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/games/%d", id), nil, nil)
}

func (c *Client) Leaderboard(ctx context.Context) ([]services.LeaderboardEntry, error) {
	var board []services.LeaderboardEntry
	err := c.do(ctx, http.MethodGet, "/stats/leaderboard", nil, &board)
	return board, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: "Request failed"}
		var payload struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
			apiErr.Message = payload.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
