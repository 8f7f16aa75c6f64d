package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cardscore/cache"
	"cardscore/handlers"
	"cardscore/routes"
	"cardscore/scoring"
	"cardscore/services"
	"cardscore/store"

	"github.com/gin-gonic/gin"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.NewMemoryStore()
	router := gin.New()
	routes.SetupRoutes(router,
		handlers.NewPlayerHandler(services.NewPlayerService(st)),
		handlers.NewGameHandler(services.NewGameService(st, cache.Nop{}, scoring.TieBreakSeatOrder, 0)),
		handlers.NewStatsHandler(services.NewStatsService(st, cache.Nop{}, scoring.TieBreakSeatOrder, 0)),
	)
	return router
}

func do(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	decode(t, w, &body)
	return body.Error
}

// startGame registers two players and opens a game, returning its id and
// the player ids.
func startGame(t *testing.T, router *gin.Engine, gameType string, target string) (uint, uint, uint) {
	t.Helper()
	var ids []uint
	for _, name := range []string{"Ann", "Bob"} {
		w := do(t, router, http.MethodPost, "/api/players", fmt.Sprintf(`{"name":%q}`, name))
		if w.Code != http.StatusCreated {
			t.Fatalf("create player: %d %s", w.Code, w.Body.String())
		}
		var p struct {
			ID uint `json:"id"`
		}
		decode(t, w, &p)
		ids = append(ids, p.ID)
	}

	body := fmt.Sprintf(`{"game_type":%q,"player_ids":[%d,%d],"target_score":%s}`, gameType, ids[0], ids[1], target)
	w := do(t, router, http.MethodPost, "/api/games", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create game: %d %s", w.Code, w.Body.String())
	}
	var g struct {
		ID uint `json:"id"`
	}
	decode(t, w, &g)
	return g.ID, ids[0], ids[1]
}

func TestHealth(t *testing.T) {
	router := newRouter(t)
	for _, path := range []string{"/health", "/api/health"} {
		if w := do(t, router, http.MethodGet, path, ""); w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, w.Code)
		}
	}
}

func TestGameTypes(t *testing.T) {
	router := newRouter(t)
	w := do(t, router, http.MethodGet, "/api/game-types", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var types []map[string]any
	decode(t, w, &types)
	if len(types) != 3 || types[0]["key"] != "five_crowns" || types[0]["scoring"] != "low_wins" {
		t.Fatalf("unexpected game types %v", types)
	}
}

func TestPlayerEndpoints(t *testing.T) {
	router := newRouter(t)

	if w := do(t, router, http.MethodPost, "/api/players", `{}`); w.Code != http.StatusBadRequest {
		t.Fatalf("missing name: expected 400, got %d", w.Code)
	}
	if w := do(t, router, http.MethodPost, "/api/players", `{"name":"   "}`); w.Code != http.StatusBadRequest {
		t.Fatalf("blank name: expected 400, got %d", w.Code)
	}
	if w := do(t, router, http.MethodPost, "/api/players", `{"name":"Ann"}`); w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", w.Code)
	}
	if w := do(t, router, http.MethodPost, "/api/players", `{"name":"ANN"}`); w.Code != http.StatusConflict {
		t.Fatalf("duplicate: expected 409, got %d", w.Code)
	}
	if w := do(t, router, http.MethodGet, "/api/players/abc", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("bad id: expected 400, got %d", w.Code)
	}
	if w := do(t, router, http.MethodGet, "/api/players/99", ""); w.Code != http.StatusNotFound {
		t.Fatalf("missing: expected 404, got %d", w.Code)
	}
	if w := do(t, router, http.MethodDelete, "/api/players/1", ""); w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", w.Code)
	}

	w := do(t, router, http.MethodGet, "/api/players", "")
	var players []any
	decode(t, w, &players)
	if len(players) != 0 {
		t.Fatalf("expected empty player list, got %v", players)
	}
}

func TestDeletePlayerWithHistory(t *testing.T) {
	router := newRouter(t)
	_, ann, _ := startGame(t, router, "five_crowns", "null")

	w := do(t, router, http.MethodDelete, fmt.Sprintf("/api/players/%d", ann), "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if msg := errorMessage(t, w); !strings.Contains(msg, "game history") {
		t.Fatalf("unexpected error %q", msg)
	}
}

func TestCreateGameErrors(t *testing.T) {
	router := newRouter(t)
	_, ann, bob := startGame(t, router, "five_crowns", "null")

	tests := []struct {
		name string
		body string
	}{
		{"unknown type", fmt.Sprintf(`{"game_type":"poker","player_ids":[%d,%d]}`, ann, bob)},
		{"too few players", fmt.Sprintf(`{"game_type":"five_crowns","player_ids":[%d]}`, ann)},
		{"missing target", fmt.Sprintf(`{"game_type":"gin_rummy","player_ids":[%d,%d]}`, ann, bob)},
		{"no body", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, http.MethodPost, "/api/games", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d %s", w.Code, w.Body.String())
			}
			if errorMessage(t, w) == "" {
				t.Fatal("expected error message")
			}
		})
	}
}

func TestSubmitScoreErrors(t *testing.T) {
	router := newRouter(t)
	gameID, ann, bob := startGame(t, router, "gin_rummy", "100")
	path := fmt.Sprintf("/api/games/%d/score", gameID)

	tests := []struct {
		name   string
		body   string
		status int
		want   string
	}{
		{"missing round", fmt.Sprintf(`{"scores":{"%d":1,"%d":2}}`, ann, bob), http.StatusBadRequest, ""},
		{"wrong round", fmt.Sprintf(`{"round":2,"scores":{"%d":1,"%d":2}}`, ann, bob), http.StatusBadRequest, "expected round 1"},
		{"missing player", fmt.Sprintf(`{"round":1,"scores":{"%d":1}}`, ann), http.StatusBadRequest, "all players"},
		{"string score", fmt.Sprintf(`{"round":1,"scores":{"%d":"ten","%d":2}}`, ann, bob), http.StatusBadRequest, "integer"},
		{"stranger", fmt.Sprintf(`{"round":1,"scores":{"%d":1,"%d":2,"77":3}}`, ann, bob), http.StatusBadRequest, "not part"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, http.MethodPost, path, tt.body)
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d %s", tt.status, w.Code, w.Body.String())
			}
			if msg := errorMessage(t, w); !strings.Contains(msg, tt.want) {
				t.Fatalf("expected error containing %q, got %q", tt.want, msg)
			}
		})
	}

	if w := do(t, router, http.MethodPost, "/api/games/999/score", `{"round":1,"scores":{}}`); w.Code != http.StatusNotFound {
		t.Fatalf("missing game: expected 404, got %d", w.Code)
	}
}

func TestSubmitScoreFinishesGame(t *testing.T) {
	router := newRouter(t)
	gameID, ann, bob := startGame(t, router, "gin_rummy", "100")
	path := fmt.Sprintf("/api/games/%d/score", gameID)

	w := do(t, router, http.MethodPost, path, fmt.Sprintf(`{"round":1,"scores":{"%d":60,"%d":20}}`, ann, bob))
	if w.Code != http.StatusOK {
		t.Fatalf("round 1: %d %s", w.Code, w.Body.String())
	}
	w = do(t, router, http.MethodPost, path, fmt.Sprintf(`{"round":2,"scores":{"%d":50,"%d":10}}`, ann, bob))
	if w.Code != http.StatusOK {
		t.Fatalf("round 2: %d %s", w.Code, w.Body.String())
	}

	var state struct {
		IsActive     bool           `json:"is_active"`
		Totals       map[string]int `json:"totals"`
		CurrentRound int            `json:"current_round"`
		WinnerIDs    []uint         `json:"winner_ids"`
		Rounds       map[string]any `json:"rounds"`
	}
	decode(t, w, &state)
	if state.IsActive || state.Totals[fmt.Sprint(ann)] != 110 || state.CurrentRound != 3 {
		t.Fatalf("unexpected state %+v", state)
	}
	if len(state.WinnerIDs) != 1 || state.WinnerIDs[0] != ann {
		t.Fatalf("expected Ann to win, got %v", state.WinnerIDs)
	}
	if len(state.Rounds) != 2 {
		t.Fatalf("expected two rounds, got %v", state.Rounds)
	}

	w = do(t, router, http.MethodPost, path, fmt.Sprintf(`{"round":3,"scores":{"%d":0,"%d":0}}`, ann, bob))
	if w.Code != http.StatusBadRequest || !strings.Contains(errorMessage(t, w), "already finished") {
		t.Fatalf("expected finished game rejection, got %d %s", w.Code, w.Body.String())
	}

	w = do(t, router, http.MethodGet, "/api/games?active=true", "")
	var active []any
	decode(t, w, &active)
	if len(active) != 0 {
		t.Fatalf("expected no active games, got %v", active)
	}

	w = do(t, router, http.MethodGet, "/api/stats/leaderboard", "")
	var board []map[string]any
	decode(t, w, &board)
	if len(board) != 2 || board[0]["name"] != "Ann" || board[0]["win_rate"] != float64(100) {
		t.Fatalf("unexpected leaderboard %v", board)
	}

	if w := do(t, router, http.MethodDelete, fmt.Sprintf("/api/games/%d", gameID), ""); w.Code != http.StatusOK {
		t.Fatalf("delete game: expected 200, got %d", w.Code)
	}
	if w := do(t, router, http.MethodGet, fmt.Sprintf("/api/games/%d", gameID), ""); w.Code != http.StatusNotFound {
		t.Fatalf("deleted game: expected 404, got %d", w.Code)
	}
}
