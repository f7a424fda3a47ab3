package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"powerball/internal/services"
)

func newTestRouter(t *testing.T) (*gin.Engine, *services.Game) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	game := services.NewGame()
	hub := NewHub(game, time.Second)
	router := gin.New()
	NewHTTPHandler(game, hub, "secret").RegisterRoutes(router)
	return router, game
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("%s %s: invalid JSON response %q", method, path, w.Body.String())
	}
	return w, resp
}

func TestJoinEndpoint(t *testing.T) {
	router, game := newTestRouter(t)

	t.Run("valid join", func(t *testing.T) {
		_, resp := doJSON(t, router, http.MethodPost, "/api/join",
			`{"name":"  Alice  ","numbers":[1,2,3,4,5],"powerball":7}`)
		if resp["success"] != true {
			t.Fatalf("response = %v", resp)
		}
		if resp["player_id"] == "" {
			t.Error("expected a player id")
		}
		snap := game.Snapshot()
		if snap.PlayerCount != 1 || snap.Players[0].Name != "Alice" {
			t.Errorf("snapshot = %+v", snap.Players)
		}
	})

	t.Run("validation failure names the rule", func(t *testing.T) {
		_, resp := doJSON(t, router, http.MethodPost, "/api/join",
			`{"name":"Bob","numbers":[1,2,3,4,4],"powerball":7}`)
		if resp["success"] != false || resp["error"] != "White ball numbers must be unique" {
			t.Errorf("response = %v", resp)
		}
	})

	t.Run("whitespace-only name is rejected", func(t *testing.T) {
		_, resp := doJSON(t, router, http.MethodPost, "/api/join",
			`{"name":"   ","numbers":[1,2,3,4,5],"powerball":7}`)
		if resp["success"] != false || resp["error"] != "Name is required" {
			t.Errorf("response = %v", resp)
		}
	})
}

func TestQuickPickEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	_, resp := doJSON(t, router, http.MethodGet, "/api/quickpick", "")
	numbers, ok := resp["numbers"].([]any)
	if !ok || len(numbers) != 5 {
		t.Errorf("response = %v", resp)
	}
}

func TestStateEndpoint(t *testing.T) {
	router, game := newTestRouter(t)
	if _, err := game.Join("Alice", []int{1, 2, 3, 4, 5}, 7); err != nil {
		t.Fatalf("Join() error = %v", err)
	}

	_, resp := doJSON(t, router, http.MethodGet, "/api/state", "")
	if resp["running"] != true || resp["player_count"] != float64(1) {
		t.Errorf("response = %v", resp)
	}
}

func TestAdminAuth(t *testing.T) {
	router, game := newTestRouter(t)
	id, err := game.Join("Alice", []int{1, 2, 3, 4, 5}, 7)
	if err != nil {
		t.Fatalf("Join() error = %v", err)
	}

	t.Run("wrong password is rejected", func(t *testing.T) {
		w, resp := doJSON(t, router, http.MethodPost, "/api/admin/remove",
			`{"password":"wrong","player_id":"`+id+`"}`)
		if w.Code != http.StatusUnauthorized || resp["success"] != false {
			t.Errorf("code=%d response=%v", w.Code, resp)
		}
		if game.Snapshot().PlayerCount != 1 {
			t.Error("rejected request must not mutate state")
		}
	})

	t.Run("correct password removes the player", func(t *testing.T) {
		_, resp := doJSON(t, router, http.MethodPost, "/api/admin/remove",
			`{"password":"secret","player_id":"`+id+`"}`)
		if resp["success"] != true {
			t.Fatalf("response = %v", resp)
		}
		if game.Snapshot().PlayerCount != 0 {
			t.Error("player should be removed")
		}
	})

	t.Run("unknown id reports failure", func(t *testing.T) {
		_, resp := doJSON(t, router, http.MethodPost, "/api/admin/remove",
			`{"password":"secret","player_id":"nope"}`)
		if resp["success"] != false || resp["error"] != "Player not found" {
			t.Errorf("response = %v", resp)
		}
	})
}

func TestAdminSpeedEndpoint(t *testing.T) {
	router, game := newTestRouter(t)
	_, resp := doJSON(t, router, http.MethodPost, "/api/admin/speed",
		`{"password":"secret","speed":99999}`)
	if resp["success"] != true || resp["speed"] != float64(10000) {
		t.Errorf("response = %v", resp)
	}
	if game.Snapshot().Speed != 10000 {
		t.Errorf("speed = %d, want clamped 10000", game.Snapshot().Speed)
	}
}

func TestMillionAckEndpoint(t *testing.T) {
	router, game := newTestRouter(t)
	if _, err := game.Join("Alice", []int{1, 2, 3, 4, 5}, 7); err != nil {
		t.Fatalf("Join() error = %v", err)
	}

	_, resp := doJSON(t, router, http.MethodPost, "/api/million/ack", `{}`)
	if resp["success"] != true {
		t.Fatalf("response = %v", resp)
	}
	if game.Snapshot().MillionWinPending {
		t.Error("flag should be clear")
	}
}
