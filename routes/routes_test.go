package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Dosada05/mixups/brackets"
	"github.com/Dosada05/mixups/handlers"
	"github.com/Dosada05/mixups/metrics"
	"github.com/Dosada05/mixups/models"
	"github.com/Dosada05/mixups/repositories"
	"github.com/Dosada05/mixups/services"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	*httptest.Server
	hub     *brackets.Hub
	stopHub context.CancelFunc
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := repositories.NewMemoryStore()
	registry := prometheus.NewRegistry()
	recorder := metrics.New(registry)

	ctx, cancel := context.WithCancel(context.Background())
	hub := brackets.NewHub(logger)
	go hub.Run(ctx)

	gen, err := brackets.NewGenerator(models.ScheduleRotation, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)

	ts := services.NewTournamentService(store.Tournaments(), store.Matches(), gen, recorder, logger)
	ms := services.NewMatchService(store.Tournaments(), store.Matches(), hub, recorder, logger)
	ss := services.NewStatsService(store.Tournaments(), store.Matches(), logger)
	sh := services.NewShareService(store.Tournaments(), store.Matches(), nil, hub, logger)

	router := chi.NewRouter()
	SetupRoutes(router, Options{
		Logger:             logger,
		CORSAllowedOrigins: []string{"*"},
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	},
		handlers.NewTournamentHandler(ts, ss, sh),
		handlers.NewMatchHandler(ms),
		handlers.NewWebSocketHandler(hub, ts, []string{"*"}),
	)

	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return &testServer{Server: srv, hub: hub, stopHub: cancel}
}

func (s *testServer) do(t *testing.T, method, path, body string) (*http.Response, map[string]json.RawMessage) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, s.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]json.RawMessage
	if len(bytes.TrimSpace(raw)) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp, out
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func (s *testServer) createTournament(t *testing.T, body string) (models.Tournament, []models.Match) {
	t.Helper()
	resp, out := s.do(t, http.MethodPost, "/tournaments", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	tournament := decode[models.Tournament](t, out["tournament"])
	assert.Equal(t, "/tournaments/"+tournament.ID, resp.Header.Get("Location"))
	return tournament, decode[[]models.Match](t, out["matches"])
}

func TestTournamentLifecycle(t *testing.T) {
	srv := newTestServer(t)
	tournament, matches := srv.createTournament(t, `{"players":["Ana","Ben","Cy","Dee"],"config":{"scoringMode":"POINTS"}}`)
	require.Len(t, matches, 3)

	resp, out := srv.do(t, http.MethodPatch, "/matches/"+matches[0].ID, `{"scores":{"team1":21,"team2":15}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[models.Match](t, out["match"])
	assert.Equal(t, models.WinnerTeam1, updated.Winner)
	assert.True(t, updated.IsComplete)

	resp, out = srv.do(t, http.MethodGet, "/tournaments/"+tournament.ID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.Progress{Completed: 1, Total: 3, Percent: 33}, decode[models.Progress](t, out["progress"]))

	resp, out = srv.do(t, http.MethodGet, "/tournaments/"+tournament.ID+"/standings", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	standings := decode[[]models.Standing](t, out["standings"])
	require.Len(t, standings, 4)
	assert.Equal(t, 1, standings[0].Wins)
	assert.Equal(t, 6, standings[0].PointDiff)

	winner := url.PathEscape(matches[0].Team1[0])
	resp, out = srv.do(t, http.MethodGet, "/tournaments/"+tournament.ID+"/players/"+winner+"/stats", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats := decode[*models.PlayerStats](t, out["stats"])
	require.NotNil(t, stats)
	assert.Equal(t, 100, stats.WinRate)
	assert.Equal(t, "W1", stats.Streak.String())
}

func TestPlayerStats_NoDataIsNull(t *testing.T) {
	srv := newTestServer(t)
	tournament, _ := srv.createTournament(t, `{"players":["Ana Maria","Ben","Cy","Dee"]}`)

	resp, out := srv.do(t, http.MethodGet, "/tournaments/"+tournament.ID+"/players/Ana%20Maria/stats", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "null", string(out["stats"]))

	resp, _ = srv.do(t, http.MethodGet, "/tournaments/"+tournament.ID+"/players/Zed/stats", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestErrorResponses(t *testing.T) {
	srv := newTestServer(t)
	tournament, matches := srv.createTournament(t, `{"players":["Ana","Ben","Cy","Dee"],"config":{"scoringMode":"WIN_LOSS"}}`)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{name: "duplicate players", method: http.MethodPost, path: "/tournaments", body: `{"players":["Ana","Ana"]}`, want: http.StatusBadRequest},
		{name: "empty roster", method: http.MethodPost, path: "/tournaments", body: `{"players":[]}`, want: http.StatusBadRequest},
		{name: "unknown field", method: http.MethodPost, path: "/tournaments", body: `{"players":["A"],"rounds":3}`, want: http.StatusBadRequest},
		{name: "bad scoring mode", method: http.MethodPost, path: "/tournaments", body: `{"players":["A","B","C","D"],"config":{"scoringMode":"SETS"}}`, want: http.StatusBadRequest},
		{name: "malformed id", method: http.MethodGet, path: "/tournaments/not-a-uuid", want: http.StatusBadRequest},
		{name: "unknown tournament", method: http.MethodGet, path: "/tournaments/7f8b5d2e-4b7a-4f3e-9a51-0c3c2b1a0d9e", want: http.StatusNotFound},
		{name: "unknown match", method: http.MethodPatch, path: "/matches/7f8b5d2e-4b7a-4f3e-9a51-0c3c2b1a0d9e", body: `{"winner":"team1"}`, want: http.StatusNotFound},
		{name: "scores in win/loss mode", method: http.MethodPatch, path: "/matches/" + matches[0].ID, body: `{"scores":{"team1":3,"team2":1}}`, want: http.StatusBadRequest},
		{name: "draw not allowed", method: http.MethodPatch, path: "/matches/" + matches[0].ID, body: `{"winner":"draw"}`, want: http.StatusBadRequest},
		{name: "sharing disabled", method: http.MethodPost, path: "/tournaments/" + tournament.ID + "/share", want: http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, out := srv.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, resp.StatusCode)
			assert.NotEmpty(t, out["error"])
		})
	}
}

func TestWebSocketReceivesMatchUpdates(t *testing.T) {
	srv := newTestServer(t)
	tournament, matches := srv.createTournament(t, `{"players":["Ana","Ben","Cy","Dee"],"config":{"scoringMode":"WIN_LOSS"}}`)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/tournaments/" + tournament.ID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	room := brackets.RoomForTournament(tournament.ID)
	require.Eventually(t, func() bool { return srv.hub.RoomSize(room) == 1 }, 2*time.Second, 10*time.Millisecond)

	resp, _ := srv.do(t, http.MethodPatch, "/matches/"+matches[2].ID, `{"winner":"team2"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg struct {
		Type    string       `json:"type"`
		Payload models.Match `json:"payload"`
		RoomID  string       `json:"room_id"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, brackets.MessageMatchUpdated, msg.Type)
	assert.Equal(t, room, msg.RoomID)
	assert.Equal(t, matches[2].ID, msg.Payload.ID)
	assert.Equal(t, models.WinnerTeam2, msg.Payload.Winner)
}

func TestWebSocketUnknownTournament(t *testing.T) {
	srv := newTestServer(t)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/tournaments/7f8b5d2e-4b7a-4f3e-9a51-0c3c2b1a0d9e"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOperationalEndpoints(t *testing.T) {
	srv := newTestServer(t)
	srv.createTournament(t, `{"players":["Ana","Ben","Cy","Dee"]}`)

	resp, _ := srv.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err := srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "mixups_tournaments_created_total 1")
	assert.Contains(t, string(body), `mixups_schedule_terminations_total{reason="exhausted"} 1`)

	resp, out := srv.do(t, http.MethodGet, "/swagger/doc.json", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `"2.0"`, string(out["swagger"]))

	resp, _ = srv.do(t, http.MethodGet, "/swagger/index.html", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/tournaments", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://mixups.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func TestWebSocketAfterHubStopped(t *testing.T) {
	srv := newTestServer(t)
	tournament, _ := srv.createTournament(t, `{"players":["Ana","Ben","Cy","Dee"]}`)

	srv.stopHub()
	select {
	case <-srv.hub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/tournaments/" + tournament.ID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}
