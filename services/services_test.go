package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/Dosada05/mixups/brackets"
	"github.com/Dosada05/mixups/metrics"
	"github.com/Dosada05/mixups/models"
	"github.com/Dosada05/mixups/repositories"
	"github.com/Dosada05/mixups/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

type fakeBroadcaster struct {
	mu       sync.Mutex
	messages []brackets.WebSocketMessage
}

func (b *fakeBroadcaster) BroadcastToRoom(roomID string, message interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, message.(brackets.WebSocketMessage))
}

func (b *fakeBroadcaster) sent() []brackets.WebSocketMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]brackets.WebSocketMessage(nil), b.messages...)
}

type fakeUploader struct {
	mu           sync.Mutex
	objects      map[string][]byte
	cacheControl map[string]string
	deleted      []string
	err          error
	// failKey makes only uploads of this key fail.
	failKey string
	// onUpload runs before every upload.
	onUpload func(key string)
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{objects: make(map[string][]byte), cacheControl: make(map[string]string)}
}

func (u *fakeUploader) Upload(_ context.Context, obj storage.Object) (*storage.UploadResult, error) {
	if u.onUpload != nil {
		u.onUpload(obj.Key)
	}
	if u.err != nil && (u.failKey == "" || u.failKey == obj.Key) {
		return nil, u.err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, obj.Body); err != nil {
		return nil, err
	}
	u.mu.Lock()
	u.objects[obj.Key] = buf.Bytes()
	u.cacheControl[obj.Key] = obj.CacheControl
	u.mu.Unlock()
	return &storage.UploadResult{Key: obj.Key, Location: u.GetPublicURL(obj.Key)}, nil
}

func (u *fakeUploader) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.objects, key)
	u.deleted = append(u.deleted, key)
	return nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

// failingMatches wraps a MatchRepository and fails ListByTournament.
type failingMatches struct {
	repositories.MatchRepository
	err error
}

func (f failingMatches) ListByTournament(context.Context, string) ([]*models.Match, error) {
	return nil, f.err
}

var errStorage = errors.New("storage offline")

type testEnv struct {
	store       *repositories.MemoryStore
	tournaments TournamentService
	matches     MatchService
	stats       StatsService
	broadcaster *fakeBroadcaster
	registry    *prometheus.Registry
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := repositories.NewMemoryStore()
	registry := prometheus.NewRegistry()
	recorder := metrics.New(registry)
	broadcaster := &fakeBroadcaster{}
	logger := discardLogger()

	gen, err := brackets.NewGenerator(models.ScheduleRotation, rand.New(rand.NewPCG(7, 7)))
	require.NoError(t, err)

	return &testEnv{
		store:       store,
		tournaments: NewTournamentService(store.Tournaments(), store.Matches(), gen, recorder, logger),
		matches:     NewMatchService(store.Tournaments(), store.Matches(), broadcaster, recorder, logger),
		stats:       NewStatsService(store.Tournaments(), store.Matches(), logger),
		broadcaster: broadcaster,
		registry:    registry,
	}
}

func (e *testEnv) create(t *testing.T, players []string, cfg models.Config) *TournamentData {
	t.Helper()
	data, err := e.tournaments.CreateTournament(context.Background(), CreateTournamentInput{Players: players, Config: cfg})
	require.NoError(t, err)
	return data
}

func intPtr(v int) *int { return &v }

func winnerPtr(w models.Winner) *models.Winner { return &w }
