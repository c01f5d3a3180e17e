package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triggerhappy/internal/config"
	"triggerhappy/internal/services/cluster"
	"triggerhappy/internal/services/gameroom"
)

func init() { gin.SetMode(gin.TestMode) }

func newTestRouter(t *testing.T, health *cluster.HealthAggregator) (*gin.Engine, *gameroom.RoomManager) {
	t.Helper()
	rm, err := gameroom.NewRoomManager(gameroom.ManagerConfig{
		Defaults: config.DefaultGame(),
		Tick:     10 * time.Millisecond,
		Logger:   zerolog.Nop(),
	})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	go rm.Run(ctx)
	t.Cleanup(cancel)

	if health == nil {
		health = cluster.NewHealthAggregator()
	}
	return NewRouter(Deps{
		Rooms:  rm,
		Health: health,
		Metrics: func(http.ResponseWriter, *http.Request) (interface{}, error) {
			return map[string]int{"rooms": 1}, nil
		},
		Logger: zerolog.Nop(),
	}), rm
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	health := cluster.NewHealthAggregator()
	r, _ := newTestRouter(t, health)

	rec := do(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())

	health.AddCheck("nats", func() error { return errors.New("down") })
	rec = do(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"nats":"down"}`, rec.Body.String())
}

func TestCreateAndGetMatch(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	rec := do(r, http.MethodPost, "/matches", `{"options":{"roundTimeSeconds":20,"maxAmmo":5}}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created gameroom.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, gameroom.PhaseLobby, created.Phase)
	assert.Equal(t, 20, created.Config.RoundTimeSeconds)
	assert.Equal(t, 5, created.Config.MaxAmmo)

	rec = do(r, http.MethodGet, "/matches/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(r, http.MethodGet, "/matches", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []matchListEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
}

func TestCreateMatchWithoutBodyUsesDefaults(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	rec := do(r, http.MethodPost, "/matches", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var created gameroom.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, config.DefaultGame().RoundTimeSeconds, created.Config.RoundTimeSeconds)
}

func TestCreateMatchRejectsInvalidOptions(t *testing.T) {
	r, rm := newTestRouter(t, nil)

	rec := do(r, http.MethodPost, "/matches", `{"options":{"minPlayers":1}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(r, http.MethodPost, "/matches", `{"options":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Empty(t, rm.Rooms(context.Background()))
}

func TestUnknownMatch(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	rec := do(r, http.MethodGet, "/matches/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	rec := do(r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"rooms":1}`, rec.Body.String())
}
