// Package api exposes the HTTP surface of the game server: the websocket
// upgrade, health, match management and metrics.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"triggerhappy/internal/services/cluster"
	"triggerhappy/internal/services/gameroom"
)

// Rooms is the part of the room manager served over HTTP.
type Rooms interface {
	CreateRoom(ctx context.Context, options map[string]any) (*gameroom.GameRoom, error)
	Rooms(ctx context.Context) []*gameroom.GameRoom
	Summary(ctx context.Context, roomID string) (gameroom.Summary, bool)
}

type Deps struct {
	Rooms          Rooms
	Health         *cluster.HealthAggregator
	WebSocket      http.HandlerFunc
	Metrics        func(http.ResponseWriter, *http.Request) (interface{}, error)
	AllowedOrigins []string
	Logger         zerolog.Logger
}

type createMatchRequest struct {
	Options map[string]any `json:"options"`
}

type matchListEntry struct {
	ID    string         `json:"id"`
	Phase gameroom.Phase `json:"phase"`
}

const requestTimeout = 3 * time.Second

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(d.Logger))

	corsCfg := cors.DefaultConfig()
	if len(d.AllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = d.AllowedOrigins
	}
	corsCfg.AllowHeaders = []string{"Content-Type", "Origin"}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		failures := d.Health.Run()
		if len(failures) > 0 {
			ctx.JSON(http.StatusServiceUnavailable, failures)
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	if d.WebSocket != nil {
		r.GET("/ws", gin.WrapF(d.WebSocket))
	}

	if d.Metrics != nil {
		r.GET("/metrics", func(ctx *gin.Context) {
			out, err := d.Metrics(ctx.Writer, ctx.Request)
			if err != nil {
				ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, out)
		})
	}

	matches := r.Group("/matches")
	matches.GET("", listMatches(d.Rooms))
	matches.POST("", createMatch(d.Rooms))
	matches.GET("/:id", getMatch(d.Rooms))

	return r
}

func listMatches(rooms Rooms) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		c, cancel := context.WithTimeout(ctx.Request.Context(), requestTimeout)
		defer cancel()

		out := make([]matchListEntry, 0)
		for _, room := range rooms.Rooms(c) {
			out = append(out, matchListEntry{ID: room.ID, Phase: room.Phase()})
		}
		ctx.JSON(http.StatusOK, out)
	}
}

func createMatch(rooms Rooms) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req createMatchRequest
		if ctx.Request.ContentLength != 0 {
			if err := ctx.ShouldBindJSON(&req); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}

		c, cancel := context.WithTimeout(ctx.Request.Context(), requestTimeout)
		defer cancel()

		room, err := rooms.CreateRoom(c, req.Options)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				status = http.StatusServiceUnavailable
			}
			ctx.JSON(status, gin.H{"error": err.Error()})
			return
		}

		s, ok := rooms.Summary(c, room.ID)
		if !ok {
			ctx.JSON(http.StatusCreated, gin.H{"id": room.ID})
			return
		}
		ctx.JSON(http.StatusCreated, s)
	}
}

func getMatch(rooms Rooms) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		c, cancel := context.WithTimeout(ctx.Request.Context(), requestTimeout)
		defer cancel()

		s, ok := rooms.Summary(c, ctx.Param("id"))
		if !ok {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "match not found"})
			return
		}
		ctx.JSON(http.StatusOK, s)
	}
}

func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	log = log.With().Str("component", "http").Logger()
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		log.Debug().
			Str("method", ctx.Request.Method).
			Str("path", ctx.FullPath()).
			Int("status", ctx.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}
