package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/quizhub/quizhub-backend/internal/config"
	"github.com/quizhub/quizhub-backend/internal/response"
	"github.com/quizhub/quizhub-backend/internal/service"
	ws "github.com/quizhub/quizhub-backend/internal/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams leaderboard snapshots to admin dashboards.
type WSHandler struct {
	rdb          *redis.Client
	scoreService *service.ScoreService
	log          zerolog.Logger
	upgrader     websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(rdb *redis.Client, scoreService *service.ScoreService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		rdb:          rdb,
		scoreService: scoreService,
		log:          log.With().Str("component", "ws_handler").Logger(),
		upgrader:     buildUpgrader(allowedOrigins),
	}
}

// LeaderboardStream godoc
// WS /ws/v1/admin/leaderboard/stream?token=...
// Pushes the current top-20 on connect, then a fresh snapshot each time a
// new attempt is announced on the leaderboard channel.
func (h *WSHandler) LeaderboardStream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()

	pubsub := h.rdb.Subscribe(ctx, config.CacheKey.LeaderboardChannel())
	defer pubsub.Close()

	if err := h.pushSnapshot(c, conn); err != nil {
		h.log.Debug().Err(err).Msg("initial snapshot push failed")
		return
	}

	h.log.Info().Msg("Admin connected to leaderboard stream")

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			if err := h.pushSnapshot(c, conn); err != nil {
				h.log.Debug().Err(err).Msg("snapshot push failed, closing stream")
				return
			}
		}
	}
}

func (h *WSHandler) pushSnapshot(c *gin.Context, conn *websocket.Conn) error {
	entries, err := h.scoreService.Leaderboard(c.Request.Context(), nil)
	if err != nil {
		ws.WriteError(conn, string(response.ErrInternal))
		return err
	}
	return ws.WriteTyped(conn, ws.LeaderboardResponse{
		Event:   ws.EventLeaderboard,
		Entries: entries,
	})
}
