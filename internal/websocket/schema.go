package websocket

import "github.com/quizhub/quizhub-backend/internal/model"

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError       Event = "error"
	EventLeaderboard Event = "leaderboard"
)

// LeaderboardResponse pushes a fresh top-20 snapshot to the admin client.
// Sent once on connect and again whenever a new attempt lands.
type LeaderboardResponse struct {
	Event   Event                    `json:"event"`
	Entries []model.LeaderboardEntry `json:"entries"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}
