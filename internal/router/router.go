package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/quizhub/quizhub-backend/internal/config"
	"github.com/quizhub/quizhub-backend/internal/handler"
	"github.com/quizhub/quizhub-backend/internal/middleware"
	"github.com/quizhub/quizhub-backend/internal/response"
	"github.com/quizhub/quizhub-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth  *handler.AuthHandler
	Quiz  *handler.QuizHandler
	Admin *handler.AdminHandler
	WS    *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile route
		auth.GET("/me", middleware.RequireAuth(authService), handlers.Auth.Me)
	}

	// ─── 2. Public Quiz Group ──────────────────────────────────────────
	// Browsing is open; every payload served here is answer-free.
	quiz := router.Group("/api/v1/quiz")
	{
		quiz.GET("", handlers.Quiz.List)
		quiz.GET("/:quiz_id", handlers.Quiz.Get)

		// Submission requires a session token.
		quiz.POST("/:quiz_id/submit", middleware.RequireAuth(authService), handlers.Quiz.Submit)
	}

	// ─── 3. Admin Group (JWT + Admin Flag) ─────────────────────────────
	admin := router.Group("/api/v1/admin")
	admin.Use(
		middleware.RequireAuth(authService),
		middleware.RequireAdmin(),
	)
	{
		admin.GET("/quizzes", handlers.Admin.ListQuizzes)
		admin.POST("/quiz", handlers.Admin.CreateQuiz)
		admin.DELETE("/quiz/:quiz_id", handlers.Admin.DeleteQuiz)
		admin.GET("/leaderboard", handlers.Admin.Leaderboard)
		admin.GET("/scores", handlers.Admin.ListScores)
	}

	// ─── 4. WebSocket Group (Admin WS Auth) ────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireAdminWSAuth(authService))
	{
		ws.GET("/admin/leaderboard/stream", handlers.WS.LeaderboardStream)
	}

	return router
}
