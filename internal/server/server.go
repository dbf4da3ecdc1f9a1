package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"calorion/internal/auth"
	"calorion/internal/chat"
	"calorion/internal/dailylog"
	"calorion/internal/logger"
	"calorion/internal/plan"
	"calorion/internal/profile"
	"calorion/internal/reminder"
	"calorion/internal/tips"
)

// Server bundles the HTTP handlers with their collaborators.
type Server struct {
	log       *logger.Logger
	tokens    *auth.Manager
	profiles  *profile.Repository
	plans     *plan.Service
	planRepo  *plan.Repository
	chats     *chat.Service
	chatRepo  *chat.Repository
	logs      *dailylog.Repository
	tips      *tips.Catalog
	reminders *reminder.Repository
}

// NewServer creates a Server.
func NewServer(
	log *logger.Logger,
	tokens *auth.Manager,
	profiles *profile.Repository,
	plans *plan.Service,
	planRepo *plan.Repository,
	chats *chat.Service,
	chatRepo *chat.Repository,
	logs *dailylog.Repository,
	tipsCatalog *tips.Catalog,
	reminders *reminder.Repository,
) *Server {
	return &Server{
		log:       log.With("service", "http"),
		tokens:    tokens,
		profiles:  profiles,
		plans:     plans,
		planRepo:  planRepo,
		chats:     chats,
		chatRepo:  chatRepo,
		logs:      logs,
		tips:      tipsCatalog,
		reminders: reminders,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.POST("/auth/login", s.handleLogin)

	authed := api.Group("", auth.RequireAuth(s.tokens))
	{
		authed.GET("/users/me", s.handleGetMe)
		authed.PUT("/users/me", s.handleUpdateMe)

		authed.GET("/weekly-plan/current", s.handleGetCurrentPlan)
		authed.POST("/weekly-plan/regenerate", s.handleRegeneratePlan)
		authed.PUT("/weekly-plan/current", s.handleUpdateCurrentPlan)

		authed.POST("/chats/message", s.handleSendMessage)
		authed.GET("/chats", s.handleListChats)

		authed.GET("/daily-logs/by-date", s.handleGetDailyLog)
		authed.PUT("/daily-logs/by-date", s.handleUpsertDailyLog)
		authed.GET("/daily-logs/recent", s.handleListRecentLogs)

		authed.GET("/tips/today", s.handleTodayTips)

		authed.POST("/reminders", s.handleCreateReminder)
		authed.GET("/reminders", s.handleListReminders)
		authed.DELETE("/reminders/:id", s.handleDeleteReminder)

		authed.GET("/admin/summary", s.handleAdminSummary)
	}

	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}
