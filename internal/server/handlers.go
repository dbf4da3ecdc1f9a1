package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"calorion/internal/auth"
	"calorion/internal/dailylog"
	"calorion/internal/plan"
	"calorion/internal/profile"
	"calorion/internal/reminder"
)

type loginRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// handleLogin upserts a minimal profile for a first-time email and issues an
// access token. Returning users keep their stored profile untouched.
func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a valid email is required"})
		return
	}

	user, err := s.profiles.GetByEmail(c.Request.Context(), email)
	if errors.Is(err, profile.ErrNotFound) {
		name := strings.TrimSpace(req.Name)
		if name == "" {
			name = "Calorion User"
		}
		user, err = s.profiles.Upsert(c.Request.Context(), profile.UpsertInput{Email: email, Name: name})
	}
	if err != nil {
		s.log.Error("login failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.log.Error("failed to issue token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

func (s *Server) handleGetMe(c *gin.Context) {
	user, err := s.profiles.GetByID(c.Request.Context(), auth.UserID(c))
	if errors.Is(err, profile.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	if err != nil {
		s.log.Error("failed to load profile", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// handleUpdateMe replaces the caller's profile fields. The email is pinned
// to the authenticated account and the calorie target is recomputed.
func (s *Server) handleUpdateMe(c *gin.Context) {
	current, err := s.profiles.GetByID(c.Request.Context(), auth.UserID(c))
	if errors.Is(err, profile.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	if err != nil {
		s.log.Error("failed to load profile", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}

	var in profile.UpsertInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	in.Email = current.Email
	if strings.TrimSpace(in.Name) == "" {
		in.Name = current.Name
	}

	user, err := s.profiles.Upsert(c.Request.Context(), in)
	if err != nil {
		s.log.Error("failed to update profile", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) handleGetCurrentPlan(c *gin.Context) {
	p, err := s.plans.GetCurrentPlan(c.Request.Context(), auth.UserID(c))
	s.respondPlan(c, p, err)
}

func (s *Server) handleRegeneratePlan(c *gin.Context) {
	p, err := s.plans.Regenerate(c.Request.Context(), auth.UserID(c))
	s.respondPlan(c, p, err)
}

func (s *Server) handleUpdateCurrentPlan(c *gin.Context) {
	var req struct {
		Days []plan.DayPlan `json:"days"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	p, err := s.plans.UpdateCurrentPlan(c.Request.Context(), auth.UserID(c), req.Days)
	s.respondPlan(c, p, err)
}

func (s *Server) respondPlan(c *gin.Context, p *plan.WeeklyPlan, err error) {
	switch {
	case errors.Is(err, plan.ErrInvalidDays):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, plan.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
	case err != nil:
		s.log.Error("plan operation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "plan operation failed"})
	default:
		c.JSON(http.StatusOK, p)
	}
}

func (s *Server) handleSendMessage(c *gin.Context) {
	var req struct {
		Content string `json:"content"`
		NewChat bool   `json:"newChat"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}

	user, err := s.profiles.GetByID(c.Request.Context(), auth.UserID(c))
	if errors.Is(err, profile.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	if err != nil {
		s.log.Error("failed to load profile", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}

	chatResult, err := s.chats.SendMessage(c.Request.Context(), user.ID, req.Content, req.NewChat, user)
	if err != nil {
		s.log.Error("failed to send message", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send message"})
		return
	}
	c.JSON(http.StatusOK, chatResult)
}

func (s *Server) handleListChats(c *gin.Context) {
	chats, err := s.chatRepo.ListByUser(c.Request.Context(), auth.UserID(c))
	if err != nil {
		s.log.Error("failed to list chats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list chats"})
		return
	}
	c.JSON(http.StatusOK, chats)
}

func (s *Server) handleGetDailyLog(c *gin.Context) {
	l, err := s.logs.GetByDate(c.Request.Context(), auth.UserID(c), c.Query("date"))
	if err != nil {
		s.log.Error("failed to get daily log", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get daily log"})
		return
	}
	c.JSON(http.StatusOK, l)
}

func (s *Server) handleUpsertDailyLog(c *gin.Context) {
	var req struct {
		Date  string          `json:"date"`
		Items []dailylog.Item `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	l, err := s.logs.UpsertByDate(c.Request.Context(), auth.UserID(c), req.Date, req.Items)
	if errors.Is(err, dailylog.ErrInvalidLog) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		s.log.Error("failed to upsert daily log", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upsert daily log"})
		return
	}
	c.JSON(http.StatusOK, l)
}

func (s *Server) handleListRecentLogs(c *gin.Context) {
	logs, err := s.logs.ListRecent(c.Request.Context(), auth.UserID(c), 30)
	if err != nil {
		s.log.Error("failed to list daily logs", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list daily logs"})
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (s *Server) handleTodayTips(c *gin.Context) {
	c.JSON(http.StatusOK, s.tips.TodayTips())
}

func (s *Server) handleCreateReminder(c *gin.Context) {
	var in reminder.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	rem, err := s.reminders.Create(c.Request.Context(), auth.UserID(c), in)
	if errors.Is(err, reminder.ErrInvalidReminder) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		s.log.Error("failed to create reminder", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create reminder"})
		return
	}
	c.JSON(http.StatusOK, rem)
}

func (s *Server) handleListReminders(c *gin.Context) {
	list, err := s.reminders.ListByUser(c.Request.Context(), auth.UserID(c))
	if err != nil {
		s.log.Error("failed to list reminders", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reminders"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) handleDeleteReminder(c *gin.Context) {
	if err := s.reminders.Delete(c.Request.Context(), auth.UserID(c), c.Param("id")); err != nil {
		s.log.Error("failed to delete reminder", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete reminder"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// handleAdminSummary reports read-only totals across the store.
func (s *Server) handleAdminSummary(c *gin.Context) {
	ctx := c.Request.Context()
	users, err := s.profiles.Count(ctx)
	if err != nil {
		s.log.Error("failed to build summary", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build summary"})
		return
	}
	plans, err := s.planRepo.Count(ctx)
	if err != nil {
		s.log.Error("failed to build summary", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build summary"})
		return
	}
	chats, err := s.chatRepo.Count(ctx)
	if err != nil {
		s.log.Error("failed to build summary", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build summary"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"totalUsers":  users,
		"totalPlans":  plans,
		"totalChats":  chats,
		"generatedAt": time.Now().UTC(),
	})
}
