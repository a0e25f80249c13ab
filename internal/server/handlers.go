package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/example/vocabtutor/internal/task"
)

func learnerID(c echo.Context) string {
	if id := c.Request().Header.Get("X-Learner-ID"); id != "" {
		return id
	}
	return DefaultLearnerID
}

// handleDailyTask returns today's assembled task queue.
func (s *Server) handleDailyTask(c echo.Context) error {
	dailyTask, err := s.svc.GetDailyTask(c.Request().Context(), learnerID(c))
	if err != nil {
		s.logger.Error("failed to assemble daily task", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load task")
	}
	return c.JSON(http.StatusOK, dailyTask)
}

// handleUpdateProgress applies one graded review outcome.
func (s *Server) handleUpdateProgress(c echo.Context) error {
	var sub task.ReviewSubmission
	if err := c.Bind(&sub); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	rec, err := s.svc.SubmitReview(c.Request().Context(), learnerID(c), sub)
	if err != nil {
		if errors.Is(err, task.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		s.logger.Error("failed to update progress", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update progress")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":     true,
		"newProgress": rec,
	})
}

// handleUpdateSettings merges a new daily goal into the learner's settings.
func (s *Server) handleUpdateSettings(c echo.Context) error {
	var req struct {
		DailyGoal int `json:"dailyGoal"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	settings, err := s.svc.UpdateSettings(c.Request().Context(), learnerID(c), req.DailyGoal)
	if err != nil {
		if errors.Is(err, task.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid daily goal value")
		}
		s.logger.Error("failed to update settings", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update settings")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":  true,
		"settings": settings,
	})
}

// handleAskTutor forwards a free-form question to the AI tutor.
func (s *Server) handleAskTutor(c echo.Context) error {
	var req struct {
		Question string `json:"question"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Question) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "question is required")
	}

	answer, err := s.tutor.AskTutor(c.Request().Context(), req.Question)
	if err != nil {
		s.logger.Error("tutor request failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get an answer from the tutor")
	}
	return c.JSON(http.StatusOK, map[string]string{"answer": answer})
}

// handleDailyReminder triggers the reminder send. It requires the configured
// bearer secret, matching the scheduled-trigger contract.
func (s *Server) handleDailyReminder(c echo.Context) error {
	if s.reminderSecret == "" {
		s.logger.Error("reminder secret is not configured")
		return echo.NewHTTPError(http.StatusInternalServerError, "reminder is not configured")
	}
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if auth != "Bearer "+s.reminderSecret {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if err := s.reminder.Run(c.Request().Context(), learnerID(c)); err != nil {
		s.logger.Error("reminder failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to send reminder")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}
