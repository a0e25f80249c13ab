package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/example/vocabtutor/internal/notify"
	"github.com/example/vocabtutor/internal/task"
)

// DefaultLearnerID is the implicit single-learner identity. Requests may
// override it with the X-Learner-ID header.
const DefaultLearnerID = "user_default"

// TutorSource answers free-form learner questions.
type TutorSource interface {
	AskTutor(ctx context.Context, question string) (string, error)
}

// Server is the HTTP surface of the trainer.
type Server struct {
	echo           *echo.Echo
	svc            *task.Service
	tutor          TutorSource
	reminder       *notify.Reminder
	reminderSecret string
	logger         *slog.Logger
}

// New creates the server and registers all routes.
func New(svc *task.Service, tutor TutorSource, reminder *notify.Reminder, reminderSecret string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			)
			return nil
		},
	}))

	s := &Server{
		echo:           e,
		svc:            svc,
		tutor:          tutor,
		reminder:       reminder,
		reminderSecret: reminderSecret,
		logger:         logger,
	}

	api := e.Group("/api")
	api.GET("/dailyTask", s.handleDailyTask)
	api.POST("/updateProgress", s.handleUpdateProgress)
	api.POST("/updateSettings", s.handleUpdateSettings)
	api.POST("/askTutor", s.handleAskTutor)
	api.POST("/dailyReminder", s.handleDailyReminder)

	return s
}

// Echo exposes the underlying router, mainly for handler tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Start begins serving on addr and blocks until the server stops.
func (s *Server) Start(addr string) error {
	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
