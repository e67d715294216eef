package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/techjobs/backend/internal/config"
	"github.com/techjobs/backend/internal/services"

	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
)

type Server struct {
	cfg           config.APIConfig
	auth          *services.AuthService
	jobs          *services.JobService
	chat          *services.ChatService
	conversations *services.ConversationService
	now           func() time.Time
	httpServer    *http.Server
}

func NewServer(cfg config.APIConfig, auth *services.AuthService, jobs *services.JobService,
	chat *services.ChatService, conversations *services.ConversationService) *Server {

	return &Server{
		cfg:           cfg,
		auth:          auth,
		jobs:          jobs,
		chat:          chat,
		conversations: conversations,
		now:           time.Now,
	}
}

func (s *Server) Handler() http.Handler {

	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	// browsing is open, everything that acts on behalf of a user requires
	// a session
	mux.HandleFunc("POST /api/v1/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/v1/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/v1/auth/logout", s.handleLogout)
	mux.HandleFunc("GET /api/v1/auth/me", s.withUser(s.handleMe))

	mux.HandleFunc("GET /api/v1/jobs", s.handleListJobs)
	mux.HandleFunc("POST /api/v1/jobs", s.withUser(s.handleCreateJob))
	mux.HandleFunc("GET /api/v1/jobs/mine", s.withUser(s.handleMyJobs))
	mux.HandleFunc("GET /api/v1/jobs/{id}", s.handleGetJob)
	mux.HandleFunc("PUT /api/v1/jobs/{id}", s.withUser(s.handleUpdateJob))
	mux.HandleFunc("DELETE /api/v1/jobs/{id}", s.withUser(s.handleDeleteJob))

	mux.HandleFunc("GET /api/v1/jobs/{id}/messages", s.handlePublicThread)
	mux.HandleFunc("POST /api/v1/jobs/{id}/messages", s.withUser(s.handleSendPublic))
	mux.HandleFunc("GET /api/v1/jobs/{id}/thread/{userId}", s.withUser(s.handlePrivateThread))
	mux.HandleFunc("POST /api/v1/jobs/{id}/thread/{userId}", s.withUser(s.handleSendPrivate))

	mux.HandleFunc("GET /api/v1/conversations", s.withUser(s.handleConversations))

	c := cors.New(cors.Options{
		AllowedOrigins:   s.cfg.CorsOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowCredentials: true,
	})

	return requestLogger(c.Handler(mux))
}

func (s *Server) Run() error {

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Port),
		Handler: s.Handler(),
	}

	log.Infof("API server listening on %v", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
