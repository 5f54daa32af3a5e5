// Package server exposes the chat pipeline over a small JSON HTTP API:
// one operation to send a message and one read-only operation to list known
// user emails for a caller-side identity selector.
package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/finassist/finassist/logging"
	"github.com/finassist/finassist/pipeline"
	"github.com/finassist/finassist/store"
)

// ChatHandler is the narrow pipeline interface the server consumes, allowing
// tests to substitute a stub.
type ChatHandler interface {
	Handle(ctx context.Context, req pipeline.ChatRequest) pipeline.ChatResponse
}

// Options configures optional Server behavior.
type Options struct {
	Logger logging.Logger
}

// Server is an http.Handler serving the chat API.
type Server struct {
	chat   ChatHandler
	users  store.Store
	logger logging.Logger
	mux    *http.ServeMux
}

// New builds the server around a chat handler and the user store.
func New(chat ChatHandler, users store.Store, optFns ...func(o *Options)) *Server {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	s := &Server{
		chat:   chat,
		users:  users,
		logger: opts.Logger,
		mux:    http.NewServeMux(),
	}
	s.mux.HandleFunc("POST /api/chat", s.handleChat)
	s.mux.HandleFunc("GET /api/users/emails", s.handleListEmails)
	return s
}

// ServeHTTP implements http.Handler with request-ID and access-log middleware applied.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	withRequestID(accessLog(s.logger, s.mux)).ServeHTTP(w, r)
}

type chatRequestBody struct {
	Message      string `json:"message"`
	UserIdentity string `json:"user_identity"`
}

type errorBody struct {
	Error string `json:"error"`
}

type emailsBody struct {
	Emails []string `json:"emails"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var body chatRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON body"})
		return
	}
	if body.Message == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "message is required"})
		return
	}

	resp := s.chat.Handle(r.Context(), pipeline.ChatRequest{
		Message:      body.Message,
		UserIdentity: body.UserIdentity,
	})
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListEmails(w http.ResponseWriter, r *http.Request) {
	emails, err := s.users.ListEmails(r.Context())
	if err != nil {
		s.logger.Error("server.list_emails.failed", "error", err.Error())
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "failed to list emails"})
		return
	}
	if emails == nil {
		emails = []string{}
	}
	writeJSON(w, http.StatusOK, emailsBody{Emails: emails})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
