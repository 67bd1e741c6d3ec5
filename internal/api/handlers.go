// Package api serves the catalog service's REST contract. It backs the
// local development server the client runs against when no production
// deployment is configured.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fixdesk/fixdesk/internal/storage"
)

const maxTicketBodySize = 64 << 10 // 64KB

// Deps holds what the handlers need.
type Deps struct {
	Store *storage.Store
}

// NewHandler builds the HTTP routes of the catalog service.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)

	r.Get("/health", handleHealth)
	r.Route("/resource", func(r chi.Router) {
		r.Get("/devices", handleDevices(deps))
		r.Get("/instructions", handleGuides(deps, storage.CategoryInstruction))
		r.Get("/recipes", handleGuides(deps, storage.CategoryRecipe))
		r.Get("/tickets", handleListTickets(deps))
		r.Post("/tickets", handleCreateTicket(deps))
	})

	return r
}

// requestID tags every request with an id for log correlation, honoring a
// client-provided X-Request-ID.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", id)
		slog.Debug("request", "method", r.Method, "path", r.URL.Path, "request_id", id)
		next.ServeHTTP(w, r)
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok", "service": "fixdesk-api"})
}

func handleDevices(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		devices, err := deps.Store.Devices()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "listing devices: %v", err)
			return
		}
		writeJSONList(w, devices)
	}
}

func handleGuides(deps Deps, category string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guides, err := deps.Store.Guides(category)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "listing %ss: %v", category, err)
			return
		}
		writeJSONList(w, guides)
	}
}

func handleListTickets(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.URL.Query().Get("user_id")
		if raw == "" {
			httpError(w, http.StatusBadRequest, "user_id required")
			return
		}
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid user_id %q", raw)
			return
		}

		tickets, err := deps.Store.TicketsForUser(userID, 50)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "listing tickets: %v", err)
			return
		}
		writeJSONList(w, tickets)
	}
}

// createTicketRequest is the body of POST /resource/tickets.
type createTicketRequest struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
}

func handleCreateTicket(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxTicketBodySize)
		defer r.Body.Close()

		var req createTicketRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid request body: %v", err)
			return
		}
		if req.UserID == 0 || req.Message == "" {
			httpError(w, http.StatusBadRequest, "user_id and message required")
			return
		}

		created, err := deps.Store.CreateTicket(req.UserID, req.Username, req.Subject, req.Message)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "creating ticket: %v", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// writeJSONList encodes a slice, downgrading nil to [] so clients always
// receive an array.
func writeJSONList[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	writeJSON(w, items)
}

func httpError(w http.ResponseWriter, code int, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"error": fmt.Sprintf(format, args...),
	})
}
