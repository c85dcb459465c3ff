// Package backend is the development property API: a small JSON server over
// SQLite that stands in for the real management system. Errors go out as
// {"error": "..."} so the console's message extraction has something real to
// chew on.
package backend

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"rentdesk/internal/core"
	"rentdesk/internal/log"
	"rentdesk/internal/state"
	"rentdesk/internal/storage"
)

type Server struct {
	http.Server
	store  *storage.Store
	logger *log.Logger
}

func NewServer(addr string, store *storage.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.Config{Component: log.ComponentBackend})
	}
	s := &Server{store: store, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("/residents", s.handleResidents)
	mux.HandleFunc("/residents/", s.handleResidentByID)
	mux.HandleFunc("/units", s.handleUnits)
	mux.HandleFunc("/available-units", s.handleAvailableUnits)
	mux.HandleFunc("/payments", s.handlePayments)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.Server = http.Server{Addr: addr, Handler: s.withLogging(mux)}
	return s
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.InfoContext(r.Context(), "Backend request", "method", r.Method, "url", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleResidents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	rows, err := s.store.ListResidents(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "List residents failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list residents")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleResidentByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/residents/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "Resident not found")
		return
	}
	if err := s.store.DeleteResident(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Resident not found")
			return
		}
		s.logger.ErrorContext(r.Context(), "Delete resident failed", "error", err, "resident_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to delete resident")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUnits(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	rows, err := s.store.ListUnits(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "List units failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list units")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleAvailableUnits(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	rows, err := s.store.ListAvailableUnits(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "List available units failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list available units")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handlePayments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		rows, err := s.store.ListPayments(r.Context())
		if err != nil {
			s.logger.ErrorContext(r.Context(), "List payments failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to list payments")
			return
		}
		writeJSON(w, http.StatusOK, rows)
	case http.MethodPost:
		s.handleCreatePayment(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	var np core.NewPayment
	if err := json.NewDecoder(r.Body).Decode(&np); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if np.LeaseID == nil {
		writeError(w, http.StatusUnprocessableEntity, "Lease ID must be a number")
		return
	}
	if np.Amount == nil {
		writeError(w, http.StatusUnprocessableEntity, "Amount must be a number")
		return
	}
	if !validMethod(np.Method) {
		writeError(w, http.StatusUnprocessableEntity, "Unknown payment method")
		return
	}
	if strings.TrimSpace(np.PaidDate) == "" {
		writeError(w, http.StatusUnprocessableEntity, "Paid date is required")
		return
	}
	if strings.TrimSpace(np.Status) == "" {
		writeError(w, http.StatusUnprocessableEntity, "Status is required")
		return
	}

	created, err := s.store.CreatePayment(r.Context(), np)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Create payment failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create payment")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func validMethod(method string) bool {
	for _, m := range state.PaymentMethods {
		if method == m {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
