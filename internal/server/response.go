package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Error is the error payload of an Envelope
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Envelope wraps every JSON response
type Envelope struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *Error      `json:"error,omitempty"`
	RequestID string      `json:"requestId,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn("Failed to write JSON response", zap.Error(err))
	}
}

func (s *Server) success(w http.ResponseWriter, r *http.Request, data interface{}) {
	s.writeJSON(w, http.StatusOK, Envelope{Success: true, Data: data, RequestID: GetRequestID(r.Context())})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	s.writeJSON(w, status, Envelope{
		Success:   false,
		Error:     &Error{Code: code, Message: message},
		RequestID: GetRequestID(r.Context()),
	})
}
