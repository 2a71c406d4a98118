// Package middleware provides HTTP middleware for authentication,
// authorization, and abuse protection on the admin API.
package middleware

import (
	"encoding/json"
	"net/http"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyUser is the context key holding the authenticated user.
const ContextKeyUser ContextKey = "user"

// apiResponse is the error envelope every API endpoint shares.
type apiResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// WriteError writes a JSON error response in the API envelope.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(apiResponse{OK: false, Message: message})
}

// getClientIP extracts the client IP, honoring reverse proxy headers.
func getClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}
