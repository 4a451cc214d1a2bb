// Package api exposes the tracker over a thin JSON HTTP layer.
package api

import (
	"encoding/json"
	"net/http"
)

// Response is the standard envelope for all API responses.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// SendSuccess sends a successful JSON response.
func SendSuccess(w http.ResponseWriter, data interface{}) {
	respond(w, http.StatusOK, Response{Success: true, Data: data})
}

// SendError sends an error JSON response.
func SendError(w http.ResponseWriter, statusCode int, message string) {
	respond(w, statusCode, Response{Success: false, Error: message})
}

func respond(w http.ResponseWriter, statusCode int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}
