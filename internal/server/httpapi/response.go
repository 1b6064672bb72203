package httpapi

import (
	"encoding/json"
	"net/http"
)

// Client-facing messages.
const (
	msgRunning            = " app is running."
	msgRegistered         = "User registered successfully"
	msgPasswordReset      = "Password reset successfully"
	msgUsernameTaken      = "Username already exists"
	msgInvalidCredentials = "Invalid username or password"
	msgUserNotFound       = "User not found"
	msgWrongAnswer        = "Incorrect recovery answer"
	msgPasswordMismatch   = "Passwords do not match"
	msgInvalidBody        = "Invalid request body"
	msgInternal           = "Internal server error"
	msgUnauthorized       = "Unauthorized - Invalid or missing token"
)

type loginResponse struct {
	Token string `json:"token"`
}

type sessionResponse struct {
	Username  string `json:"username"`
	TokenID   string `json:"tokenId"`
	IssuedAt  int64  `json:"issuedAt"`
	ExpiresAt int64  `json:"expiresAt"`
}

type problemResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeMessage writes a plain confirmation or error string as a JSON string.
func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, msg)
}

func writeUnauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, problemResponse{StatusCode: http.StatusUnauthorized, Message: msgUnauthorized})
}
