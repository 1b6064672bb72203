package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/learnpoke/internal/common"
)

const maxBodyBytes = 1 << 20

type registerRequest struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	RecoveryAnswer string `json:"recoveryAnswer"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type resetRequest struct {
	Username           string `json:"username"`
	RecoveryAnswer     string `json:"recoveryAnswer"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidBody)
		return false
	}
	return true
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusOK, msgRunning)
}

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	err := s.auth.Register(r.Context(), req.Username, req.Password, req.RecoveryAnswer)
	switch {
	case err == nil:
		writeMessage(w, http.StatusOK, msgRegistered)
	case errors.Is(err, common.ErrorAlreadyExists):
		writeMessage(w, http.StatusBadRequest, msgUsernameTaken)
	case errors.Is(err, common.ErrorValidation):
		writeMessage(w, http.StatusBadRequest, err.Error())
	default:
		writeMessage(w, http.StatusInternalServerError, msgInternal)
	}
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	token, err := s.auth.Login(r.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, loginResponse{Token: token})
	case errors.Is(err, common.ErrorUnauthorized):
		writeMessage(w, http.StatusUnauthorized, msgInvalidCredentials)
	default:
		writeMessage(w, http.StatusInternalServerError, msgInternal)
	}
}

func (s *HTTPServer) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if !decodeBody(w, r, &req) {
		return
	}

	err := s.auth.ResetPassword(r.Context(), req.Username, req.RecoveryAnswer, req.NewPassword, req.ConfirmNewPassword)
	switch {
	case err == nil:
		writeMessage(w, http.StatusOK, msgPasswordReset)
	case errors.Is(err, common.ErrorNotFound):
		writeMessage(w, http.StatusBadRequest, msgUserNotFound)
	case errors.Is(err, common.ErrRecoveryAnswerMismatch):
		writeMessage(w, http.StatusBadRequest, msgWrongAnswer)
	case errors.Is(err, common.ErrPasswordMismatch):
		writeMessage(w, http.StatusBadRequest, msgPasswordMismatch)
	case errors.Is(err, common.ErrorValidation):
		writeMessage(w, http.StatusBadRequest, err.Error())
	default:
		writeMessage(w, http.StatusInternalServerError, msgInternal)
	}
}

func (s *HTTPServer) handleSession(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	resp := sessionResponse{Username: claims.Username(), TokenID: claims.ID}
	if claims.IssuedAt != nil {
		resp.IssuedAt = claims.IssuedAt.Unix()
	}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Unix()
	}
	writeJSON(w, http.StatusOK, resp)
}
