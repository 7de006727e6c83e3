package main

import (
	"encoding/json"
	"net/http"

	apperrors "notigate/internal/errors"
)

type sendRequest struct {
	UserID string `json:"user_id"`
	Body   string `json:"body"`
}

type sendResponse struct {
	Sent bool `json:"sent"`
}

type resolveRequest struct {
	OwnerID string `json:"owner_id"`
	Name    string `json:"name"`
}

type resolveResponse struct {
	Email string `json:"email"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// handleSend delivers a notification to a user's preferred platform.
// Called by trusted backend services, not by the platforms.
func (s *Server) handleSend() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sendRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxWebhookBody)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid request body"))
			return
		}
		if req.UserID == "" || req.Body == "" {
			writeError(w, http.StatusBadRequest, apperrors.New(apperrors.ErrCodeInvalidInput, "user_id and body are required"))
			return
		}

		sent, err := s.messenger.SendToUserID(r.Context(), req.UserID, req.Body)
		if err != nil {
			writeError(w, statusForCode(apperrors.GetCode(err)), err)
			return
		}

		writeJSON(w, http.StatusOK, sendResponse{Sent: sent})
	}
}

// handleResolve resolves a free-text name to an email over the owner's
// contact group.
func (s *Server) handleResolve() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.resolver == nil {
			writeError(w, http.StatusServiceUnavailable,
				apperrors.New(apperrors.ErrCodeInvalidConfig, "user API is not configured"))
			return
		}

		var req resolveRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxWebhookBody)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid request body"))
			return
		}
		if req.OwnerID == "" {
			writeError(w, http.StatusBadRequest, apperrors.New(apperrors.ErrCodeInvalidInput, "owner_id is required"))
			return
		}

		email, err := s.resolver.ResolveNameForUser(r.Context(), req.OwnerID, req.Name)
		if err != nil {
			writeError(w, statusForCode(apperrors.GetCode(err)), err)
			return
		}

		writeJSON(w, http.StatusOK, resolveResponse{Email: email})
	}
}

func statusForCode(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case apperrors.ErrCodeNameNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeAmbiguousName:
		return http.StatusConflict
	case apperrors.ErrCodeRecipientNotApproved:
		return http.StatusForbidden
	case apperrors.ErrCodeChannelDisabled, apperrors.ErrCodeNoChannelConfigured:
		return http.StatusUnprocessableEntity
	case apperrors.ErrCodeTransportFailure, apperrors.ErrCodeTokenExpired:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{
		Error: err.Error(),
		Code:  string(apperrors.GetCode(err)),
	})
}
