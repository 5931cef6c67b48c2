package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"calldex/internal/auth"
	"calldex/internal/directory"
)

type AuthHandler struct {
	Svc *directory.Service
	JWT *auth.JWT
}

type registerReq struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Number   int64  `json:"number"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrMsg(w, http.StatusBadRequest, "bad json")
		return
	}
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	u, err := h.Svc.Register(r.Context(), directory.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Number:   req.Number,
	})
	if err != nil {
		writeErr(w, err)
		return
	}

	pair, err := h.JWT.IssuePair(u.ID)
	if err != nil {
		writeErrMsg(w, http.StatusInternalServerError, "server error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":       "user registered successfully",
		"access_token":  pair.Access,
		"refresh_token": pair.Refresh,
	})
}

type loginReq struct {
	Number   int64  `json:"number"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrMsg(w, http.StatusBadRequest, "bad json")
		return
	}

	u, err := h.Svc.Authenticate(r.Context(), req.Number, req.Password)
	if err != nil {
		writeErr(w, err)
		return
	}

	pair, err := h.JWT.IssuePair(u.ID)
	if err != nil {
		writeErrMsg(w, http.StatusInternalServerError, "server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"access":  pair.Access,
		"refresh": pair.Refresh,
	})
}

type refreshReq struct {
	Refresh string `json:"refresh"`
}

// Refresh redeems a refresh token for a fresh access/refresh pair. The user
// must still exist.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrMsg(w, http.StatusBadRequest, "bad json")
		return
	}
	if strings.TrimSpace(req.Refresh) == "" {
		writeErrMsg(w, http.StatusBadRequest, "refresh token required")
		return
	}

	uid, err := h.JWT.VerifyRefresh(req.Refresh)
	if err != nil {
		writeErrMsg(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	if _, err := h.Svc.UserByID(r.Context(), uid); err != nil {
		writeErrMsg(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	pair, err := h.JWT.IssuePair(uid)
	if err != nil {
		writeErrMsg(w, http.StatusInternalServerError, "server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"access":  pair.Access,
		"refresh": pair.Refresh,
	})
}
