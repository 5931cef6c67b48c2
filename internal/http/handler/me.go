package handler

import (
	"net/http"

	"calldex/internal/auth"
	"calldex/internal/directory"
)

type MeHandler struct {
	Svc *directory.Service
}

func (h *MeHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	u, err := h.Svc.UserByID(r.Context(), uid)
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":        u.ID,
		"full_name": u.FullName,
		"email":     u.Email,
		"number":    u.PrimaryContact.Number,
	})
}
