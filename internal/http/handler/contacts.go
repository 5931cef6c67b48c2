package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"calldex/internal/auth"
	"calldex/internal/directory"
)

type ContactsHandler struct {
	Svc *directory.Service
}

func (h *ContactsHandler) SearchByNumber(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	number, ok := numberParam(w, r)
	if !ok {
		return
	}

	res, err := h.Svc.SearchByNumber(r.Context(), uid, number)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ContactsHandler) SearchByName(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	name := r.URL.Query().Get("name")
	if strings.TrimSpace(name) == "" {
		writeErrMsg(w, http.StatusBadRequest, "name is required")
		return
	}

	res, err := h.Svc.SearchByName(r.Context(), uid, name)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": res})
}

type reportReq struct {
	Number int64 `json:"number"`
}

func (h *ContactsHandler) Report(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req reportReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrMsg(w, http.StatusBadRequest, "bad json")
		return
	}

	if err := h.Svc.ReportNumber(r.Context(), uid, req.Number); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "contact reported successfully"})
}

func (h *ContactsHandler) Details(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	idStr := r.URL.Query().Get("id")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		writeErrMsg(w, http.StatusBadRequest, "invalid id")
		return
	}
	registered := boolParam(r.URL.Query().Get("is_registered"))

	d, err := h.Svc.GetContactDetails(r.Context(), uid, id, registered)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

type saveAliasReq struct {
	Number int64  `json:"number"`
	Alias  string `json:"alias"`
}

func (h *ContactsHandler) SaveAlias(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req saveAliasReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrMsg(w, http.StatusBadRequest, "bad json")
		return
	}
	req.Alias = strings.TrimSpace(req.Alias)

	entry, created, err := h.Svc.SaveAlias(r.Context(), uid, req.Number, req.Alias)
	if err != nil {
		writeErr(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, entry)
}

func (h *ContactsHandler) PhoneBook(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	rows, err := h.Svc.PhoneBook(r.Context(), uid)
	if err != nil {
		writeErr(w, err)
		return
	}
	if rows == nil {
		rows = []directory.PhoneBookRow{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": rows})
}

func numberParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("number"))
	if raw == "" {
		writeErrMsg(w, http.StatusBadRequest, "phone number is required")
		return 0, false
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeErrMsg(w, http.StatusBadRequest, "invalid phone number")
		return 0, false
	}
	return n, true
}

func boolParam(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true":
		return true
	}
	return false
}
