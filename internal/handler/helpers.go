package handler

import (
	"net/http"
	"strconv"

	models "wikipress/internal/domain/models/wiki"
	"wikipress/internal/httputil"
)

// requireEditor resolves the caller and rejects the request with 401 when it
// lacks the edit capability. All write endpoints go through this gate.
func requireEditor(w http.ResponseWriter, r *http.Request) (models.Caller, bool) {
	caller := httputil.CallerFrom(r.Context())
	if !caller.Editor {
		httputil.RespondError(w, http.StatusUnauthorized, "Authentication required for write operations")
		return caller, false
	}
	return caller, true
}

// pageID parses the {id} path segment.
func pageID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid page ID")
		return 0, false
	}
	return id, true
}
