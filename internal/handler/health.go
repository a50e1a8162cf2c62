package handler

import (
	"net/http"

	"wikipress/internal/httputil"
)

// Health reports service liveness
// GET /health
func Health(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	}
}
