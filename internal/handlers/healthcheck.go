package handlers

import "net/http"

// NewHealthcheckHandler returns an HTTP handler reporting service liveness.
// @Summary Healthcheck
// @Description Returns 200 when the service is up
// @Tags healthcheck
// @Produce json
// @Success 200 {object} handlers.APIResponse "Service is healthy"
// @Router /healthcheck [get]
func NewHealthcheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeSuccess(w, http.StatusOK, nil, "OK")
	}
}
