package handlers

import (
	"net/http"
	"strings"
)

const apiVersion = "2.0.0"

func (a *App) Root(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"message":     "Campaign Message Generator API",
		"version":     apiVersion,
		"description": "Smart campaign message generation using Google AI",
		"endpoints": map[string]string{
			"generate_message":           "/generate-message",
			"generate_multiple_messages": "/generate-multiple-messages",
			"analyze_message":            "/analyze-message",
			"service_status":             "/service-status",
			"docs":                       "/docs",
		},
	})
}

// Health answers 200 in both states; the body says whether the backend is usable.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	st := a.Generator.Status()
	status := "unhealthy"
	if st.IsInitialized {
		status = "healthy"
	}
	a.json(w, http.StatusOK, map[string]any{
		"status":              status,
		"google_ai_available": st.APIAvailable,
	})
}

func (a *App) ServiceStatus(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, a.Generator.Status())
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
