package handlers

import (
	"net/http"

	"campaigngen/internal/domain"
)

func (a *App) StatsSummary(w http.ResponseWriter, r *http.Request) {
	if a.Usage == nil {
		a.json(w, http.StatusOK, domain.UsageSummary{
			Operations: map[string]domain.UsageCounters{},
			Today:      map[string]domain.UsageCounters{},
		})
		return
	}
	summary, err := a.Usage.Summary(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("usage: summary failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load stats")
		return
	}
	a.json(w, http.StatusOK, summary)
}
