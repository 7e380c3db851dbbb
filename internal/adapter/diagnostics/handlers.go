package diagnostics

import (
	"net/http"

	"github.com/fleetsim/citysim/internal/report"
)

// statsHandler renders the current run's textual diagnostics report.
//
//	@Summary	Run diagnostics
//	@Description	Mean/median waiting time, event counts, residual backlog.
//	@Produce	plain
//	@Success	200	{string}	string
//	@Router		/stats [get]
type statsHandler struct {
	statsFn func() report.Stats
}

func (h *statsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := report.Write(w, h.statsFn()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
