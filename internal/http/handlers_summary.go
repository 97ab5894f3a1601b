package http

import (
	"bytes"
	"net/http"

	"budget/internal/chart"
	"budget/internal/core"
	applog "budget/internal/log"
)

type sliceView struct {
	Label   string  `json:"label"`
	Color   string  `json:"color"`
	Amount  float64 `json:"amount"`
	Percent string  `json:"percent"`
}

type summaryView struct {
	Income          float64     `json:"income"`
	Expenses        float64     `json:"expenses"`
	Savings         float64     `json:"savings"`
	RecordedSavings float64     `json:"recorded_savings"`
	NoData          bool        `json:"no_data"`
	Slices          []sliceView `json:"slices"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	b := s.store.Summary()
	view := summaryView{
		Income:          b.Income.Float(),
		Expenses:        b.Expenses.Float(),
		Savings:         b.Savings.Float(),
		RecordedSavings: b.RecordedSavings.Float(),
		NoData:          b.NoData(),
		Slices:          []sliceView{},
	}
	for _, sl := range chart.Slices(b) {
		view.Slices = append(view.Slices, sliceView{
			Label:   sl.Label,
			Color:   sl.Color,
			Amount:  sl.Amount.Float(),
			Percent: sl.Percent(),
		})
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := chart.RenderSVG(&buf, s.store.Summary()); err != nil {
		applog.FromContext(r.Context()).WithComponent(applog.ComponentChart).ErrorContext(r.Context(), "Chart rendering failed",
			applog.FieldOperation, applog.OpRender,
			applog.FieldError, err)
		http.Error(w, "chart unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(buf.Bytes())
}

func handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, core.SuggestedCategories)
}
