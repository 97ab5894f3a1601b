package http

import (
	"net/http"

	"budget/internal/core"
	"budget/internal/ledger"
	applog "budget/internal/log"
)

// transactionView is one row of the transaction log.
type transactionView struct {
	Position      int     `json:"position"`
	ID            string  `json:"id"`
	Date          string  `json:"date"`
	Type          string  `json:"type"`
	Amount        float64 `json:"amount"`
	AmountDisplay string  `json:"amount_display"`
	Category      string  `json:"category"`
	Notes         string  `json:"notes"`
}

func newTransactionView(pos int, t core.Transaction) transactionView {
	return transactionView{
		Position:      pos,
		ID:            t.ID,
		Date:          t.Date,
		Type:          t.Type.String(),
		Amount:        t.Amount.Float(),
		AmountDisplay: formatAmount(t.Amount),
		Category:      t.Category,
		Notes:         t.Notes,
	}
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	all := s.store.All()
	rows := make([]transactionView, len(all))
	for i, t := range all {
		rows[i] = newTransactionView(i, t)
	}
	writeJSON(w, http.StatusOK, rows)
}

// handleCreateTransaction serves the three input sections. Category is only
// read for the expenses section.
func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	typ, err := core.ParseType(r.PathValue("section"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "unknown section"})
		return
	}

	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed request body"})
		return
	}

	in := ledger.NewTransaction{
		Date:   p.Get("date"),
		Type:   typ,
		Amount: p.Get("amount"),
		Notes:  p.Get("notes"),
	}
	if typ.HasCategory() {
		in.Category = p.Get("category")
	}

	t, err := s.store.Add(r.Context(), in)
	if err != nil {
		writeError(w, r, applog.OpCreate, err)
		return
	}
	pos, _ := s.store.Position(t.ID)
	writeJSON(w, http.StatusCreated, newTransactionView(pos, t))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	edit, ok := parseEdit(w, r)
	if !ok {
		return
	}
	t, err := s.store.UpdateByID(r.Context(), r.PathValue("id"), edit)
	if err != nil {
		writeError(w, r, applog.OpUpdate, err)
		return
	}
	pos, _ := s.store.Position(t.ID)
	writeJSON(w, http.StatusOK, newTransactionView(pos, t))
}

func (s *Server) handleUpdateAtPosition(w http.ResponseWriter, r *http.Request) {
	pos, ok := parsePosition(r.PathValue("position"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid position"})
		return
	}
	edit, ok := parseEdit(w, r)
	if !ok {
		return
	}
	t, err := s.store.Update(r.Context(), pos, edit)
	if err != nil {
		writeError(w, r, applog.OpUpdate, err)
		return
	}
	writeJSON(w, http.StatusOK, newTransactionView(pos, t))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.DeleteByID(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, applog.OpDelete, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteAtPosition(w http.ResponseWriter, r *http.Request) {
	pos, ok := parsePosition(r.PathValue("position"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid position"})
		return
	}
	if _, err := s.store.Delete(r.Context(), pos); err != nil {
		writeError(w, r, applog.OpDelete, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseEdit(w http.ResponseWriter, r *http.Request) (ledger.Edit, bool) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed request body"})
		return ledger.Edit{}, false
	}
	return ledger.Edit{
		Date:     p.Get("date"),
		Amount:   p.Get("amount"),
		Category: p.Get("category"),
		Notes:    p.Get("notes"),
	}, true
}
