package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"budget/internal/core"
	"budget/internal/ledger"
	applog "budget/internal/log"
)

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
}

// writeError maps store errors onto status codes: rejected input is 422,
// unknown records are 404, anything else is 500 and gets logged as an error.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	logger := applog.FromContext(r.Context())
	switch {
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyDate),
		errors.Is(err, core.ErrInvalidType):
		logger.DebugContext(r.Context(), "Transaction input rejected",
			applog.FieldOperation, op,
			applog.FieldError, err,
			applog.FieldErrorType, applog.ErrorTypeValidation)
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error()})
	case errors.Is(err, ledger.ErrNotFound),
		errors.Is(err, ledger.ErrPositionOutOfRange):
		logger.DebugContext(r.Context(), "Transaction not found",
			applog.FieldOperation, op,
			applog.FieldError, err,
			applog.FieldErrorType, applog.ErrorTypeNotFound)
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	default:
		logger.ErrorContext(r.Context(), "Transaction operation failed",
			applog.FieldOperation, op,
			applog.FieldError, err,
			applog.FieldErrorType, applog.ErrorTypeStorage)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "could not save transactions"})
	}
}

// parsePosition reads a zero-based position path value.
func parsePosition(s string) (int, bool) {
	pos, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || pos < 0 {
		return 0, false
	}
	return pos, true
}

// formatAmount renders money with thousands separators, e.g. "1,234.50".
func formatAmount(m core.Money) string {
	whole := humanize.Comma(m.Cents / 100)
	return whole + "." + leftPad2(m.Cents%100)
}

func leftPad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
