// importer/handlers.go
package importer

import (
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/dpereira/financas/internal/api/middleware"
	"github.com/dpereira/financas/internal/banking"
	"github.com/dpereira/financas/pkg/bankclient"
)

// Handler exposes the import trigger route
type Handler struct {
	importer *Importer
	log      zerolog.Logger
}

// NewHandler creates a new import handler
func NewHandler(importer *Importer, log zerolog.Logger) *Handler {
	return &Handler{importer: importer, log: log}
}

// ImportHandler runs an import on demand. Optional "from" and "to" query
// parameters (calendar dates) bound the window; the default is the trailing
// 30 days.
func (h *Handler) ImportHandler(w http.ResponseWriter, r *http.Request) {
	var window bankclient.DateRange

	if from := r.URL.Query().Get("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "invalid from date, want YYYY-MM-DD")
			return
		}
		window.From = t
	}
	if to := r.URL.Query().Get("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "invalid to date, want YYYY-MM-DD")
			return
		}
		window.To = t
	}

	result, err := h.importer.Run(r.Context(), window)
	if err != nil {
		if errors.Is(err, banking.ErrTokenMissing) || errors.Is(err, banking.ErrReauthorizationRequired) {
			middleware.WriteError(w, http.StatusUnauthorized, err.Error())
			return
		}
		h.log.Error().Err(err).Msg("Import failed")
		middleware.WriteError(w, http.StatusBadGateway, err.Error())
		return
	}

	middleware.WriteJSON(w, http.StatusOK, result)
}
