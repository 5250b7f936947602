package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dpereira/financas/internal/api/middleware"
)

// 10 MiB cap on uploaded documents.
const maxUploadBytes = 10 << 20

// Handler exposes the financial record routes
type Handler struct {
	store *Store
	log   zerolog.Logger
}

// NewHandler creates a new records handler
func NewHandler(store *Store, log zerolog.Logger) *Handler {
	return &Handler{store: store, log: log}
}

type amountRequest struct {
	Description string          `json:"descricao"`
	Amount      decimal.Decimal `json:"valor"`
	DueDate     string          `json:"vencimento"`
	Category    string          `json:"categoria"`
	Name        string          `json:"nome"`
}

func decodeAmountRequest(r *http.Request) (amountRequest, error) {
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, fmt.Errorf("invalid request body")
	}
	return req, nil
}

// AddEntryHandler handles POST /add_entrada
func (h *Handler) AddEntryHandler(w http.ResponseWriter, r *http.Request) {
	req, err := decodeAmountRequest(r)
	if err != nil || req.Description == "" {
		middleware.WriteError(w, http.StatusBadRequest, "descricao and valor are required")
		return
	}

	if err := h.store.AddEntry(r.Context(), req.Description, req.Amount, ""); err != nil {
		h.log.Error().Err(err).Msg("Failed to add entry")
		middleware.WriteError(w, http.StatusInternalServerError, "failed to add entry")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "message": "Entrada adicionada"})
}

// AddExpenseHandler handles POST /add_gasto
func (h *Handler) AddExpenseHandler(w http.ResponseWriter, r *http.Request) {
	req, err := decodeAmountRequest(r)
	if err != nil || req.Description == "" {
		middleware.WriteError(w, http.StatusBadRequest, "descricao and valor are required")
		return
	}

	if err := h.store.AddExpense(r.Context(), req.Description, req.Category, req.Amount, ""); err != nil {
		h.log.Error().Err(err).Msg("Failed to add expense")
		middleware.WriteError(w, http.StatusInternalServerError, "failed to add expense")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "message": "Gasto adicionado"})
}

// AddDebtHandler handles POST /add_divida
func (h *Handler) AddDebtHandler(w http.ResponseWriter, r *http.Request) {
	req, err := decodeAmountRequest(r)
	if err != nil || req.Description == "" {
		middleware.WriteError(w, http.StatusBadRequest, "descricao and valor are required")
		return
	}

	if err := h.store.AddDebt(r.Context(), req.Description, req.Amount, req.DueDate); err != nil {
		h.log.Error().Err(err).Msg("Failed to add debt")
		middleware.WriteError(w, http.StatusInternalServerError, "failed to add debt")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "message": "Dívida adicionada"})
}

// FixedBillsHandler handles GET and POST /fixas. GET returns a name→amount
// map; POST upserts one bill by name.
func (h *Handler) FixedBillsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		req, err := decodeAmountRequest(r)
		if err != nil || req.Name == "" {
			middleware.WriteError(w, http.StatusBadRequest, "nome and valor are required")
			return
		}
		if err := h.store.UpsertFixedBill(r.Context(), req.Name, req.Amount); err != nil {
			h.log.Error().Err(err).Msg("Failed to upsert fixed bill")
			middleware.WriteError(w, http.StatusInternalServerError, "failed to save fixed bill")
			return
		}
		middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
		return
	}

	bills, err := h.store.ListFixedBills(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list fixed bills")
		middleware.WriteError(w, http.StatusInternalServerError, "failed to list fixed bills")
		return
	}

	out := make(map[string]decimal.Decimal, len(bills))
	for _, b := range bills {
		out[b.Name] = b.Amount
	}
	middleware.WriteJSON(w, http.StatusOK, out)
}

// DeleteHandler handles POST /deletar: it removes every entry, expense and
// debt whose description contains the given fragment.
func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	req, err := decodeAmountRequest(r)
	if err != nil || req.Description == "" {
		middleware.WriteError(w, http.StatusBadRequest, "descricao is required")
		return
	}

	deleted, err := h.store.DeleteByDescription(r.Context(), req.Description)
	if err != nil {
		h.log.Error().Err(err).Str("fragment", req.Description).Msg("Failed to delete records")
		middleware.WriteError(w, http.StatusInternalServerError, "failed to delete records")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "removidos": deleted})
}

// SummaryHandler handles GET /consultar
func (h *Handler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	summary, err := h.store.GetSummary(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to build summary")
		middleware.WriteError(w, http.StatusInternalServerError, "failed to build summary")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, summary)
}

// ListAllHandler handles GET /list_all
func (h *Handler) ListAllHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entries, err := h.store.ListEntries(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list entries")
		middleware.WriteError(w, http.StatusInternalServerError, "failed to list records")
		return
	}
	expenses, err := h.store.ListExpenses(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list expenses")
		middleware.WriteError(w, http.StatusInternalServerError, "failed to list records")
		return
	}
	debts, err := h.store.ListDebts(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list debts")
		middleware.WriteError(w, http.StatusInternalServerError, "failed to list records")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"entradas": entries,
		"gastos":   expenses,
		"dividas":  debts,
	})
}

// ChartDataHandler handles GET /grafico_dados
func (h *Handler) ChartDataHandler(w http.ResponseWriter, r *http.Request) {
	chart, err := h.store.GetChartData(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to build chart data")
		middleware.WriteError(w, http.StatusInternalServerError, "failed to build chart data")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, chart)
}

// UploadReceiptHandler handles multipart POST /comprovantes
func (h *Handler) UploadReceiptHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("arquivo")
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "arquivo is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	kind := r.FormValue("tipo")
	description := r.FormValue("descricao")
	month := r.FormValue("mes_ano")

	if err := h.store.SaveReceipt(r.Context(), kind, description, month, header.Filename, content); err != nil {
		h.log.Error().Err(err).Msg("Failed to save receipt")
		middleware.WriteError(w, http.StatusInternalServerError, "failed to save receipt")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

// ListReceiptsHandler handles GET /comprovantes
func (h *Handler) ListReceiptsHandler(w http.ResponseWriter, r *http.Request) {
	docs, err := h.store.ListReceipts(r.Context(), r.URL.Query().Get("mes_ano"))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list receipts")
		middleware.WriteError(w, http.StatusInternalServerError, "failed to list receipts")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{"comprovantes": docs})
}

// DownloadReceiptHandler handles GET /comprovantes/{id}
func (h *Handler) DownloadReceiptHandler(w http.ResponseWriter, r *http.Request) {
	h.serveDocument(w, r, h.store.GetReceiptFile)
}

// UploadPaycheckHandler handles multipart POST /contracheques
func (h *Handler) UploadPaycheckHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("arquivo")
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "arquivo is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	if err := h.store.SavePaycheck(r.Context(), r.FormValue("mes"), header.Filename, content); err != nil {
		h.log.Error().Err(err).Msg("Failed to save paycheck")
		middleware.WriteError(w, http.StatusInternalServerError, "failed to save paycheck")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

// ListPaychecksHandler handles GET /contracheques
func (h *Handler) ListPaychecksHandler(w http.ResponseWriter, r *http.Request) {
	docs, err := h.store.ListPaychecks(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list paychecks")
		middleware.WriteError(w, http.StatusInternalServerError, "failed to list paychecks")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{"contracheques": docs})
}

// DownloadPaycheckHandler handles GET /contracheques/{id}
func (h *Handler) DownloadPaycheckHandler(w http.ResponseWriter, r *http.Request) {
	h.serveDocument(w, r, h.store.GetPaycheckFile)
}

func (h *Handler) serveDocument(w http.ResponseWriter, r *http.Request, fetch func(ctx context.Context, id int64) (string, []byte, error)) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	filename, content, err := fetch(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "document not found")
			return
		}
		h.log.Error().Err(err).Int64("id", id).Msg("Failed to load document")
		middleware.WriteError(w, http.StatusInternalServerError, "failed to load document")
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write(content)
}
