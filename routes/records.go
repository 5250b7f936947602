// routes/records.go
package routes

import (
	"github.com/gorilla/mux"

	"github.com/dpereira/financas/internal/records"
)

// RegisterRecordRoutes registers the financial record routes. Paths and
// payload field names match what the SPA front end already speaks.
func RegisterRecordRoutes(router *mux.Router, h *records.Handler) {
	router.HandleFunc("/add_entrada", h.AddEntryHandler).Methods("POST")
	router.HandleFunc("/add_gasto", h.AddExpenseHandler).Methods("POST")
	router.HandleFunc("/add_divida", h.AddDebtHandler).Methods("POST")
	router.HandleFunc("/fixas", h.FixedBillsHandler).Methods("GET", "POST")
	router.HandleFunc("/deletar", h.DeleteHandler).Methods("POST")
	router.HandleFunc("/consultar", h.SummaryHandler).Methods("GET")
	router.HandleFunc("/list_all", h.ListAllHandler).Methods("GET")
	router.HandleFunc("/grafico_dados", h.ChartDataHandler).Methods("GET")

	router.HandleFunc("/comprovantes", h.UploadReceiptHandler).Methods("POST")
	router.HandleFunc("/comprovantes", h.ListReceiptsHandler).Methods("GET")
	router.HandleFunc("/comprovantes/{id:[0-9]+}", h.DownloadReceiptHandler).Methods("GET")

	router.HandleFunc("/contracheques", h.UploadPaycheckHandler).Methods("POST")
	router.HandleFunc("/contracheques", h.ListPaychecksHandler).Methods("GET")
	router.HandleFunc("/contracheques/{id:[0-9]+}", h.DownloadPaycheckHandler).Methods("GET")
}
