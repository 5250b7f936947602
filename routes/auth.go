// routes/auth.go
package routes

import (
	"github.com/gorilla/mux"

	"github.com/dpereira/financas/internal/banking"
)

// RegisterBankRoutes registers the bank authorization routes
func RegisterBankRoutes(router *mux.Router, authHandler *banking.Handler) {
	router.HandleFunc("/bank/connect", authHandler.ConnectHandler).Methods("GET")
	router.HandleFunc("/bank/callback", authHandler.CallbackHandler).Methods("GET")
	router.HandleFunc("/bank/status", authHandler.StatusHandler).Methods("GET")
	router.HandleFunc("/bank/disconnect", authHandler.DisconnectHandler).Methods("POST")
}
