// routes/routes.go
package routes

import (
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/dpereira/financas/infrastructure"
	"github.com/dpereira/financas/internal/api/middleware"
	"github.com/dpereira/financas/internal/banking"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *mux.Router, c *infrastructure.Container, log zerolog.Logger) {
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(middleware.CORS)

	// Bank authorization flow
	RegisterBankRoutes(router, c.AuthHandler)

	// Bank import - requires a usable token
	importRouter := router.PathPrefix("/bank").Subrouter()
	importRouter.Use(banking.RequireToken(c.AuthService))
	importRouter.HandleFunc("/import", c.ImportHandler.ImportHandler).Methods("POST")

	// Financial records
	RegisterRecordRoutes(router, c.RecordsHandler)

	// Chat
	router.HandleFunc("/chat", c.ChatHandler.ChatHandler).Methods("POST")
}
