// banking/session.go
package banking

import (
	"net/http"

	"github.com/gorilla/sessions"
)

var (
	store *sessions.CookieStore
)

// InitSessionStore initializes the cookie session store used to carry the
// authorization flow state across the bank redirect
func InitSessionStore(secret []byte) {
	store = sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   600, // a flow has 10 minutes to complete
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

// GetSession retrieves the flow session
func GetSession(r *http.Request) *sessions.Session {
	session, _ := store.Get(r, "bank-auth-session")
	return session
}
