package auth

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const callbackPage = `<html><body><p>%s</p></body></html>`

// newCallbackRouter serves GET /callback for the OAuth redirect. A request
// whose state does not match is rejected and the flow keeps waiting. The
// first valid code or provider error is delivered on results.
func newCallbackRouter(state string, results chan<- callbackResult, log *zap.Logger) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Get("/callback", handleCallback(state, results, log))
	return router
}

func handleCallback(state string, results chan<- callbackResult, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		if q.Get("state") != state {
			log.Warn("callback: state mismatch")
			writePage(w, http.StatusBadRequest, "Sign-in failed: state mismatch.")
			return
		}

		if e := q.Get("error"); e != "" {
			deliver(results, callbackResult{err: fmt.Errorf("authorization denied: %s %s", e, q.Get("error_description"))})
			writePage(w, http.StatusForbidden, "Sign-in was cancelled. You can close this tab.")
			return
		}

		code := q.Get("code")
		if code == "" {
			writePage(w, http.StatusBadRequest, "Sign-in failed: missing code.")
			return
		}

		deliver(results, callbackResult{code: code})
		writePage(w, http.StatusOK, "Signed in to prdash. You can close this tab.")
	}
}

func deliver(results chan<- callbackResult, res callbackResult) {
	select {
	case results <- res:
	default:
		// a result is already pending
	}
}

func writePage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, callbackPage, msg)
}
