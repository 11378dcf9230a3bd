package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"github.com/akinalp/kbbsite/pkg"
)

// Recovery, handler'lardaki panic'leri yakalar ve 500 döner.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Printf("[http] panic recovered on %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
				pkg.ErrorWithMessage(w, http.StatusInternalServerError, pkg.ErrInternal.Error())
			}
		}()

		next.ServeHTTP(w, r)
	})
}
