package router

import (
	"log"
	"net/http"

	"github.com/google/uuid"
)

// RequestID tags the request with a correlation id, echoed in the
// X-Request-Id response header and logged alongside method and path.
// An id supplied by the caller is kept.
func RequestID(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		log.Printf("%s %s %s", id, r.Method, r.URL.Path)

		handler(w, r)
	}
}
