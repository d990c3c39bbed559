package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func pathParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

// idParam parses an int64 route parameter; 0 means absent or malformed.
func idParam(r *http.Request, name string) int64 {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
