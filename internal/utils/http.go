package utils

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
)

// PathParam returns a route parameter with surrounding spaces and a trailing
// ".json" removed, so /trip-counts-for-stop/S1.json addresses stop S1.
func PathParam(r *http.Request, name string) string {
	value := httprouter.ParamsFromContext(r.Context()).ByName(name)
	return strings.TrimSuffix(strings.TrimSpace(value), ".json")
}
