package webui

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// SetWebUIRoutes registers the debug page. It is not key protected and must
// not be exposed in production.
func (webUI *WebUI) SetWebUIRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/debug/", webUI.debugIndexHandler)
}
