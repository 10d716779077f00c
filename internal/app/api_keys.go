package app

import (
	"crypto/subtle"
	"net/http"
)

// APIKeyHeader carries the key for clients that keep it out of URLs.
const APIKeyHeader = "X-API-Key"

// RequestAPIKey returns the ?key= query parameter, falling back to the
// X-API-Key header.
func RequestAPIKey(r *http.Request) string {
	if key := r.URL.Query().Get("key"); key != "" {
		return key
	}
	return r.Header.Get(APIKeyHeader)
}

func (app *Application) RequestHasInvalidAPIKey(r *http.Request) bool {
	return app.IsInvalidAPIKey(RequestAPIKey(r))
}

// IsInvalidAPIKey compares key against every configured key in constant time.
func (app *Application) IsInvalidAPIKey(key string) bool {
	if key == "" {
		return true
	}

	valid := false
	for _, configured := range app.Config.ApiKeys {
		if subtle.ConstantTimeCompare([]byte(key), []byte(configured)) == 1 {
			valid = true
		}
	}
	return !valid
}
