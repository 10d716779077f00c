package app

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gtfs-tools/transitaccess/internal/appconf"
)

func newTestApp(keys ...string) *Application {
	return &Application{Config: appconf.Config{ApiKeys: keys}}
}

func TestBlankKeyIsInvalid(t *testing.T) {
	assert.True(t, newTestApp("key").IsInvalidAPIKey(""))
	assert.True(t, newTestApp().IsInvalidAPIKey("key"), "no configured keys rejects everything")
}

func TestConfiguredKeysAreValid(t *testing.T) {
	app := newTestApp("alpha", "beta")
	assert.False(t, app.IsInvalidAPIKey("alpha"))
	assert.False(t, app.IsInvalidAPIKey("beta"))
	assert.True(t, app.IsInvalidAPIKey("gamma"))
	assert.True(t, app.IsInvalidAPIKey("alph"))
}

func TestRequestAPIKey(t *testing.T) {
	tests := []struct {
		name   string
		target string
		header string
		want   string
	}{
		{"query", "/api/where/trip-counts?key=q", "", "q"},
		{"header", "/api/where/trip-counts", "h", "h"},
		{"query wins", "/api/where/trip-counts?key=q", "h", "q"},
		{"none", "/api/where/trip-counts", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.target, nil)
			if tt.header != "" {
				r.Header.Set(APIKeyHeader, tt.header)
			}
			assert.Equal(t, tt.want, RequestAPIKey(r))
		})
	}
}

func TestRequestHasInvalidAPIKey(t *testing.T) {
	app := newTestApp("test")
	assert.False(t, app.RequestHasInvalidAPIKey(httptest.NewRequest("GET", "/api/where/trip-counts?key=test", nil)))
	assert.True(t, app.RequestHasInvalidAPIKey(httptest.NewRequest("GET", "/api/where/trip-counts", nil)))

	r := httptest.NewRequest("GET", "/api/where/trip-counts", nil)
	r.Header.Set(APIKeyHeader, "test")
	assert.False(t, app.RequestHasInvalidAPIKey(r))
}
