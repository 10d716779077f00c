package restapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gtfs-tools/transitaccess/internal/app"
	"github.com/gtfs-tools/transitaccess/internal/appconf"
	"github.com/gtfs-tools/transitaccess/internal/gtfs"
	"github.com/gtfs-tools/transitaccess/internal/logging"
	"github.com/gtfs-tools/transitaccess/internal/models"
	"github.com/gtfs-tools/transitaccess/internal/testutil"
)

// createTestApi creates a RestAPI serving the default test feed from an
// in-memory database.
func createTestApi(t *testing.T) *RestAPI {
	t.Helper()
	return createTestApiWithFeed(t, testutil.NewFeedBuilder())
}

func createTestApiWithFeed(t *testing.T, feed *testutil.FeedBuilder) *RestAPI {
	t.Helper()
	logger := logging.NewStructuredLogger(io.Discard, slog.LevelInfo)
	gtfsConfig := gtfs.Config{
		GtfsURL:      feed.WriteFile(t),
		GTFSDataPath: ":memory:",
		Env:          appconf.Test,
		Logger:       logger,
	}
	gtfsManager, err := gtfs.InitGTFSManager(context.Background(), gtfsConfig)
	require.NoError(t, err)

	application := &app.Application{
		Config: appconf.Config{
			Env:       appconf.Test,
			ApiKeys:   []string{"TEST"},
			RateLimit: 100,
		},
		GtfsConfig:  gtfsConfig,
		Logger:      logger,
		GtfsManager: gtfsManager,
	}

	api := NewRestAPI(application)
	t.Cleanup(func() {
		api.Close()
		gtfsManager.Shutdown()
	})
	return api
}

// serveAndRetrieveEndpoint sets up a test server, makes a request to the specified endpoint, and returns the response
// and decoded model.
func serveAndRetrieveEndpoint(t *testing.T, endpoint string) (*RestAPI, *http.Response, models.ResponseModel) {
	api := createTestApi(t)
	resp, model := serveApiAndRetrieveEndpoint(t, api, endpoint)
	return api, resp, model
}

func serveApiAndRetrieveEndpoint(t *testing.T, api *RestAPI, endpoint string) (*http.Response, models.ResponseModel) {
	t.Helper()
	server := httptest.NewServer(api.Routes())
	defer server.Close()

	resp, err := http.Get(server.URL + endpoint)
	require.NoError(t, err)
	return resp, decodeResponse(t, resp)
}

func postApiAndRetrieveEndpoint(t *testing.T, api *RestAPI, endpoint, body string) (*http.Response, models.ResponseModel) {
	t.Helper()
	server := httptest.NewServer(api.Routes())
	defer server.Close()

	resp, err := http.Post(server.URL+endpoint, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp, decodeResponse(t, resp)
}

func decodeResponse(t *testing.T, resp *http.Response) models.ResponseModel {
	t.Helper()
	defer logging.SafeCloseWithLogging(resp.Body,
		slog.Default().With(slog.String("component", "test")),
		"http_response_body")

	var response models.ResponseModel
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&response))
	return response
}

// fieldErrorsOf fetches endpoint and decodes a validation error body.
func fieldErrorsOf(t *testing.T, api *RestAPI, endpoint string) (int, map[string][]string) {
	t.Helper()
	server := httptest.NewServer(api.Routes())
	defer server.Close()

	resp, err := http.Get(server.URL + endpoint)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var body struct {
		FieldErrors map[string][]string `json:"fieldErrors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body.FieldErrors
}

// entryOf returns data.entry of a decoded response.
func entryOf(t *testing.T, model models.ResponseModel) map[string]interface{} {
	t.Helper()
	data, ok := model.Data.(map[string]interface{})
	require.True(t, ok, "data should be an object")
	entry, ok := data["entry"].(map[string]interface{})
	require.True(t, ok, "data.entry should be an object")
	return entry
}

// listOf returns data.list of a decoded response.
func listOf(t *testing.T, model models.ResponseModel) []interface{} {
	t.Helper()
	data, ok := model.Data.(map[string]interface{})
	require.True(t, ok, "data should be an object")
	list, ok := data["list"].([]interface{})
	require.True(t, ok, "data.list should be an array")
	return list
}

// referenceIDs returns the ids listed under data.references[kind].
func referenceIDs(t *testing.T, model models.ResponseModel, kind string) []string {
	t.Helper()
	data, ok := model.Data.(map[string]interface{})
	require.True(t, ok)
	refs, ok := data["references"].(map[string]interface{})
	require.True(t, ok)
	items, ok := refs[kind].([]interface{})
	require.True(t, ok)

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.(map[string]interface{})["id"].(string))
	}
	return ids
}

func newRequest(t *testing.T, method, target, body string) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func serve(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// postFieldErrors posts body to handler and decodes a validation error body.
func postFieldErrors(t *testing.T, handler http.Handler, target, body string) (int, map[string][]string) {
	t.Helper()
	rec := serve(handler, newRequest(t, http.MethodPost, target, body))

	var decoded struct {
		FieldErrors map[string][]string `json:"fieldErrors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	return rec.Code, decoded.FieldErrors
}
