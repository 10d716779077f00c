package gtfsdb

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gtfs-tools/transitaccess/internal/appconf"
	"github.com/gtfs-tools/transitaccess/internal/testutil"
)

func newFeedBuilder() *testutil.FeedBuilder {
	return testutil.NewFeedBuilder()
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient(NewConfig(":memory:", appconf.Test, false))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}
