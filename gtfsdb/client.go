package gtfsdb

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/gtfs-tools/transitaccess/internal/logging"
)

// Client is the SQLite-backed schedule store. It imports GTFS and run data and
// serves the rows the schedule engine is built from.
type Client struct {
	config        Config
	DB            *sql.DB
	logger        *slog.Logger
	importRuntime time.Duration
}

// NewClient opens the database described by config and applies the schema.
func NewClient(config Config) (*Client, error) {
	db, err := createDB(config)
	if err != nil {
		return nil, err
	}

	client := &Client{
		config: config,
		DB:     db,
		logger: config.logger(),
	}
	if config.verbose {
		logging.LogOperation(client.logger, "database_opened", slog.String("path", config.DBPath))
	}
	return client, nil
}

func (c *Client) Close() error {
	return c.DB.Close()
}

// ImportRuntime is the duration of the last GTFS import that was not skipped.
func (c *Client) ImportRuntime() time.Duration {
	return c.importRuntime
}

const downloadAttempts = 3

// DownloadAndStore downloads a GTFS zip from url and imports it. Failed
// downloads are retried with exponential backoff; 4xx responses are not.
func (c *Client) DownloadAndStore(ctx context.Context, url string) (ImportSummary, error) {
	download := func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer logging.SafeCloseWithLogging(resp.Body, c.logger, "download_gtfs")

		if resp.StatusCode != http.StatusOK {
			err := fmt.Errorf("downloading %s: unexpected status %s", url, resp.Status)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		return io.ReadAll(resp.Body)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), downloadAttempts-1), ctx)
	b, err := backoff.RetryNotifyWithData(download, policy, func(err error, wait time.Duration) {
		logging.LogError(c.logger, "retrying GTFS download", err,
			slog.String("url", url),
			slog.Duration("wait", wait))
	})
	if err != nil {
		return ImportSummary{}, err
	}

	return c.ImportGTFS(ctx, b, url)
}

// ImportFromFile imports a local GTFS zip file.
func (c *Client) ImportFromFile(ctx context.Context, path string) (ImportSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportSummary{}, err
	}

	return c.ImportGTFS(ctx, data, path)
}

// ImportRunsFromFiles imports run and run-schedule CSV files.
func (c *Client) ImportRunsFromFiles(ctx context.Context, runsPath, schedulesPath string) (err error) {
	runs, err := os.Open(runsPath)
	if err != nil {
		return err
	}
	defer logging.SafeCloseWithLogging(runs, c.logger, "close_runs_file")

	schedules, err := os.Open(schedulesPath)
	if err != nil {
		return err
	}
	defer logging.SafeCloseWithLogging(schedules, c.logger, "close_run_schedules_file")

	return c.ImportRuns(ctx, runs, schedules)
}
