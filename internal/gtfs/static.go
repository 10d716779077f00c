package gtfs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gtfs-tools/transitaccess/gtfsdb"
	"github.com/gtfs-tools/transitaccess/internal/logging"
)

// importStatic loads the configured GTFS source into the store.
func (manager *Manager) importStatic(ctx context.Context) (gtfsdb.ImportSummary, error) {
	source := manager.config.GtfsURL
	if source == "" {
		return gtfsdb.ImportSummary{Skipped: true}, nil
	}

	var (
		summary gtfsdb.ImportSummary
		err     error
	)
	if manager.config.isLocalFile() {
		summary, err = manager.GtfsDB.ImportFromFile(ctx, source)
	} else {
		summary, err = manager.GtfsDB.DownloadAndStore(ctx, source)
	}
	if err != nil {
		return summary, fmt.Errorf("error importing GTFS data from %s: %w", source, err)
	}
	return summary, nil
}

// refreshStatic re-imports the source and reloads the feed when it changed.
func (manager *Manager) refreshStatic(ctx context.Context) error {
	summary, err := manager.importStatic(ctx)
	if err != nil {
		return err
	}
	if summary.Skipped {
		return nil
	}
	return manager.Reload(ctx)
}

// updateStaticGTFS refreshes a remote source on a ticker until shutdown.
func (manager *Manager) updateStaticGTFS() {
	defer manager.wg.Done()

	ticker := time.NewTicker(manager.config.refreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			err := manager.refreshStatic(ctx)
			cancel()
			if err != nil {
				logging.LogError(manager.logger, "error updating GTFS data", err,
					slog.String("source", manager.config.GtfsURL))
			}
		case <-manager.shutdownChan:
			logging.LogOperation(manager.logger, "static_gtfs_updates_stopped")
			return
		}
	}
}
