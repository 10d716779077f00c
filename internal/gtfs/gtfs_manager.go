package gtfs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gtfs-tools/transitaccess/gtfsdb"
	"github.com/gtfs-tools/transitaccess/internal/logging"
	"github.com/gtfs-tools/transitaccess/internal/schedule"
)

// Manager owns the schedule store and the indexed feed built from it. The feed
// is replaced atomically when the source changes; readers always see a
// complete feed.
type Manager struct {
	GtfsDB       *gtfsdb.Client
	config       Config
	logger       *slog.Logger
	feed         *schedule.Feed
	lastUpdated  time.Time
	feedMutex    sync.RWMutex
	shutdownChan chan struct{}
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// InitGTFSManager opens the store, imports the configured sources and builds
// the feed. A remote source is refreshed in the background until Shutdown.
func InitGTFSManager(ctx context.Context, config Config) (*Manager, error) {
	dbConfig := gtfsdb.NewConfig(config.GTFSDataPath, config.Env, config.Verbose).WithLogger(config.logger())
	client, err := gtfsdb.NewClient(dbConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create GTFS database client: %w", err)
	}

	manager := &Manager{
		GtfsDB:       client,
		config:       config,
		logger:       config.logger(),
		shutdownChan: make(chan struct{}),
	}

	if _, err := manager.importStatic(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	if config.runsEnabled() {
		if err := client.ImportRunsFromFiles(ctx, config.RunsFile, config.RunSchedulesFile); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("error importing runs: %w", err)
		}
	}
	if err := manager.Reload(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}

	if config.GtfsURL != "" && !config.isLocalFile() {
		manager.wg.Add(1)
		go manager.updateStaticGTFS()
	}

	return manager, nil
}

// Shutdown stops background refreshes and closes the store.
func (manager *Manager) Shutdown() {
	manager.shutdownOnce.Do(func() {
		close(manager.shutdownChan)
		manager.wg.Wait()
		if manager.GtfsDB != nil {
			logging.SafeCloseWithLogging(manager.GtfsDB, manager.logger, "close_gtfs_db")
		}
	})
}

// Feed returns the current indexed feed.
func (manager *Manager) Feed() *schedule.Feed {
	manager.feedMutex.RLock()
	defer manager.feedMutex.RUnlock()
	return manager.feed
}

func (manager *Manager) LastUpdated() time.Time {
	manager.feedMutex.RLock()
	defer manager.feedMutex.RUnlock()
	return manager.lastUpdated
}

// Reload rebuilds the feed from the store and swaps it in.
func (manager *Manager) Reload(ctx context.Context) error {
	feed, err := schedule.LoadFeed(ctx, manager.GtfsDB)
	if err != nil {
		return fmt.Errorf("error building schedule feed: %w", err)
	}
	logging.LogWarnings(manager.logger, "load_feed", feed.Warnings())

	manager.feedMutex.Lock()
	manager.feed = feed
	manager.lastUpdated = time.Now()
	manager.feedMutex.Unlock()

	if manager.config.Verbose {
		logging.LogOperation(manager.logger, "feed_loaded",
			slog.String("source", manager.config.GtfsURL),
			slog.Int("max_schedule_offset", feed.MaxScheduleOffset()),
			slog.Int("warnings", len(feed.Warnings())))
	}
	return nil
}
