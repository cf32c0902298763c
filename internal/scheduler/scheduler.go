package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-logbook/internal/observability"
	"github.com/i474232898/weather-logbook/internal/weather"
)

const lookupTimeout = 30 * time.Second

// Snapshotter looks a place up and stores the derived record.
type Snapshotter interface {
	Snapshot(ctx context.Context, f weather.Forecaster, q weather.Query) (weather.Record, error)
}

// Tracker periodically logs the weather for a fixed set of locations.
type Tracker struct {
	scheduler  *gocron.Scheduler
	service    Snapshotter
	forecaster weather.Forecaster
	locations  []string
	interval   time.Duration
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// New creates a new Tracker.
func New(locations []string, interval time.Duration, service Snapshotter, forecaster weather.Forecaster,
	logger *slog.Logger, metrics *observability.Metrics) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		scheduler:  gocron.NewScheduler(time.UTC),
		service:    service,
		forecaster: forecaster,
		locations:  locations,
		interval:   interval,
		logger:     logger,
		metrics:    metrics,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first run happens immediately.
func (t *Tracker) Start() error {
	if len(t.locations) == 0 {
		t.logger.Info("tracker: no locations configured; nothing to schedule")
		return nil
	}

	interval := t.interval
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	if _, err := t.scheduler.Every(interval).Do(t.runOnce); err != nil {
		return err
	}
	if t.metrics != nil {
		t.metrics.TrackedLocations.Set(float64(len(t.locations)))
	}

	t.logger.Info("tracker started", "locations", len(t.locations), "interval", interval)
	t.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future runs.
func (t *Tracker) Stop() {
	if t.scheduler != nil {
		t.scheduler.Stop()
	}
}

// runOnce looks up every location in parallel. Each lookup is a single attempt.
func (t *Tracker) runOnce() {
	t.logger.Debug("tracker: running lookup job")

	var wg sync.WaitGroup
	for _, loc := range t.locations {
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
			defer cancel()

			rec, err := t.service.Snapshot(ctx, t.forecaster, weather.TextQuery(loc))
			if t.metrics != nil {
				t.metrics.TrackerLookups.WithLabelValues(observability.Outcome(err)).Inc()
			}
			if err != nil {
				t.logger.Warn("tracker: lookup failed", "location", loc, "error", err)
				return
			}
			t.logger.Info("tracker: weather logged", "location", loc, "id", rec.ID.Hex())
		}()
	}
	wg.Wait()

	t.logger.Debug("tracker: completed lookup job")
}
