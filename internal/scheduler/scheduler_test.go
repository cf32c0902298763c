package scheduler

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-logbook/internal/observability"
	"github.com/i474232898/weather-logbook/internal/store"
	"github.com/i474232898/weather-logbook/internal/weather"
)

type placeForecaster struct {
	mu      sync.Mutex
	failing map[string]bool
	calls   int
}

func (f *placeForecaster) Forecast(_ context.Context, q weather.Query) (weather.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failing[q.String()] {
		return weather.Report{}, errors.New("no matching location")
	}
	return weather.Report{
		Place:   weather.Place{Name: q.String()},
		Current: weather.Current{TempC: 10, Humidity: 50, Condition: weather.Condition{Text: "Clear"}},
		Days:    []weather.ForecastDay{{Date: "2025-06-01"}},
	}, nil
}

func TestRunOnce_LogsEachLocation(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	svc := weather.NewService(store.NewMemoryStore(nil), observability.NopLogger(), metrics)
	f := &placeForecaster{failing: map[string]bool{"Atlantis": true}}

	tr := New([]string{"Seattle", "Atlantis", "London"}, time.Hour, svc, f, observability.NopLogger(), metrics)
	tr.runOnce()

	assert.Equal(t, 3, f.calls)

	recs, err := svc.List(context.Background())
	require.NoError(t, err)

	var names []string
	for _, r := range recs {
		names = append(names, *r.Location)
	}
	sort.Strings(names)
	assert.Equal(t, []string{"London", "Seattle"}, names)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.TrackerLookups.WithLabelValues(observability.OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.TrackerLookups.WithLabelValues(observability.OutcomeError)))
}

func TestStart_NoLocations(t *testing.T) {
	tr := New(nil, time.Minute, nil, nil, observability.NopLogger(), nil)
	require.NoError(t, tr.Start())
	tr.Stop()
}

func TestStart_RunsImmediately(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	svc := weather.NewService(store.NewMemoryStore(nil), observability.NopLogger(), nil)
	f := &placeForecaster{}

	tr := New([]string{"Seattle"}, time.Hour, svc, f, observability.NopLogger(), metrics)
	require.NoError(t, tr.Start())
	defer tr.Stop()

	assert.Eventually(t, func() bool {
		recs, _ := svc.List(context.Background())
		return len(recs) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.TrackedLocations))
}
