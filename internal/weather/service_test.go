package weather_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-logbook/internal/observability"
	"github.com/i474232898/weather-logbook/internal/store"
	"github.com/i474232898/weather-logbook/internal/weather"
)

type stubForecaster struct {
	report weather.Report
	err    error
	got    []weather.Query
}

func (s *stubForecaster) Forecast(_ context.Context, q weather.Query) (weather.Report, error) {
	s.got = append(s.got, q)
	return s.report, s.err
}

func newService() (*weather.Service, *observability.Metrics) {
	m := observability.NewMetricsForTesting()
	return weather.NewService(store.NewMemoryStore(nil), observability.NopLogger(), m), m
}

func TestService_CRUDPassthrough(t *testing.T) {
	svc, m := newService()
	ctx := context.Background()

	recs, err := svc.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)

	rec, err := svc.Create(ctx, weather.Fields{Location: weather.Ptr("Seattle")})
	require.NoError(t, err)

	_, err = svc.Update(ctx, rec.ID.Hex(), weather.Fields{Humidity: weather.Ptr("55%")})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "bogus", weather.Fields{})
	assert.ErrorIs(t, err, store.ErrInvalidID)

	require.NoError(t, svc.Delete(ctx, rec.ID.Hex()))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RecordOperations.WithLabelValues("create", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RecordOperations.WithLabelValues("update", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RecordOperations.WithLabelValues("update", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RecordOperations.WithLabelValues("delete", "success")))
}

func TestService_Snapshot(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	f := &stubForecaster{report: weather.Report{
		Place:   weather.Place{Name: "Seattle"},
		Current: weather.Current{TempC: 18, Humidity: 60, Condition: weather.Condition{Text: "Cloudy"}},
		Days:    []weather.ForecastDay{{Date: "2025-06-01"}, {Date: "2025-06-05"}},
	}}

	rec, err := svc.Snapshot(ctx, f, weather.TextQuery("Seattle"))
	require.NoError(t, err)
	assert.Equal(t, "Seattle", *rec.Location)
	assert.Equal(t, "18°C", *rec.Temperature)
	assert.Equal(t, "Cloudy", *rec.Description)
	require.Len(t, f.got, 1)
	assert.Equal(t, "Seattle", f.got[0].String())
}

func TestService_SnapshotLookupFailureStoresNothing(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.Snapshot(ctx, &stubForecaster{err: errors.New("boom")}, weather.TextQuery("Seattle"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Seattle")

	recs, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestService_CheckReadiness(t *testing.T) {
	svc, _ := newService()
	assert.NoError(t, svc.CheckReadiness(context.Background()))
}

func TestService_NilLoggerAndMetrics(t *testing.T) {
	svc := weather.NewService(store.NewMemoryStore(nil), nil, nil)
	ctx := context.Background()

	rec, err := svc.Create(ctx, weather.Fields{Location: weather.Ptr("Seattle")})
	require.NoError(t, err)
	_, err = svc.Update(ctx, rec.ID.Hex(), weather.Fields{Humidity: weather.Ptr("55%")})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, rec.ID.Hex()))
}
