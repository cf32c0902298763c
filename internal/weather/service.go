package weather

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/i474232898/weather-logbook/internal/observability"
)

// Service exposes the record store to the HTTP API and the tracker.
// Every operation is a direct passthrough; the store owns identity and timestamps.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewService creates a new Service.
// A nil logger uses slog.Default; nil metrics are not recorded.
func NewService(store Store, logger *slog.Logger, metrics *observability.Metrics) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:   store,
		logger:  logger,
		metrics: metrics,
	}
}

// Create stores a new record built from f.
func (s *Service) Create(ctx context.Context, f Fields) (Record, error) {
	rec, err := s.store.Create(ctx, f)
	s.observe("create", err)
	if err != nil {
		return Record{}, err
	}
	s.logger.Debug("record created", "id", rec.ID.Hex())
	return rec, nil
}

// List returns every stored record in store order. The result is never nil.
func (s *Service) List(ctx context.Context) ([]Record, error) {
	recs, err := s.store.List(ctx)
	s.observe("list", err)
	if err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []Record{}
	}
	return recs, nil
}

// Update replaces the fields set in patch on the record with the given id.
func (s *Service) Update(ctx context.Context, id string, patch Fields) (Record, error) {
	rec, err := s.store.Update(ctx, id, patch)
	s.observe("update", err)
	if err != nil {
		return Record{}, err
	}
	s.logger.Debug("record updated", "id", id)
	return rec, nil
}

// Delete removes the record with the given id. Deleting a missing record is not an error.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.store.Delete(ctx, id)
	s.observe("delete", err)
	if err != nil {
		return err
	}
	s.logger.Debug("record deleted", "id", id)
	return nil
}

// Snapshot looks q up with f and stores the derived record.
func (s *Service) Snapshot(ctx context.Context, f Forecaster, q Query) (Record, error) {
	report, err := f.Forecast(ctx, q)
	if err != nil {
		return Record{}, fmt.Errorf("forecast %q: %w", q.String(), err)
	}
	return s.Create(ctx, NewRecordFields(report))
}

// CheckReadiness reports whether the store is reachable.
func (s *Service) CheckReadiness(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) observe(op string, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordOperations.WithLabelValues(op, observability.Outcome(err)).Inc()
}
