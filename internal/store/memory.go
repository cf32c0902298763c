package store

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/i474232898/weather-logbook/internal/weather"
)

// MemoryStore is a concurrency-safe in-memory implementation of weather.Store.
// Records are listed in insertion order.
type MemoryStore struct {
	mu sync.RWMutex

	records map[primitive.ObjectID]weather.Record
	order   []primitive.ObjectID

	clock clockwork.Clock
}

// NewMemoryStore creates an empty MemoryStore. A nil clock uses real time.
func NewMemoryStore(clock clockwork.Clock) *MemoryStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MemoryStore{
		records: make(map[primitive.ObjectID]weather.Record),
		clock:   clock,
	}
}

// Create assigns an id and creation time and stores the record.
func (s *MemoryStore) Create(_ context.Context, f weather.Fields) (weather.Record, error) {
	rec := weather.Record{
		ID:        primitive.NewObjectID(),
		Fields:    cloneFields(f),
		CreatedAt: s.clock.Now().UTC().Truncate(time.Millisecond),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[rec.ID] = rec
	s.order = append(s.order, rec.ID)

	return copyRecord(rec), nil
}

// List returns all records in insertion order.
func (s *MemoryStore) List(_ context.Context) ([]weather.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]weather.Record, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, copyRecord(s.records[id]))
	}
	return result, nil
}

// Update merges the set fields of patch into the record.
func (s *MemoryStore) Update(_ context.Context, id string, patch weather.Fields) (weather.Record, error) {
	oid, err := ParseID(id)
	if err != nil {
		return weather.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[oid]
	if !ok {
		return weather.Record{}, ErrNotFound
	}
	if !patch.IsEmpty() {
		rec.Fields = rec.Fields.Merge(cloneFields(patch))
		s.records[oid] = rec
	}

	return copyRecord(rec), nil
}

// Delete removes the record if present.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	oid, err := ParseID(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[oid]; !ok {
		return nil
	}
	delete(s.records, oid)
	for i, v := range s.order {
		if v == oid {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

func copyRecord(r weather.Record) weather.Record {
	r.Fields = cloneFields(r.Fields)
	return r
}

// cloneFields copies every pointer so callers never share state with the store.
func cloneFields(f weather.Fields) weather.Fields {
	out := weather.Fields{
		Location:    cloneString(f.Location),
		Temperature: cloneString(f.Temperature),
		Humidity:    cloneString(f.Humidity),
		Description: cloneString(f.Description),
	}
	if f.DateRange != nil {
		out.DateRange = &weather.DateRange{
			Start: cloneTime(f.DateRange.Start),
			End:   cloneTime(f.DateRange.End),
		}
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
