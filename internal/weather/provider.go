package weather

import (
	"context"
)

// Forecaster abstracts the external forecast lookup (e.g. WeatherAPI.com).
type Forecaster interface {
	Forecast(ctx context.Context, q Query) (Report, error)
}

// Store is the contract the record stores (MongoDB, in-memory) must satisfy.
type Store interface {
	Create(ctx context.Context, f Fields) (Record, error)
	List(ctx context.Context) ([]Record, error)
	Update(ctx context.Context, id string, patch Fields) (Record, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
