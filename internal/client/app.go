package client

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/i474232898/weather-logbook/internal/weather"
)

// User-facing lookup messages.
const (
	MsgLookupFailed         = "⚠️ Unable to fetch weather. Please check the input."
	MsgLocationLookupFailed = "⚠️ Could not get weather for your location."
	MsgGeoUnsupported       = "⚠️ Geolocation is not supported by your client."
	MsgGeoFailed            = "⚠️ Permission denied or unable to retrieve your location."
)

// Phase is the state of the most recent lookup.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSuccess
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return "idle"
	}
}

// State is what the client displays.
type State struct {
	Phase    Phase
	Query    string
	Place    *weather.Place
	Current  *weather.Current
	Forecast []weather.ForecastDay
	Hourly   []weather.Hour
	Error    string
	Entries  []weather.Record
}

// Records is the subset of the records API the client uses.
type Records interface {
	Create(ctx context.Context, f weather.Fields) (weather.Record, error)
	List(ctx context.Context) ([]weather.Record, error)
	Update(ctx context.Context, id string, patch weather.Fields) error
	Delete(ctx context.Context, id string) error
}

// App runs lookups, keeps the display state and logs successful lookups to the records API.
type App struct {
	forecaster weather.Forecaster
	records    Records
	locator    Locator
	logger     *slog.Logger

	mu    sync.Mutex
	state State
}

// NewApp creates an App. A nil locator disables SearchHere.
func NewApp(forecaster weather.Forecaster, records Records, locator Locator, logger *slog.Logger) *App {
	if locator == nil {
		locator = DisabledLocator{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		forecaster: forecaster,
		records:    records,
		locator:    locator,
		logger:     logger,
	}
}

// State returns a snapshot of the display state.
func (a *App) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := a.state
	s.Forecast = append([]weather.ForecastDay(nil), a.state.Forecast...)
	s.Hourly = append([]weather.Hour(nil), a.state.Hourly...)
	s.Entries = append([]weather.Record(nil), a.state.Entries...)
	return s
}

// Search looks up a free-text location (city, ZIP, landmark).
func (a *App) Search(ctx context.Context, text string) error {
	return a.lookup(ctx, weather.TextQuery(text), MsgLookupFailed)
}

// SearchHere looks up the user's current location.
func (a *App) SearchHere(ctx context.Context) error {
	lat, lon, err := a.locator.Locate(ctx)
	if err != nil {
		msg := MsgGeoFailed
		if errors.Is(err, ErrGeolocationUnsupported) {
			msg = MsgGeoUnsupported
		}
		a.logger.Warn("geolocation failed", "error", err)
		a.fail(msg)
		return err
	}
	return a.lookup(ctx, weather.CoordsQuery(lat, lon), MsgLocationLookupFailed)
}

// Refresh reloads the full record list.
func (a *App) Refresh(ctx context.Context) error {
	recs, err := a.records.List(ctx)
	if err != nil {
		a.logger.Error("error fetching entries", "error", err)
		return err
	}

	a.mu.Lock()
	a.state.Entries = recs
	a.mu.Unlock()
	return nil
}

// Update edits a stored record and reloads the list.
func (a *App) Update(ctx context.Context, id string, patch weather.Fields) error {
	if err := a.records.Update(ctx, id, patch); err != nil {
		a.logger.Error("error updating entry", "id", id, "error", err)
		return err
	}
	return a.Refresh(ctx)
}

// Delete removes a stored record and reloads the list.
func (a *App) Delete(ctx context.Context, id string) error {
	if err := a.records.Delete(ctx, id); err != nil {
		a.logger.Error("error deleting entry", "id", id, "error", err)
		return err
	}
	return a.Refresh(ctx)
}

func (a *App) lookup(ctx context.Context, q weather.Query, failMsg string) error {
	a.mu.Lock()
	a.state.Phase = PhaseLoading
	a.state.Query = q.String()
	a.mu.Unlock()

	report, err := a.forecaster.Forecast(ctx, q)
	if err != nil {
		a.logger.Warn("weather lookup failed", "query", q.String(), "error", err)
		a.fail(failMsg)
		return err
	}

	a.mu.Lock()
	a.state.Phase = PhaseSuccess
	a.state.Place = &report.Place
	a.state.Current = &report.Current
	a.state.Forecast = report.Days
	a.state.Hourly = report.Hourly()
	a.state.Error = ""
	a.mu.Unlock()

	// Logging the lookup is best effort; the display keeps the result either way.
	if _, err := a.records.Create(ctx, weather.NewRecordFields(report)); err != nil {
		a.logger.Error("error saving weather", "query", q.String(), "error", err)
		return nil
	}
	_ = a.Refresh(ctx)

	return nil
}

// fail clears the displayed lookup and shows msg.
func (a *App) fail(msg string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.state.Phase = PhaseError
	a.state.Place = nil
	a.state.Current = nil
	a.state.Forecast = nil
	a.state.Hourly = nil
	a.state.Error = msg
}
