package weather

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Query identifies the place to look up: either free text (city, ZIP, landmark)
// or explicit coordinates.
type Query struct {
	Text string   `validate:"required_without_all=Lat Lon"`
	Lat  *float64 `validate:"omitempty,min=-90,max=90"`
	Lon  *float64 `validate:"omitempty,min=-180,max=180"`
}

// TextQuery builds a free-text query.
func TextQuery(text string) Query {
	return Query{Text: strings.TrimSpace(text)}
}

// CoordsQuery builds a coordinate query.
func CoordsQuery(lat, lon float64) Query {
	return Query{Lat: &lat, Lon: &lon}
}

// HasCoords reports whether the query carries coordinates.
func (q Query) HasCoords() bool {
	return q.Lat != nil && q.Lon != nil
}

// String returns the provider "q" parameter: "lat,lon" or the trimmed text.
func (q Query) String() string {
	if q.HasCoords() {
		return strconv.FormatFloat(*q.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(*q.Lon, 'f', -1, 64)
	}
	return strings.TrimSpace(q.Text)
}

// Condition is the provider's textual condition with its icon URL.
type Condition struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
}

// Place is the location the provider resolved the query to.
type Place struct {
	Name      string  `json:"name"`
	Region    string  `json:"region"`
	Country   string  `json:"country"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Localtime string  `json:"localtime"`
}

// Current is the current-conditions snapshot.
type Current struct {
	TempC      float64   `json:"tempC"`
	FeelsLikeC float64   `json:"feelsLikeC"`
	Humidity   float64   `json:"humidity"`
	WindKph    float64   `json:"windKph"`
	Condition  Condition `json:"condition"`
}

// Hour is a single hourly forecast entry. Time is provider-local "2006-01-02 15:04".
type Hour struct {
	Time      string    `json:"time"`
	TempC     float64   `json:"tempC"`
	Condition Condition `json:"condition"`
}

// Clock returns the "15:04" part of the hour's timestamp.
func (h Hour) Clock() string {
	if _, clock, ok := strings.Cut(h.Time, " "); ok {
		return clock
	}
	return h.Time
}

// ForecastDay is one day of the multi-day forecast. Date is "2006-01-02".
type ForecastDay struct {
	Date      string    `json:"date"`
	AvgTempC  float64   `json:"avgTempC"`
	MaxTempC  float64   `json:"maxTempC"`
	MinTempC  float64   `json:"minTempC"`
	Condition Condition `json:"condition"`
	Hours     []Hour    `json:"hours"`
}

// Report is the normalized result of one forecast lookup.
// Days are ordered by date ascending.
type Report struct {
	Place   Place         `json:"place"`
	Current Current       `json:"current"`
	Days    []ForecastDay `json:"days"`
}

// Hourly returns the hours of the first forecast day.
func (r Report) Hourly() []Hour {
	if len(r.Days) == 0 {
		return nil
	}
	return r.Days[0].Hours
}

// DateRange bounds the forecast window a record was built from.
type DateRange struct {
	Start *time.Time `json:"start,omitempty" bson:"start,omitempty"`
	End   *time.Time `json:"end,omitempty" bson:"end,omitempty"`
}

// UnmarshalJSON accepts both calendar dates ("2006-01-02") and RFC 3339 timestamps.
func (d *DateRange) UnmarshalJSON(b []byte) error {
	var raw struct {
		Start *string `json:"start"`
		End   *string `json:"end"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	start, err := parseDatePtr(raw.Start)
	if err != nil {
		return fmt.Errorf("dateRange.start: %w", err)
	}
	end, err := parseDatePtr(raw.End)
	if err != nil {
		return fmt.Errorf("dateRange.end: %w", err)
	}

	d.Start = start
	d.End = end
	return nil
}

func parseDatePtr(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ParseDate parses a calendar date or an RFC 3339 timestamp into UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q; use YYYY-MM-DD or RFC3339", s)
}

// Fields holds the user-editable part of a record. A nil field is absent:
// on create it is not stored, on update it is left unchanged.
type Fields struct {
	Location    *string    `json:"location,omitempty" bson:"location,omitempty"`
	DateRange   *DateRange `json:"dateRange,omitempty" bson:"dateRange,omitempty"`
	Temperature *string    `json:"temperature,omitempty" bson:"temperature,omitempty"`
	Humidity    *string    `json:"humidity,omitempty" bson:"humidity,omitempty"`
	Description *string    `json:"description,omitempty" bson:"description,omitempty"`
}

// IsEmpty reports whether no field is set.
func (f Fields) IsEmpty() bool {
	return f.Location == nil && f.DateRange == nil && f.Temperature == nil &&
		f.Humidity == nil && f.Description == nil
}

// Merge returns f with every field set in patch replaced.
func (f Fields) Merge(patch Fields) Fields {
	if patch.Location != nil {
		f.Location = patch.Location
	}
	if patch.DateRange != nil {
		f.DateRange = patch.DateRange
	}
	if patch.Temperature != nil {
		f.Temperature = patch.Temperature
	}
	if patch.Humidity != nil {
		f.Humidity = patch.Humidity
	}
	if patch.Description != nil {
		f.Description = patch.Description
	}
	return f
}

// Record is a persisted weather snapshot. ID and CreatedAt are assigned by the store.
type Record struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Fields    `bson:",inline"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// NewRecordFields derives the record persisted after a successful lookup.
func NewRecordFields(r Report) Fields {
	f := Fields{
		Location:    Ptr(r.Place.Name),
		Temperature: Ptr(FormatCelsius(r.Current.TempC)),
		Humidity:    Ptr(FormatPercent(r.Current.Humidity)),
		Description: Ptr(r.Current.Condition.Text),
	}

	if len(r.Days) > 0 {
		dr := &DateRange{}
		if start, err := ParseDate(r.Days[0].Date); err == nil {
			dr.Start = &start
		}
		if end, err := ParseDate(r.Days[len(r.Days)-1].Date); err == nil {
			dr.End = &end
		}
		f.DateRange = dr
	}

	return f
}

// FormatCelsius renders a temperature the way records store it, e.g. "18°C".
func FormatCelsius(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "°C"
}

// FormatPercent renders a percentage, e.g. "60%".
func FormatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
