package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/i474232898/weather-logbook/internal/weather"
)

// DefaultWeatherAPIURL is the WeatherAPI.com v1 base URL.
const DefaultWeatherAPIURL = "https://api.weatherapi.com/v1"

// WeatherAPIProvider implements weather.Forecaster for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	days    int
	client  *http.Client
	logger  *slog.Logger
}

// NewWeatherAPIProvider creates a provider requesting a days-long forecast.
// An empty baseURL selects DefaultWeatherAPIURL.
func NewWeatherAPIProvider(client *http.Client, baseURL, apiKey string, days int, logger *slog.Logger) *WeatherAPIProvider {
	if baseURL == "" {
		baseURL = DefaultWeatherAPIURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		days:    days,
		client:  client,
		logger:  logger,
	}
}

// Forecast fetches current conditions plus the multi-day forecast for q.
// Air quality and alerts are always disabled.
func (p *WeatherAPIProvider) Forecast(ctx context.Context, q weather.Query) (weather.Report, error) {
	if p.apiKey == "" {
		return weather.Report{}, errMissingAPIKey
	}
	if err := validate.Struct(q); err != nil {
		return weather.Report{}, fmt.Errorf("%w: %v", errInvalidQuery, err)
	}

	values := url.Values{}
	values.Set("key", p.apiKey)
	// WeatherAPI accepts free text (city, ZIP, landmark) or "lat,lon" in q.
	values.Set("q", q.String())
	values.Set("days", strconv.Itoa(p.days))
	values.Set("aqi", "no")
	values.Set("alerts", "no")

	u := fmt.Sprintf("%s/forecast.json?%s", p.baseURL, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return weather.Report{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := doRequest(p.client, req)
	if err != nil {
		return weather.Report{}, err
	}
	defer resp.Body.Close()

	var payload forecastPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Report{}, fmt.Errorf("decode forecast: %w", err)
	}
	if len(payload.Forecast.ForecastDay) == 0 {
		return weather.Report{}, errNoForecast
	}

	p.logger.Debug("forecast fetched",
		"provider", p.name,
		"query", q.String(),
		"location", payload.Location.Name,
		"days", len(payload.Forecast.ForecastDay),
	)

	return payload.toReport(), nil
}

// WeatherAPI.com forecast.json response types.

type forecastPayload struct {
	Location struct {
		Name      string  `json:"name"`
		Region    string  `json:"region"`
		Country   string  `json:"country"`
		Lat       float64 `json:"lat"`
		Lon       float64 `json:"lon"`
		Localtime string  `json:"localtime"`
	} `json:"location"`
	Current struct {
		TempC      float64          `json:"temp_c"`
		FeelsLikeC float64          `json:"feelslike_c"`
		Humidity   float64          `json:"humidity"`
		WindKph    float64          `json:"wind_kph"`
		Condition  conditionPayload `json:"condition"`
	} `json:"current"`
	Forecast struct {
		ForecastDay []forecastDayPayload `json:"forecastday"`
	} `json:"forecast"`
}

type conditionPayload struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
}

type forecastDayPayload struct {
	Date string `json:"date"`
	Day  struct {
		AvgTempC  float64          `json:"avgtemp_c"`
		MaxTempC  float64          `json:"maxtemp_c"`
		MinTempC  float64          `json:"mintemp_c"`
		Condition conditionPayload `json:"condition"`
	} `json:"day"`
	Hour []struct {
		Time      string           `json:"time"`
		TempC     float64          `json:"temp_c"`
		Condition conditionPayload `json:"condition"`
	} `json:"hour"`
}

func (c conditionPayload) toCondition() weather.Condition {
	return weather.Condition{Text: c.Text, Icon: c.Icon}
}

func (p forecastPayload) toReport() weather.Report {
	r := weather.Report{
		Place: weather.Place{
			Name:      p.Location.Name,
			Region:    p.Location.Region,
			Country:   p.Location.Country,
			Lat:       p.Location.Lat,
			Lon:       p.Location.Lon,
			Localtime: p.Location.Localtime,
		},
		Current: weather.Current{
			TempC:      p.Current.TempC,
			FeelsLikeC: p.Current.FeelsLikeC,
			Humidity:   p.Current.Humidity,
			WindKph:    p.Current.WindKph,
			Condition:  p.Current.Condition.toCondition(),
		},
		Days: make([]weather.ForecastDay, 0, len(p.Forecast.ForecastDay)),
	}

	for _, d := range p.Forecast.ForecastDay {
		day := weather.ForecastDay{
			Date:      d.Date,
			AvgTempC:  d.Day.AvgTempC,
			MaxTempC:  d.Day.MaxTempC,
			MinTempC:  d.Day.MinTempC,
			Condition: d.Day.Condition.toCondition(),
			Hours:     make([]weather.Hour, 0, len(d.Hour)),
		}
		for _, h := range d.Hour {
			day.Hours = append(day.Hours, weather.Hour{
				Time:      h.Time,
				TempC:     h.TempC,
				Condition: h.Condition.toCondition(),
			})
		}
		r.Days = append(r.Days, day)
	}

	return r
}
