package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrGeolocationUnsupported is returned when no way of locating the user is configured.
var ErrGeolocationUnsupported = errors.New("geolocation is not supported")

// DefaultIPLocatorURL is the ip-api.com endpoint for the caller's own address.
const DefaultIPLocatorURL = "http://ip-api.com/json/"

// Locator resolves the user's current coordinates.
type Locator interface {
	Locate(ctx context.Context) (lat, lon float64, err error)
}

// StaticLocator always reports the same coordinates.
type StaticLocator struct {
	Lat float64
	Lon float64
}

func (l StaticLocator) Locate(context.Context) (float64, float64, error) {
	return l.Lat, l.Lon, nil
}

// DisabledLocator is used when geolocation is turned off.
type DisabledLocator struct{}

func (DisabledLocator) Locate(context.Context) (float64, float64, error) {
	return 0, 0, ErrGeolocationUnsupported
}

// IPLocator approximates the user's position from their public IP address.
type IPLocator struct {
	client *http.Client
	url    string
}

// NewIPLocator creates an IPLocator. An empty url selects DefaultIPLocatorURL.
func NewIPLocator(client *http.Client, url string) *IPLocator {
	if client == nil {
		client = http.DefaultClient
	}
	if url == "" {
		url = DefaultIPLocatorURL
	}
	return &IPLocator{client: client, url: url}
}

func (l *IPLocator) Locate(ctx context.Context) (float64, float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("ip lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("ip lookup: status %d", resp.StatusCode)
	}

	var body struct {
		Status  string  `json:"status"`
		Message string  `json:"message"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, 0, fmt.Errorf("decode ip lookup: %w", err)
	}
	if body.Status != "success" {
		return 0, 0, fmt.Errorf("ip lookup failed: %s", body.Message)
	}
	return body.Lat, body.Lon, nil
}
