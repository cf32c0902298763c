package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/i474232898/weather-logbook/internal/weather"
)

// RecordsError is a non-2xx answer from the records API.
type RecordsError struct {
	StatusCode int
	Message    string
}

func (e *RecordsError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("records api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("records api: status %d: %s", e.StatusCode, e.Message)
}

// RecordsClient talks to the records CRUD API.
type RecordsClient struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewRecordsClient creates a client for the collection at baseURL, e.g. http://localhost:5000/records.
func NewRecordsClient(httpClient *http.Client, baseURL string, logger *slog.Logger) *RecordsClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordsClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
	}
}

// Create posts a new record and returns it as stored.
func (c *RecordsClient) Create(ctx context.Context, f weather.Fields) (weather.Record, error) {
	var rec weather.Record
	if err := c.do(ctx, http.MethodPost, c.baseURL, f, &rec); err != nil {
		return weather.Record{}, err
	}
	return rec, nil
}

// List fetches every stored record.
func (c *RecordsClient) List(ctx context.Context) ([]weather.Record, error) {
	recs := []weather.Record{}
	if err := c.do(ctx, http.MethodGet, c.baseURL, nil, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// Update sends a partial update for the record with the given id.
func (c *RecordsClient) Update(ctx context.Context, id string, patch weather.Fields) error {
	return c.do(ctx, http.MethodPut, c.recordURL(id), patch, nil)
}

// Delete removes the record with the given id.
func (c *RecordsClient) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.recordURL(id), nil, nil)
}

func (c *RecordsClient) recordURL(id string) string {
	return c.baseURL + "/" + id
}

func (c *RecordsClient) do(ctx context.Context, method, url string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("records api call", "method", method, "url", url, "status", resp.StatusCode, "request_id", reqID)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rerr := &RecordsError{StatusCode: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
			rerr.Message = payload.Error
		}
		return rerr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
