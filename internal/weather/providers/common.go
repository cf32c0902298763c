package providers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var (
	errMissingAPIKey = errors.New("weather api key is not configured")
	errInvalidQuery  = errors.New("invalid location query")
	errNoForecast    = errors.New("provider returned no forecast days")
	errNoHTTPClient  = errors.New("http client not configured")
)

// maxErrorBody caps how much of a failed response is read for its error message.
const maxErrorBody = 64 << 10

// APIError is a non-2xx answer from the provider.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("weather api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("weather api error: status %d: code %d: %s", e.StatusCode, e.Code, e.Message)
}

// doRequest executes req exactly once. Non-2xx responses are closed and returned
// as *APIError; on success the caller owns the body.
func doRequest(client *http.Client, req *http.Request) (*http.Response, error) {
	if client == nil {
		return nil, errNoHTTPClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()

		apiErr := &APIError{StatusCode: resp.StatusCode}
		var body struct {
			Error struct {
				Code    int    `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&body); err == nil {
			apiErr.Code = body.Error.Code
			apiErr.Message = body.Error.Message
		}
		return nil, apiErr
	}

	return resp, nil
}
