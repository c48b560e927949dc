package googlefit

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	go_json "github.com/goccy/go-json"
)

// APIError is Google's standard error envelope.
type APIError struct {
	StatusCode int
	// Status is the canonical code, e.g. PERMISSION_DENIED.
	Status  string
	Message string
	// RetryAfter is set from the Retry-After header on 429 and 503.
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("google fit api: %d %s: %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("google fit api: %d %s", e.StatusCode, e.Message)
}

func (e *APIError) HTTPStatus() int { return e.StatusCode }

// IsStatus reports whether err is an APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

func parseAPIError(resp *http.Response) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    resp.Status,
		RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apiErr
	}

	var errResp struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	if err := go_json.Unmarshal(body, &errResp); err != nil {
		if len(body) > 0 {
			apiErr.Message = string(body)
		}
		return apiErr
	}

	if errResp.Error.Message != "" {
		apiErr.Message = errResp.Error.Message
	}
	apiErr.Status = errResp.Error.Status
	return apiErr
}

// parseRetryAfter accepts delay-seconds only; Google does not send dates.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	seconds, err := strconv.Atoi(v)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
