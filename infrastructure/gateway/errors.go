package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// AuthError - 401/403 จาก gateway; ชั้น session ต้องพาไป re-authenticate
// The client never swallows these or retries past one token refresh.
type AuthError struct {
	Status int
	// Err carries the underlying token-source failure when authentication
	// broke before a request could be made.
	Err error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed (status %d): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("authentication failed (status %d)", e.Status)
}

func (e *AuthError) Unwrap() error { return e.Err }

// APIError is a structured backend error. ErrorCode and Message are
// preserved verbatim so the host can render the specific reason (e.g.
// "insufficient balance") instead of a generic failure.
type APIError struct {
	Status    int    `json:"status"`
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
	Path      string `json:"path,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s (status %d)", e.ErrorCode, e.Message, e.Status)
}

// IsAuthError reports whether err is (or wraps) an authentication failure.
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// AsAPIError unwraps the structured error, if any.
func AsAPIError(err error) (*APIError, bool) {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// errorFromResponse classifies a non-2xx response into the taxonomy.
// Body ที่ decode เป็น {errorCode, message} ไม่ได้ถือเป็น transport error
func errorFromResponse(resp *http.Response) error {
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		io.Copy(io.Discard, resp.Body)
		return &AuthError{Status: resp.StatusCode}
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var structured APIError
	if err := json.Unmarshal(body, &structured); err == nil && structured.ErrorCode != "" {
		structured.Status = resp.StatusCode
		return &structured
	}
	return fmt.Errorf("gateway error: %d - %s", resp.StatusCode, string(body))
}
