// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httpcall

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// StatusError reports a non-2xx response: the URL that answered (log-safe
// form), the status code, and a snippet of the body for diagnosis.
type StatusError struct {
	URL    string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("request to %s failed with status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("request to %s failed with status %d: %s", e.URL, e.Status, e.Body)
}

// HTTPStatusCode returns the response status code.
func (e *StatusError) HTTPStatusCode() int { return e.Status }

// RetryableStatus reports whether a response status is worth retrying:
// rate limiting (429) and server errors (5xx).
func RetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || (status >= 500 && status <= 599)
}

// Retryable walks err and reports whether re-running the process later could
// succeed. Transport errors, timeouts, and retryable statuses qualify;
// client errors, parse failures, and configuration problems do not. The
// process boundary maps this to the exit status an external scheduler keys
// off.
func Retryable(err error) bool {
	if err == nil {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return RetryableStatus(statusErr.Status)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return errors.Is(err, context.DeadlineExceeded)
}

// snippet trims and truncates a response body for errors and logs.
func snippet(body []byte) string {
	const limit = 2048
	s := strings.TrimSpace(string(body))
	r := []rune(s)
	if len(r) > limit {
		return string(r[:limit]) + "..."
	}
	return s
}
