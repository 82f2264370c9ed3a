// internal/domain/homework/errors.go
package homework

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// ShapeKind tells what is wrong with a payload or record.
type ShapeKind string

const (
	NotAMapping ShapeKind = "not_a_mapping"
	MissingKey  ShapeKind = "missing_key"
	WrongType   ShapeKind = "wrong_type"
)

// ShapeError reports a payload or record that lacks an expected field or has the wrong type.
type ShapeError struct {
	Kind     ShapeKind
	Key      string // empty for a top-level NotAMapping
	Expected string // only for WrongType
}

func (e *ShapeError) Error() string {
	switch e.Kind {
	case NotAMapping:
		if e.Key == "" {
			return "api response is not a mapping"
		}
		return fmt.Sprintf("%s is not a mapping", e.Key)
	case MissingKey:
		return fmt.Sprintf("missing key %q", e.Key)
	case WrongType:
		return fmt.Sprintf("key %q is not a %s", e.Key, e.Expected)
	default:
		return fmt.Sprintf("malformed payload (%s)", e.Kind)
	}
}

// UnknownStatusError is returned for a status code outside Verdicts.
type UnknownStatusError struct {
	Status Status
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown homework status %q", string(e.Status))
}

// APIError describes a failed request to the homework API.
// Headers must already be redacted.
type APIError struct {
	Endpoint   string
	Headers    map[string]string
	Params     url.Values
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "api request GET %s failed", e.Endpoint)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " with status %d", e.StatusCode)
	}
	if len(e.Params) > 0 {
		fmt.Fprintf(&b, " (params: %s)", e.Params.Encode())
	}
	if len(e.Headers) > 0 {
		keys := make([]string, 0, len(e.Headers))
		for k := range e.Headers {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, k+"="+e.Headers[k])
		}
		fmt.Fprintf(&b, " (headers: %s)", strings.Join(pairs, ", "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *APIError) Unwrap() error { return e.Err }

// SendError wraps a failed notification delivery.
type SendError struct {
	ChatID int64
	Err    error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("failed to send message to chat %d: %v", e.ChatID, e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }

// Kind returns a short label for err, used as a log field.
func Kind(err error) string {
	var (
		apiErr     *APIError
		shapeErr   *ShapeError
		unknownErr *UnknownStatusError
		sendErr    *SendError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &apiErr):
		return "api"
	case errors.As(err, &shapeErr):
		return "shape"
	case errors.As(err, &unknownErr):
		return "unknown_status"
	case errors.As(err, &sendErr):
		return "send"
	default:
		return "internal"
	}
}
