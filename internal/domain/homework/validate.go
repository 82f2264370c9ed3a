// internal/domain/homework/validate.go
package homework

import (
	"fmt"
	"math"
)

// Validate checks the decoded API payload and extracts the homework list and the server time.
// An empty homework list is the normal "nothing changed" answer and is not an error.
func Validate(payload any) (*Response, error) {
	m, ok := payload.(map[string]any)
	if !ok {
		return nil, &ShapeError{Kind: NotAMapping}
	}

	rawHomeworks, ok := m[KeyHomeworks]
	if !ok || rawHomeworks == nil {
		return nil, &ShapeError{Kind: MissingKey, Key: KeyHomeworks}
	}
	rawDate, ok := m[KeyCurrentDate]
	if !ok || rawDate == nil {
		return nil, &ShapeError{Kind: MissingKey, Key: KeyCurrentDate}
	}

	list, ok := rawHomeworks.([]any)
	if !ok {
		return nil, &ShapeError{Kind: WrongType, Key: KeyHomeworks, Expected: "sequence"}
	}

	currentDate, ok := toUnix(rawDate)
	if !ok {
		return nil, &ShapeError{Kind: WrongType, Key: KeyCurrentDate, Expected: "integer"}
	}

	resp := &Response{
		Homeworks:   make([]Record, 0, len(list)),
		CurrentDate: currentDate,
	}
	for i, item := range list {
		rec, ok := item.(map[string]any)
		if !ok {
			return nil, &ShapeError{Kind: NotAMapping, Key: fmt.Sprintf("%s[%d]", KeyHomeworks, i)}
		}
		resp.Homeworks = append(resp.Homeworks, Record(rec))
	}
	return resp, nil
}

// toUnix accepts the numeric forms encoding/json and hand-built payloads produce.
func toUnix(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		// float64(math.MaxInt64) rounds up to 2^63, hence the strict upper bound.
		if n != math.Trunc(n) || n < math.MinInt64 || n >= math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}
