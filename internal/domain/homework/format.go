// internal/domain/homework/format.go
package homework

import "fmt"

// Format builds the notification text for a single homework record.
func Format(rec Record) (string, error) {
	if v, ok := rec[KeyHomeworkName]; !ok || v == nil {
		return "", &ShapeError{Kind: MissingKey, Key: KeyHomeworkName}
	}
	if v, ok := rec[KeyStatus]; !ok || v == nil {
		return "", &ShapeError{Kind: MissingKey, Key: KeyStatus}
	}
	name, ok := rec[KeyHomeworkName].(string)
	if !ok {
		return "", &ShapeError{Kind: WrongType, Key: KeyHomeworkName, Expected: "string"}
	}
	status, ok := rec[KeyStatus].(string)
	if !ok {
		return "", &ShapeError{Kind: WrongType, Key: KeyStatus, Expected: "string"}
	}

	verdict, known := Verdicts[Status(status)]
	if !known {
		return "", &UnknownStatusError{Status: Status(status)}
	}
	return fmt.Sprintf("Изменился статус проверки работы \"%s\". %s", name, verdict), nil
}
