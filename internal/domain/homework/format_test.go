package homework

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_KnownStatuses(t *testing.T) {
	for status, verdict := range Verdicts {
		t.Run(string(status), func(t *testing.T) {
			msg, err := Format(Record{"homework_name": "proj1", "status": string(status)})
			require.NoError(t, err)
			assert.Equal(t, `Изменился статус проверки работы "proj1". `+verdict, msg)
		})
	}
}

func TestFormat_ApprovedText(t *testing.T) {
	msg, err := Format(Record{"homework_name": "hw05_final", "status": "approved"})
	require.NoError(t, err)
	assert.Contains(t, msg, "hw05_final")
	assert.Contains(t, msg, "Работа проверена: ревьюеру всё понравилось. Ура!")
}

func TestFormat_UnknownStatus(t *testing.T) {
	for _, status := range []string{"in_review", "", "APPROVED"} {
		_, err := Format(Record{"homework_name": "proj1", "status": status})
		var unknown *UnknownStatusError
		require.ErrorAs(t, err, &unknown, "status %q", status)
		assert.Equal(t, Status(status), unknown.Status)
	}
}

func TestFormat_MissingFields(t *testing.T) {
	_, err := Format(Record{"status": "approved"})
	requireShape(t, err, MissingKey, KeyHomeworkName)

	_, err = Format(Record{"homework_name": "proj1"})
	requireShape(t, err, MissingKey, KeyStatus)

	_, err = Format(Record{"homework_name": nil, "status": "approved"})
	requireShape(t, err, MissingKey, KeyHomeworkName)

	_, err = Format(Record{"homework_name": 12, "status": "approved"})
	requireShape(t, err, WrongType, KeyHomeworkName)
}

func TestFormat_Idempotent(t *testing.T) {
	rec := Record{"homework_name": "proj1", "status": "rejected"}
	first, err := Format(rec)
	require.NoError(t, err)
	second, err := Format(rec)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
