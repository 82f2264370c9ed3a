package app

import (
	"errors"
	"testing"

	"homework_status_bot/internal/domain/homework"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatNotifier_Notify(t *testing.T) {
	tg := &fakeTelegram{}
	n := NewChatNotifier(tg, -100123)

	require.NoError(t, n.Notify("hello"))
	require.Len(t, tg.sent, 1)
	assert.Equal(t, sentMessage{chatID: -100123, text: "hello"}, tg.sent[0])
}

func TestChatNotifier_NotifyWrapsFailure(t *testing.T) {
	cause := errors.New("network unreachable")
	n := NewChatNotifier(&fakeTelegram{err: cause}, 7)

	err := n.Notify("hello")

	var sendErr *homework.SendError
	require.ErrorAs(t, err, &sendErr)
	assert.Equal(t, int64(7), sendErr.ChatID)
	assert.ErrorIs(t, err, cause)
}
