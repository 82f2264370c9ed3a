package app

import (
	"homework_status_bot/internal/domain/homework"
	domainTelegram "homework_status_bot/internal/domain/telegram"
)

// Notifier delivers a formatted message to the student.
type Notifier interface {
	Notify(text string) error
}

// ChatNotifier sends every message to one fixed Telegram chat.
type ChatNotifier struct {
	client domainTelegram.Client
	chatID int64
}

func NewChatNotifier(client domainTelegram.Client, chatID int64) *ChatNotifier {
	return &ChatNotifier{client: client, chatID: chatID}
}

// Notify makes exactly one delivery attempt. Failures are returned as *homework.SendError.
func (n *ChatNotifier) Notify(text string) error {
	if err := n.client.SendMessage(n.chatID, text, nil); err != nil {
		return &homework.SendError{ChatID: n.chatID, Err: err}
	}
	return nil
}
