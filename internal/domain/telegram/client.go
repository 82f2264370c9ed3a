package telegram

import "gopkg.in/telebot.v3"

// Client sends text to a Telegram chat.
// It keeps the poll loop independent of the bot library's Bot type.
type Client interface {
	SendMessage(chatID int64, text string, options *telebot.SendOptions) error
}
