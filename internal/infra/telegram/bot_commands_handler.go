// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"homework_status_bot/internal/app"
	"homework_status_bot/internal/domain/homework"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const historyLimit = 10

// StateReader exposes the poll state to the command handlers.
type StateReader interface {
	State() app.State
}

// RegisterBotCommands wires /start, /help, /status and /history.
// Commands are answered only in ownerChatID; journal may be nil.
func RegisterBotCommands(
	ctx context.Context,
	b *telebot.Bot,
	ownerChatID int64,
	pollInterval time.Duration,
	state StateReader,
	journal homework.Journal,
	baseLogger *logrus.Entry,
) {
	cmdLogger := baseLogger.WithField("handler_group", "commands")

	ownerOnly := func(command string, next func(c telebot.Context, logCtx *logrus.Entry) error) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			logCtx := cmdLogger.WithField("command", command)
			if c.Chat() != nil {
				logCtx = logCtx.WithField("chat_id", c.Chat().ID)
			}
			if c.Chat() == nil || c.Chat().ID != ownerChatID {
				logCtx.Warn("Command from a foreign chat ignored")
				return c.Send("Этот бот отправляет уведомления только своему владельцу.")
			}
			logCtx.Info("Processing command")
			return next(c, logCtx)
		}
	}

	b.Handle("/start", ownerOnly("/start", func(c telebot.Context, _ *logrus.Entry) error {
		return c.Send(startText(pollInterval))
	}))

	b.Handle("/help", ownerOnly("/help", func(c telebot.Context, _ *logrus.Entry) error {
		return c.Send(helpText())
	}))

	b.Handle("/status", ownerOnly("/status", func(c telebot.Context, _ *logrus.Entry) error {
		return c.Send(statusText(state.State()))
	}))

	b.Handle("/history", ownerOnly("/history", func(c telebot.Context, logCtx *logrus.Entry) error {
		if journal == nil {
			return c.Send("Журнал уведомлений отключён: не задан DATABASE_URL.")
		}
		deliveries, err := journal.ListRecent(ctx, historyLimit)
		if err != nil {
			logCtx.WithError(err).Error("Error listing deliveries for /history command")
			return c.Send("Не удалось прочитать журнал уведомлений. Попробуйте позже.")
		}
		return c.Send(historyText(deliveries))
	}))
}

func startText(pollInterval time.Duration) string {
	return fmt.Sprintf("Привет! Я проверяю статус ваших домашних работ каждые %s и пишу сюда, когда он меняется.\nИспользуйте /help для списка команд.", pollInterval)
}

func helpText() string {
	var helpText strings.Builder
	helpText.WriteString("Доступные команды:\n\n")
	helpText.WriteString("/status - состояние опроса: курсор, последнее уведомление и ошибка.\n")
	helpText.WriteString("/history - последние отправленные уведомления.\n")
	helpText.WriteString("/help - показать это сообщение.")
	return helpText.String()
}

func statusText(st app.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Опросов: %d, уведомлений: %d\n", st.Polls, st.Sent)
	fmt.Fprintf(&b, "Курсор: %s\n", formatTime(time.Unix(st.Cursor, 0)))
	if st.LastPollAt.IsZero() {
		b.WriteString("Последний опрос: ещё не было\n")
	} else {
		fmt.Fprintf(&b, "Последний опрос: %s\n", formatTime(st.LastPollAt))
	}
	if st.LastMessage == "" {
		b.WriteString("Последнее уведомление: нет")
	} else {
		fmt.Fprintf(&b, "Последнее уведомление (%s): %s", formatTime(st.LastSentAt), st.LastMessage)
	}
	if st.LastError != "" {
		fmt.Fprintf(&b, "\nПоследняя ошибка [%s]: %s", st.LastErrorKind, st.LastError)
	}
	return b.String()
}

func historyText(deliveries []*homework.Delivery) string {
	if len(deliveries) == 0 {
		return "Уведомлений пока не было."
	}
	var b strings.Builder
	b.WriteString("Последние уведомления:")
	for _, d := range deliveries {
		fmt.Fprintf(&b, "\n%s - %s: %s", formatTime(d.SentAt), d.HomeworkName, d.Status)
	}
	return b.String()
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}
