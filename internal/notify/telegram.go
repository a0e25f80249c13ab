package notify

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier sends the daily digest to a Telegram chat. It is an
// optional second reminder channel next to email.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramNotifier creates a notifier for the given bot token and chat.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %v", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

// SendDigest posts the digest as one Markdown message.
func (n *TelegramNotifier) SendDigest(subject, newWordLine string, reviewTerms []string) error {
	var b strings.Builder
	b.WriteString(subject)
	b.WriteString("\n\n✨ ")
	b.WriteString(newWordLine)
	b.WriteString("\n\n📚 ")
	if len(reviewTerms) > 0 {
		b.WriteString("Review today: " + strings.Join(reviewTerms, ", "))
	} else {
		b.WriteString("Nothing to review today. ¡Muy bien!")
	}

	msg := tgbotapi.NewMessage(n.chatID, b.String())
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %v", err)
	}
	return nil
}
