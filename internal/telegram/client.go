// Package telegram provides a client for sending notifications via Telegram Bot API.
package telegram

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/rewired-gh/nbafuse/internal/models"
)

// Client handles Telegram notifications.
type Client struct {
	bot            *tgbotapi.BotAPI
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
}

// NewClient creates a new Telegram client.
func NewClient(botToken, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}

	return &Client{
		bot:            bot,
		chatID:         chatIDInt,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}, nil
}

// sendMarkdownV2 sends a MarkdownV2 message with linear-backoff retry.
func (c *Client) sendMarkdownV2(text string) error {
	msg := tgbotapi.NewMessage(c.chatID, text)
	msg.ParseMode = "MarkdownV2"

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		if _, err := c.bot.Send(msg); err == nil {
			return nil
		} else {
			lastErr = err
		}
		time.Sleep(c.retryDelayBase * time.Duration(i+1))
	}
	return fmt.Errorf("failed after %d retries: %w", c.maxRetries, lastErr)
}

// SendError reports a failed stage.
func (c *Client) SendError(stage string, stageErr error) error {
	return c.sendMarkdownV2(formatError(stage, stageErr))
}

// SendRunSummary reports a finished collection run.
func (c *Client) SendRunSummary(run *models.Run) error {
	return c.sendMarkdownV2(formatRunSummary(run))
}

// SendPredictions posts today's predictions. withKelly adds expected value and
// bankroll lines.
func (c *Client) SendPredictions(preds []models.Prediction, withKelly bool) error {
	if len(preds) == 0 {
		return nil
	}
	return c.sendMarkdownV2(formatPredictions(preds, withKelly))
}

func formatError(stage string, err error) string {
	return fmt.Sprintf("⚠️ *%s stage failed*\n`%s`", escapeMarkdownV2(stage), escapeMarkdownV2(err.Error()))
}

func formatRunSummary(run *models.Run) string {
	var b strings.Builder
	if run.Error != "" {
		b.WriteString("⚠️ *Collection run failed*\n")
	} else {
		b.WriteString("✅ *Collection run finished*\n")
	}
	b.WriteString(fmt.Sprintf("🆔 `%s`\n", escapeMarkdownV2(run.ID)))
	b.WriteString(fmt.Sprintf("⏱ %s\n\n", escapeMarkdownV2(run.Duration().Round(time.Second).String())))
	b.WriteString(fmt.Sprintf("Snapshots saved: %d\n", run.SnapshotsSaved))
	b.WriteString(fmt.Sprintf("Fetch gaps: %d\n", run.FetchGaps))
	b.WriteString(fmt.Sprintf("Odds records: %d\n", run.OddsRecords))
	b.WriteString(fmt.Sprintf("Rows fused: %d\n", run.RowsFused))
	b.WriteString(fmt.Sprintf("Games skipped: %d\n", run.GamesSkipped))
	b.WriteString(fmt.Sprintf("Seasons failed: %d", run.SeasonsFailed))
	if run.Error != "" {
		b.WriteString(fmt.Sprintf("\n\n`%s`", escapeMarkdownV2(run.Error)))
	}
	return b.String()
}

func formatPredictions(preds []models.Prediction, withKelly bool) string {
	message := "🏀 *NBA Game Predictions*\n"
	if preds[0].Date != "" {
		message += fmt.Sprintf("📅 %s\n", escapeMarkdownV2(preds[0].Date))
	}
	message += "\n"

	for i := range preds {
		p := &preds[i]
		winner, winProb := p.Winner()
		over, ouProb := p.Over()
		side := "UNDER"
		if over {
			side = "OVER"
		}
		line := fmt.Sprintf("*%s* \\(%s\\) vs %s: %s %s \\(%s\\)\n",
			escapeMarkdownV2(winner),
			escapeMarkdownV2(fmt.Sprintf("%.1f%%", winProb*100)),
			escapeMarkdownV2(p.Loser()),
			side,
			escapeMarkdownV2(strconv.FormatFloat(p.Total, 'f', -1, 64)),
			escapeMarkdownV2(fmt.Sprintf("%.1f%%", ouProb*100)),
		)
		message += line

		if withKelly {
			message += fmt.Sprintf("   %s EV %s, bankroll %s\n",
				escapeMarkdownV2(p.Home),
				escapeMarkdownV2(strconv.FormatFloat(p.EVHome, 'f', 2, 64)),
				escapeMarkdownV2(strconv.FormatFloat(p.KellyHome, 'f', 2, 64)+"%"))
			message += fmt.Sprintf("   %s EV %s, bankroll %s\n",
				escapeMarkdownV2(p.Away),
				escapeMarkdownV2(strconv.FormatFloat(p.EVAway, 'f', 2, 64)),
				escapeMarkdownV2(strconv.FormatFloat(p.KellyAway, 'f', 2, 64)+"%"))
		}
	}
	return message
}

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2.
func escapeMarkdownV2(text string) string {
	var b strings.Builder
	b.Grow(len(text) + len(text)/4)
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!':
			b.WriteByte('\\')
		}
		b.WriteRune(char)
	}
	return b.String()
}
