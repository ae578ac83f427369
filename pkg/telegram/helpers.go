package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/akarakai/imgpdf/pkg/logger"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Helper function to format an export time to human-readable format
func formatExportTime(createdAt, now time.Time) string {
	diff := now.Sub(createdAt)

	// Format relative time
	if diff < time.Hour {
		minutes := int(diff.Minutes())
		if minutes < 1 {
			return "just now"
		}
		return fmt.Sprintf("%d minute%s ago", minutes, pluralS(minutes))
	} else if diff < 24*time.Hour {
		hours := int(diff.Hours())
		return fmt.Sprintf("%d hour%s ago", hours, pluralS(hours))
	} else if diff < 7*24*time.Hour {
		days := int(diff.Hours() / 24)
		return fmt.Sprintf("%d day%s ago", days, pluralS(days))
	}
	// For older dates, show the actual date
	return createdAt.Local().Format("January 2, 2006")
}

// Helper function to add 's' for plural
func pluralS(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}

// Helper function to reduce code duplication for sending messages
func sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string, replyMarkup models.ReplyMarkup) {
	if text == "" {
		logger.Log.Warn("Attempting to send empty message, skipping")
		return
	}

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: replyMarkup,
	})
	if err != nil {
		logger.Log.Errorw("Error sending message", "error", err, "chatId", chatID)
	}
}

// Helper function to remove keyboard and send a message
func removeKeyboardFromUser(ctx context.Context, b *bot.Bot, chatID int64, message string) {
	if message == "" {
		message = "Keyboard removed"
	}

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   message,
		ReplyMarkup: &models.ReplyKeyboardRemove{
			RemoveKeyboard: true,
		},
	})
	if err != nil {
		logger.Log.Errorw("Error removing keyboard", "error", err, "chatId", chatID)
	}
}

// Helper function to create the keyboard shown while images are collected
func createActionKeyboard() *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{
			{{Text: "/pdf"}},
			{{Text: "/list"}, {Text: "/clear"}},
		},
		ResizeKeyboard: true,
	}
}

// /move 1 3 => 1 3
func parseMessage(command string, fullMessage string) (string, error) {
	if !strings.HasPrefix(fullMessage, command) {
		return "", fmt.Errorf("not a command %s", fullMessage)
	}

	splits := strings.Split(fullMessage, " ")
	// remove command. Note this is a single word command
	splits = splits[1:]
	msg := strings.Join(splits, " ")
	trimmed := strings.Trim(msg, " \n\t")
	return trimmed, nil
}

// parsePositions reads exactly n 1-based positions and returns them 0-based.
func parsePositions(args string, n int) ([]int, error) {
	fields := strings.Fields(args)
	if len(fields) != n {
		return nil, fmt.Errorf("expected %d number%s, got %q", n, pluralS(n), args)
	}
	out := make([]int, n)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", f)
		}
		out[i] = v - 1
	}
	return out, nil
}
