package telegram

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rewired-gh/nbafuse/internal/models"
)

func TestEscapeMarkdownV2(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Hello World", "Hello World"},
		{"Hello_World", "Hello\\_World"},
		{"Test*bold*", "Test\\*bold\\*"},
		{"Price: $100.50", "Price: $100\\.50"},
		{"[link](url)", "\\[link\\]\\(url\\)"},
		{"~strikethrough~", "\\~strikethrough\\~"},
		{"`code`", "\\`code\\`"},
		{">blockquote", "\\>blockquote"},
		{"#header", "\\#header"},
		{"+plus-minus", "\\+plus\\-minus"},
		{"=equal|pipe", "\\=equal\\|pipe"},
		{"{brace}", "\\{brace\\}"},
		{"end!", "end\\!"},
		{"", ""},
		{"_*[]()~`>#+-=|{}.!", "\\_\\*\\[\\]\\(\\)\\~\\`\\>\\#\\+\\-\\=\\|\\{\\}\\.\\!"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := escapeMarkdownV2(tt.input)
			if result != tt.expected {
				t.Errorf("escapeMarkdownV2(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNewClient_InvalidChatID(t *testing.T) {
	_, err := NewClient("123:token", "not-a-number", 3, time.Second)
	if err == nil || !strings.Contains(err.Error(), "invalid chat ID") {
		t.Errorf("expected invalid chat ID error, got %v", err)
	}
}

func TestFormatRunSummary(t *testing.T) {
	start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	run := &models.Run{
		ID:             "run-1",
		StartedAt:      start,
		FinishedAt:     start.Add(95 * time.Second),
		SnapshotsSaved: 12,
		RowsFused:      1230,
		GamesSkipped:   4,
	}
	msg := formatRunSummary(run)
	for _, want := range []string{"Collection run finished", "run\\-1", "1m35s", "Rows fused: 1230", "Games skipped: 4"} {
		if !strings.Contains(msg, want) {
			t.Errorf("summary missing %q:\n%s", want, msg)
		}
	}

	run.Error = "fetch interrupted: context canceled"
	if msg := formatRunSummary(run); !strings.Contains(msg, "Collection run failed") {
		t.Errorf("failed run not flagged:\n%s", msg)
	}
}

func TestFormatError(t *testing.T) {
	got := formatError("train", errors.New("dataset: not found"))
	want := "⚠️ *train stage failed*\n`dataset: not found`"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatPredictions(t *testing.T) {
	preds := []models.Prediction{{
		Date: "2024-01-05", Home: "Lakers", Away: "Celtics",
		HomeWinProb: 0.25, OverProb: 0.6, Total: 221.5,
		EVHome: -12.5, EVAway: 8.25, KellyAway: 3.5,
	}}
	plain := formatPredictions(preds, false)
	for _, want := range []string{"2024\\-01\\-05", "*Celtics* \\(75\\.0%\\) vs Lakers", "OVER 221\\.5 \\(60\\.0%\\)"} {
		if !strings.Contains(plain, want) {
			t.Errorf("predictions missing %q:\n%s", want, plain)
		}
	}
	if strings.Contains(plain, "bankroll") {
		t.Error("kelly lines without withKelly")
	}
	kelly := formatPredictions(preds, true)
	if !strings.Contains(kelly, "Celtics EV 8\\.25, bankroll 3\\.50%") {
		t.Errorf("missing kelly line:\n%s", kelly)
	}
	if !strings.Contains(kelly, "Lakers EV \\-12\\.50") {
		t.Errorf("missing negative EV:\n%s", kelly)
	}
}
