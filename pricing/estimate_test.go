package pricing

import (
	"strings"
	"testing"

	"github.com/pedrops164/ShortsCreator/domain/models"
)

func TestEstimateCents(t *testing.T) {
	tests := []struct {
		name  string
		chars int
		want  int
	}{
		{"zero chars", 0, 0},
		{"one char rounds up", 1, 1},
		{"999 chars", 999, 7},
		{"exactly 1000", 1000, 7},
		{"1001 rounds up", 1001, 8},
		{"2000 chars", 2000, 14},
		{"big script", 10500, 74},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateCents(tt.chars); got != tt.want {
				t.Errorf("EstimateCents(%d) = %d, want %d", tt.chars, got, tt.want)
			}
		})
	}
}

func TestEstimateForParams(t *testing.T) {
	t.Run("empty reddit story estimates zero", func(t *testing.T) {
		p := &models.RedditStoryParams{}
		if got := EstimateForParams(p); got != 0 {
			t.Errorf("empty params = %d cents, want 0", got)
		}
	})

	t.Run("reddit story adds assist surcharge", func(t *testing.T) {
		p := &models.RedditStoryParams{
			PostTitle:       strings.Repeat("a", 500),
			PostDescription: strings.Repeat("b", 1500),
		}
		// 2000 chars = 14 cents + 1 surcharge
		if got := EstimateForParams(p); got != 15 {
			t.Errorf("2000 chars = %d cents, want 15", got)
		}
	})

	t.Run("dialogue counts only spoken text", func(t *testing.T) {
		p := &models.CharacterExplainsParams{
			TopicTitle: strings.Repeat("t", 400), // not narrated
			Dialogue: []models.DialogueLine{
				{CharacterID: "peter", Text: strings.Repeat("x", 600)},
				{CharacterID: "stewie", Text: strings.Repeat("y", 400)},
			},
		}
		// 1000 chars = 7 cents + 1 surcharge
		if got := EstimateForParams(p); got != 8 {
			t.Errorf("1000 dialogue chars = %d cents, want 8", got)
		}
	})

	t.Run("multibyte text counts runes not bytes", func(t *testing.T) {
		p := &models.CharacterExplainsParams{
			Dialogue: []models.DialogueLine{
				{CharacterID: "peter", Text: strings.Repeat("ก", 1000)},
			},
		}
		if got := EstimateForParams(p); got != 8 {
			t.Errorf("1000 thai runes = %d cents, want 8", got)
		}
	})
}

func TestFormatCents(t *testing.T) {
	tests := []struct {
		cents    int
		currency string
		want     string
	}{
		{150, "USD", "$1.50"},
		{7, "", "$0.07"},
		{15, "USD", "$0.15"},
		{1234, "EUR", "€12.34"},
		{99, "GBP", "£0.99"},
		{500, "THB", "THB 5.00"},
		{-25, "USD", "-$0.25"},
	}

	for _, tt := range tests {
		if got := FormatCents(tt.cents, tt.currency); got != tt.want {
			t.Errorf("FormatCents(%d, %q) = %q, want %q", tt.cents, tt.currency, got, tt.want)
		}
	}
}
