package calculator

import (
	"math"
	"regexp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitter/internal/models"
)

var regexSpaces = regexp.MustCompile(`\s+`)

// ParseParticipants returns one participant per non-blank line, trimmed.
// A name that appears twice is kept once, at its first position.
func ParseParticipants(text string) []string {
	lines := strings.Split(text, "\n")
	participants := make([]string, 0, len(lines))
	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		name := strings.TrimSpace(line)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		participants = append(participants, name)
	}
	return participants
}

// ParseItems parses one item per non-blank line. The line is split on its
// first whitespace run into name and price. Every item starts out shared by
// all of participants.
func ParseItems(text string, participants []string) []models.Item {
	var items []models.Item
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, priceText := cutSpaces(line)
		price, ok := ParsePrice(priceText)
		items = append(items, models.Item{
			Name:         name,
			Price:        price,
			Malformed:    !ok,
			Participants: slices.Clone(participants),
		})
	}
	return items
}

// ParsePrice parses a decimal price. Malformed input yields (0, false).
func ParsePrice(text string) (float64, bool) {
	return parseDecimal(text)
}

// ParseRate parses a tax percentage. Malformed input yields (0, false).
func ParseRate(text string) (float64, bool) {
	return parseDecimal(text)
}

func parseDecimal(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return 0, false
	}
	f := d.InexactFloat64()
	if math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// cutSpaces splits line around its first whitespace run.
func cutSpaces(line string) (string, string) {
	loc := regexSpaces.FindStringIndex(line)
	if loc == nil {
		return line, ""
	}
	return line[:loc[0]], line[loc[1]:]
}

// finite maps NaN and ±Inf to zero.
func finite(x float64) float64 {
	if !isFinite(x) {
		return 0
	}
	return x
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Round2 rounds x to 2 decimal places, half away from zero.
func Round2(x float64) float64 {
	return decimal.NewFromFloat(finite(x)).Round(2).InexactFloat64()
}

// Format2 renders x with exactly 2 decimal places.
func Format2(x float64) string {
	return decimal.NewFromFloat(finite(x)).StringFixed(2)
}
