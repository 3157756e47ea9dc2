package render

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmynk/splitter/internal/calculator"
	"github.com/mmynk/splitter/internal/models"
)

func TestAmount(t *testing.T) {
	assert.Equal(t, "$60.50", Amount(60.50000000000001, "SGD"))
	assert.Equal(t, "$17.86", Amount(160.7/9, ""))
	assert.Equal(t, "$0.00", Amount(0, "USD"))
	assert.Equal(t, "12.30 XYZ", Amount(12.3, "XYZ"))
	assert.Equal(t, "$0.00", Amount(math.Inf(1), "SGD"))
	assert.Equal(t, "$0.00", Amount(math.NaN(), "SGD"))
	assert.True(t, strings.HasSuffix(Amount(1e308, "SGD"), ".00 SGD"))
}

func TestMarkdown_Overflow(t *testing.T) {
	form := models.Form{
		ItemsText:        "a 1e308\nb 1e308",
		ParticipantsText: "A",
		GSTRate:          1e308,
		ServiceTaxRate:   1e308,
	}

	var md string
	assert.NotPanics(t, func() { md = Markdown(calculator.Evaluate(form), "SGD") })
	assert.Contains(t, md, "| A | $0.00 | $0.00 |")
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "9%", Percent(9))
	assert.Equal(t, "7.5%", Percent(7.5))
	assert.Equal(t, "0%", Percent(0))
}

func TestMarkdown(t *testing.T) {
	form, err := calculator.Override(models.Form{
		ItemsText:        "soup 100\ntea abc\ncake 20",
		ParticipantsText: "A|x\nB",
		GSTRate:          10,
		ServiceTaxRate:   10,
	}, 2, nil)
	if err != nil {
		t.Fatalf("Override failed: %v", err)
	}

	md := Markdown(calculator.Evaluate(form), "SGD")

	assert.Contains(t, md, "| A\\|x | $60.50 | $50.00 | 10% | 10% |")
	assert.Contains(t, md, "| B | $60.50 | $50.00 | 10% | 10% |")
	assert.Contains(t, md, "| 1 | tea | invalid price | A\\|x, B |")
	assert.Contains(t, md, "| 2 | cake | $20.00 | _nobody_ |")
	assert.Contains(t, md, "- Not shared by anyone: $20.00")
	assert.Contains(t, md, "- Total: $121.00")
	assert.Contains(t, md, "1 item(s) have an invalid price")
}

func TestMarkdown_Empty(t *testing.T) {
	md := Markdown(calculator.Evaluate(calculator.Reset()), "")

	assert.Contains(t, md, "_No participants._")
	assert.Contains(t, md, "_No items._")
	assert.False(t, strings.Contains(md, "Not shared"), "empty bill has nothing unassigned")
}
