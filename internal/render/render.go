// Package render turns an evaluated bill into markdown.
package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitter/internal/calculator"
)

// DefaultCurrency is used when no currency code is given.
const DefaultCurrency = "SGD"

// Amount formats a value in the given currency, e.g. "$17.86" for SGD.
// Unknown currency codes, and amounts too large for the currency formatter,
// fall back to the plain number followed by the code. NaN and ±Inf render
// as zero.
func Amount(value float64, currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		value = 0
	}
	cur := money.GetCurrency(currency)
	if cur == nil {
		return calculator.Format2(value) + " " + currency
	}
	minor := decimal.NewFromFloat(value).Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	if minor.GreaterThan(maxMinor) || minor.LessThan(minMinor) {
		return calculator.Format2(value) + " " + currency
	}
	return cur.Formatter().Format(minor.IntPart())
}

var (
	maxMinor = decimal.NewFromInt(math.MaxInt64)
	minMinor = decimal.NewFromInt(math.MinInt64)
)

// Percent formats a rate, e.g. "9%" or "7.5%".
func Percent(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64) + "%"
}

// Markdown renders the bill summary, the item attribution table and the totals.
func Markdown(result calculator.Result, currency string) string {
	var b strings.Builder

	b.WriteString("# Bill Summary\n\n")
	if len(result.Splits) == 0 {
		b.WriteString("_No participants._\n\n")
	} else {
		b.WriteString("| Name | Total Amount to Pay | Untaxed Price | GST | Service Tax |\n")
		b.WriteString("|------|--------------------:|--------------:|----:|------------:|\n")
		for _, split := range result.Splits {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				cell(split.Participant),
				Amount(split.Total, currency),
				Amount(split.Subtotal, currency),
				Percent(split.GSTRate),
				Percent(split.ServiceTaxRate),
			)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Items\n\n")
	if len(result.Bill.Items) == 0 {
		b.WriteString("_No items._\n\n")
	} else {
		b.WriteString("| # | Item | Price | Shared by |\n")
		b.WriteString("|--:|------|------:|-----------|\n")
		for i, item := range result.Bill.Items {
			price := Amount(item.Price, currency)
			if item.Malformed {
				price = "invalid price"
			}
			sharedBy := "_nobody_"
			if len(item.Participants) > 0 {
				names := make([]string, len(item.Participants))
				for j, p := range item.Participants {
					names[j] = cell(p)
				}
				sharedBy = strings.Join(names, ", ")
			}
			fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", i, cell(item.Name), price, sharedBy)
		}
		b.WriteString("\n")
	}

	summary := result.Summary
	b.WriteString("## Totals\n\n")
	fmt.Fprintf(&b, "- Subtotal: %s\n", Amount(summary.Subtotal, currency))
	if summary.Unassigned != 0 {
		fmt.Fprintf(&b, "- Not shared by anyone: %s\n", Amount(summary.Unassigned, currency))
	}
	fmt.Fprintf(&b, "- Tax: %s\n", Amount(summary.Tax, currency))
	fmt.Fprintf(&b, "- Total: %s\n", Amount(summary.Total, currency))
	if summary.MalformedItems > 0 {
		fmt.Fprintf(&b, "\n> %d item(s) have an invalid price and count as zero.\n", summary.MalformedItems)
	}

	return b.String()
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
