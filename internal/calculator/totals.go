package calculator

import "github.com/mmynk/splitter/internal/models"

// Summarize computes bill-level totals for a bill and its splits.
//
// Unassigned is the value of items that no current participant shares;
// it is not included in any participant's total.
// Every field is finite.
func Summarize(bill models.Bill, splits []models.PersonSplit) models.Summary {
	known := make(map[string]bool, len(bill.Participants))
	for _, p := range bill.Participants {
		known[p] = true
	}

	var summary models.Summary
	for _, item := range bill.Items {
		price := finite(item.Price)
		summary.Subtotal += price
		if item.Malformed {
			summary.MalformedItems++
		}
		if sharedByAny(item.Participants, known) {
			summary.Assigned += price
		} else {
			summary.Unassigned += price
		}
	}

	var taxed float64
	for _, split := range splits {
		summary.Tax += split.Tax
		summary.Total += split.Total
		taxed += split.Subtotal + split.Tax
	}
	// Sums that overflow a float64 count as zero, like their inputs.
	summary.Subtotal = finite(summary.Subtotal)
	summary.Assigned = finite(summary.Assigned)
	summary.Unassigned = finite(summary.Unassigned)
	summary.Tax = finite(summary.Tax)
	summary.Total = Round2(summary.Total)
	summary.RoundingDelta = Round2(summary.Total - finite(taxed))

	return summary
}

func sharedByAny(people []string, known map[string]bool) bool {
	for _, p := range people {
		if known[p] {
			return true
		}
	}
	return false
}
