package calculator

import (
	"github.com/mmynk/splitter/internal/models"
)

// Allocate computes how much each participant owes, in participant order.
//
// Each item is split equally among the participants attributed to it that
// are still on the bill. GST is applied to the untaxed share first and the
// service tax is compounded on the GST-inclusive amount:
//
//	total = (subtotal + subtotal × gst/100) × (1 + service/100)
//
// Allocate never fails: unknown names, empty attributions and non-finite
// numbers all contribute zero. A subtotal or taxed amount too large for a
// float64 also counts as zero.
func Allocate(bill models.Bill) []models.PersonSplit {
	gst := finite(bill.GSTRate)
	service := finite(bill.ServiceTaxRate)
	participants := dedupe(bill.Participants)

	splits := make([]models.PersonSplit, len(participants))
	index := make(map[string]int, len(participants))
	for i, p := range participants {
		index[p] = i
		splits[i] = models.PersonSplit{
			Participant:    p,
			GSTRate:        gst,
			ServiceTaxRate: service,
		}
	}

	// Calculate each person's subtotal based on attributed items
	for _, item := range bill.Items {
		shares := attributed(item.Participants, index)
		if len(shares) == 0 {
			continue
		}

		perPersonAmount := finite(item.Price) / float64(len(shares))
		for _, i := range shares {
			splits[i].Subtotal += perPersonAmount
			splits[i].Items = append(splits[i].Items, models.PersonItem{
				Name:   item.Name,
				Amount: perPersonAmount,
			})
		}
	}

	for i := range splits {
		subtotal := finite(splits[i].Subtotal)
		splits[i].Subtotal = subtotal

		taxed := applyTax(subtotal, gst, service)
		if isFinite(taxed) {
			splits[i].Tax = finite(taxed - subtotal)
			splits[i].Total = Round2(taxed)
		}
	}

	return splits
}

func applyTax(subtotal, gst, service float64) float64 {
	return (subtotal + subtotal*(gst/100)) * (1 + service/100)
}

// attributed returns the split indexes of the distinct names in people
// that are known participants.
func attributed(people []string, index map[string]int) []int {
	shares := make([]int, 0, len(people))
	seen := make(map[int]bool, len(people))
	for _, p := range people {
		i, ok := index[p]
		if !ok || seen[i] {
			continue
		}
		seen[i] = true
		shares = append(shares, i)
	}
	return shares
}

func dedupe(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
