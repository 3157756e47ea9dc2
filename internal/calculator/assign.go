package calculator

import (
	"errors"
	"fmt"
	"slices"

	"github.com/mmynk/splitter/internal/models"
)

// ErrItemIndex is returned when an override targets an item that does not exist.
var ErrItemIndex = errors.New("item index out of range")

// Assign returns a copy of bill in which the item at index is shared by
// people instead of its current attribution. Names that are not bill
// participants are dropped and duplicates are kept once. bill is not modified.
func Assign(bill models.Bill, index int, people []string) (models.Bill, error) {
	if index < 0 || index >= len(bill.Items) {
		return bill, fmt.Errorf("%w: %d (bill has %d items)", ErrItemIndex, index, len(bill.Items))
	}

	known := make(map[string]bool, len(bill.Participants))
	for _, p := range bill.Participants {
		known[p] = true
	}
	assigned := make([]string, 0, len(people))
	for _, p := range dedupe(people) {
		if known[p] {
			assigned = append(assigned, p)
		}
	}

	out := bill
	out.Items = slices.Clone(bill.Items)
	out.Items[index].Participants = assigned
	return out, nil
}
