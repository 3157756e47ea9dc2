package calculator

import (
	"fmt"
	"maps"
	"slices"

	"github.com/mmynk/splitter/internal/models"
)

// Baseline tax rates restored by Reset.
const (
	BaselineGSTRate        = 9
	BaselineServiceTaxRate = 10
)

const (
	sampleItems  = "ribsoup 99\nbeancurd 13.8\negg 3\nchoysim 9.5\nyoutiao 12\nrice 10.8\nbarley 5.1\nluohanguo 5\nlime 2.5"
	samplePeople = "Fanwei\nRonald\nPoh Feng\nShi Zheng\nKiefer\nChun Heng\nJacky\nEugene\nMalcolm"
)

// Result is everything a front end needs to render one evaluation.
type Result struct {
	Bill    models.Bill
	Splits  []models.PersonSplit
	Summary models.Summary
}

// Reset returns the baseline form: no items, no participants,
// 9% GST and 10% service tax.
func Reset() models.Form {
	return models.Form{
		GSTRate:        BaselineGSTRate,
		ServiceTaxRate: BaselineServiceTaxRate,
	}
}

// Sample returns a filled-in form, useful as a starting point and for demos.
func Sample() models.Form {
	return models.Form{
		ItemsText:        sampleItems,
		ParticipantsText: samplePeople,
	}
}

// BuildBill parses form into a bill and applies its overrides.
// Overrides pointing past the last item are ignored.
func BuildBill(form models.Form) models.Bill {
	participants := ParseParticipants(form.ParticipantsText)
	bill := models.Bill{
		Items:          ParseItems(form.ItemsText, participants),
		Participants:   participants,
		GSTRate:        finite(form.GSTRate),
		ServiceTaxRate: finite(form.ServiceTaxRate),
	}

	for _, index := range slices.Sorted(maps.Keys(form.Overrides)) {
		if overridden, err := Assign(bill, index, form.Overrides[index]); err == nil {
			bill = overridden
		}
	}
	return bill
}

// Evaluate builds the bill for form and allocates it.
func Evaluate(form models.Form) Result {
	bill := BuildBill(form)
	splits := Allocate(bill)
	return Result{
		Bill:    bill,
		Splits:  splits,
		Summary: Summarize(bill, splits),
	}
}

// Override returns a copy of form whose item at index is shared by people.
// people is deduplicated; names are matched against the participant list
// each time the form is evaluated, so an override outlives edits to the
// participant text.
func Override(form models.Form, index int, people []string) (models.Form, error) {
	items := ParseItems(form.ItemsText, nil)
	if index < 0 || index >= len(items) {
		return form, fmt.Errorf("%w: %d (bill has %d items)", ErrItemIndex, index, len(items))
	}

	out := form.Clone()
	if out.Overrides == nil {
		out.Overrides = make(map[int][]string)
	}
	out.Overrides[index] = dedupe(people)
	return out, nil
}

// ClearOverride returns a copy of form in which the item at index is back
// to being shared by everyone.
func ClearOverride(form models.Form, index int) models.Form {
	if _, ok := form.Overrides[index]; !ok {
		return form
	}
	out := form.Clone()
	delete(out.Overrides, index)
	return out
}
