package service

import (
	"maps"
	"slices"

	"github.com/mmynk/splitter/internal/calculator"
	"github.com/mmynk/splitter/internal/models"
	"github.com/mmynk/splitter/pkg/api"
)

// formFromAPI converts a wire form. Overrides with a negative index are
// dropped; when an index repeats, the last override wins.
func formFromAPI(f *api.Form) models.Form {
	if f == nil {
		return models.Form{}
	}
	form := models.Form{
		ItemsText:        f.ItemsText,
		ParticipantsText: f.ParticipantsText,
		GSTRate:          f.GSTRate,
		ServiceTaxRate:   f.ServiceTaxRate,
	}
	for _, o := range f.Overrides {
		if o == nil || o.ItemIndex < 0 {
			continue
		}
		if form.Overrides == nil {
			form.Overrides = make(map[int][]string)
		}
		form.Overrides[o.ItemIndex] = append([]string{}, o.Participants...)
	}
	return form
}

func formToAPI(form models.Form) *api.Form {
	f := &api.Form{
		ItemsText:        form.ItemsText,
		ParticipantsText: form.ParticipantsText,
		GSTRate:          form.GSTRate,
		ServiceTaxRate:   form.ServiceTaxRate,
	}
	for _, index := range slices.Sorted(maps.Keys(form.Overrides)) {
		f.Overrides = append(f.Overrides, &api.Override{
			ItemIndex:    index,
			Participants: append([]string{}, form.Overrides[index]...),
		})
	}
	return f
}

func resultToAPI(result calculator.Result) *api.Result {
	items := make([]*api.Item, len(result.Bill.Items))
	for i, item := range result.Bill.Items {
		items[i] = &api.Item{
			Name:         item.Name,
			Price:        item.Price,
			Malformed:    item.Malformed,
			Participants: append([]string{}, item.Participants...),
		}
	}

	splits := make([]*api.PersonSplit, len(result.Splits))
	for i, split := range result.Splits {
		// Convert items to API format
		personItems := make([]*api.PersonItem, len(split.Items))
		for j, item := range split.Items {
			personItems[j] = &api.PersonItem{
				Name:   item.Name,
				Amount: item.Amount,
			}
		}
		splits[i] = &api.PersonSplit{
			Name:             split.Participant,
			UntaxedShare:     split.Subtotal,
			UntaxedShareText: calculator.Format2(split.Subtotal),
			Tax:              split.Tax,
			TotalOwed:        split.Total,
			TotalOwedText:    calculator.Format2(split.Total),
			GSTRate:          split.GSTRate,
			ServiceTaxRate:   split.ServiceTaxRate,
			Items:            personItems,
		}
	}

	summary := result.Summary
	return &api.Result{
		Items:  items,
		Splits: splits,
		Summary: &api.Summary{
			Subtotal:       summary.Subtotal,
			Assigned:       summary.Assigned,
			Unassigned:     summary.Unassigned,
			Tax:            summary.Tax,
			Total:          summary.Total,
			RoundingDelta:  summary.RoundingDelta,
			MalformedItems: summary.MalformedItems,
		},
	}
}

func sessionToAPI(session *models.Session, result calculator.Result) *api.Session {
	return &api.Session{
		ID:        session.ID,
		Revision:  session.Revision,
		Form:      formToAPI(session.Form),
		Result:    resultToAPI(result),
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
}
