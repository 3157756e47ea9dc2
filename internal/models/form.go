package models

// Form is the raw input of the bill splitter, as typed by the user.
type Form struct {
	// ItemsText holds one "name price" entry per line.
	ItemsText string

	// ParticipantsText holds one participant name per line.
	ParticipantsText string

	GSTRate        float64
	ServiceTaxRate float64

	// Overrides replaces the default attribution of individual items,
	// keyed by item index. An empty slice means nobody shares the item.
	Overrides map[int][]string
}

// Clone returns a deep copy of f.
func (f Form) Clone() Form {
	out := f
	if f.Overrides != nil {
		out.Overrides = make(map[int][]string, len(f.Overrides))
		for idx, people := range f.Overrides {
			out.Overrides[idx] = append([]string{}, people...)
		}
	}
	return out
}

// Session represents a form held server-side between edits.
type Session struct {
	// ID is the unique identifier for the session (UUID format).
	ID string

	// Form is the latest committed input.
	Form Form

	// Revision increases with every committed edit.
	Revision int64

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64
	UpdatedAt int64
}
