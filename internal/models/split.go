package models

// Bill represents a bill with items to be split among participants.
// A Bill is derived from a Form and is never edited directly.
type Bill struct {
	// Items are the individual line items on the bill, in input order.
	Items []Item

	// Participants is the ordered list of people splitting the bill.
	Participants []string

	// GSTRate is the GST percentage (e.g. 9 for 9%).
	GSTRate float64

	// ServiceTaxRate is the service charge percentage, compounded on top of GST.
	ServiceTaxRate float64
}

// Item represents a single line item on a bill.
// Items can be shared among multiple participants.
type Item struct {
	// Name is the first word of the item line (e.g., "ribsoup").
	Name string

	// Price is the pre-tax price of this item.
	// Zero when the price could not be parsed.
	Price float64

	// Malformed is set when the price text was missing or unparseable.
	Malformed bool

	// Participants is the list of participant names who split this item.
	// The item is split equally among them; an empty list means nobody pays for it.
	Participants []string
}

// PersonItem represents an item's share for one person.
type PersonItem struct {
	Name   string
	Amount float64 // This person's share of the item
}

// PersonSplit represents one person's calculated share of a bill.
// This is the output of the allocation engine.
type PersonSplit struct {
	// Participant is the name of the person.
	Participant string

	// Subtotal is the untaxed share at full precision.
	Subtotal float64

	// Tax is the GST and service tax on Subtotal, at full precision.
	Tax float64

	// Total is the amount owed, rounded to 2 decimal places.
	// Calculated as: (subtotal + subtotal × gst/100) × (1 + service/100)
	Total float64

	// GSTRate and ServiceTaxRate echo the rates the split was computed with.
	GSTRate        float64
	ServiceTaxRate float64

	// Items are the items this person shares, with their share amounts.
	Items []PersonItem
}

// Summary holds bill-level totals.
type Summary struct {
	// Subtotal is the sum of all item prices.
	Subtotal float64

	// Assigned is the part of Subtotal attributed to at least one participant.
	Assigned float64

	// Unassigned is the part of Subtotal nobody is attributed to.
	Unassigned float64

	// Tax is the summed tax over all participants.
	Tax float64

	// Total is the sum of every participant's rounded Total.
	Total float64

	// RoundingDelta is Total minus the unrounded taxed amount.
	RoundingDelta float64

	// MalformedItems counts items whose price could not be parsed.
	MalformedItems int
}
