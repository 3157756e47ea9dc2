// Package api defines the messages of the splitter.v1 BillService.
//
// Messages travel as JSON (see apiconnect.JSONCodec). Field names follow the
// lowerCamelCase convention of protobuf JSON.
package api

// Form is the raw input of the bill splitter.
type Form struct {
	// ItemsText holds one "name price" entry per line.
	ItemsText string `json:"itemsText"`
	// ParticipantsText holds one participant name per line.
	ParticipantsText string  `json:"participantsText"`
	GSTRate          float64 `json:"gstRate"`
	ServiceTaxRate   float64 `json:"serviceTaxRate"`
	// Overrides replace the default "everyone shares" attribution of items.
	Overrides []*Override `json:"overrides,omitempty"`
}

// Override attributes one item to an explicit set of participants.
type Override struct {
	ItemIndex    int      `json:"itemIndex"`
	Participants []string `json:"participants"`
}

// Item is a parsed line item and who shares it.
type Item struct {
	Name         string   `json:"name"`
	Price        float64  `json:"price"`
	Malformed    bool     `json:"malformed,omitempty"`
	Participants []string `json:"participants"`
}

// PersonItem is one participant's share of one item.
type PersonItem struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// PersonSplit is what one participant owes.
type PersonSplit struct {
	Name string `json:"name"`
	// UntaxedShare is kept at full precision; UntaxedShareText is the 2 dp rendering.
	UntaxedShare     float64 `json:"untaxedShare"`
	UntaxedShareText string  `json:"untaxedShareText"`
	Tax              float64 `json:"tax"`
	// TotalOwed is rounded to 2 dp.
	TotalOwed      float64       `json:"totalOwed"`
	TotalOwedText  string        `json:"totalOwedText"`
	GSTRate        float64       `json:"gstRate"`
	ServiceTaxRate float64       `json:"serviceTaxRate"`
	Items          []*PersonItem `json:"items,omitempty"`
}

// Summary holds bill-level totals.
type Summary struct {
	Subtotal       float64 `json:"subtotal"`
	Assigned       float64 `json:"assigned"`
	Unassigned     float64 `json:"unassigned"`
	Tax            float64 `json:"tax"`
	Total          float64 `json:"total"`
	RoundingDelta  float64 `json:"roundingDelta"`
	MalformedItems int     `json:"malformedItems"`
}

// Result is one evaluation of a form.
type Result struct {
	Items   []*Item        `json:"items"`
	Splits  []*PersonSplit `json:"splits"`
	Summary *Summary       `json:"summary"`
}

// Session is a form held by the server between edits.
type Session struct {
	ID        string  `json:"id"`
	Revision  int64   `json:"revision"`
	Form      *Form   `json:"form"`
	Result    *Result `json:"result"`
	CreatedAt int64   `json:"createdAt"`
	UpdatedAt int64   `json:"updatedAt"`
}

type CalculateRequest struct {
	Form *Form `json:"form"`
}

type CalculateResponse struct {
	Result *Result `json:"result"`
}

// BaselineRequest asks for the reset baseline, or the sample bill when Sample is set.
type BaselineRequest struct {
	Sample bool `json:"sample,omitempty"`
}

type BaselineResponse struct {
	Form   *Form   `json:"form"`
	Result *Result `json:"result"`
}

// CreateSessionRequest starts a session from Form, or from the sample bill
// when Sample is set, or from the reset baseline when neither is given.
type CreateSessionRequest struct {
	Form   *Form `json:"form,omitempty"`
	Sample bool  `json:"sample,omitempty"`
}

type GetSessionRequest struct {
	SessionID string `json:"sessionId"`
}

// UpdateSessionRequest replaces the whole form of a session.
// Revision must be greater than the session's current revision.
type UpdateSessionRequest struct {
	SessionID string `json:"sessionId"`
	Revision  int64  `json:"revision"`
	Form      *Form  `json:"form"`
}

// AssignItemRequest overrides who shares one item. Clear drops the override
// and returns the item to being shared by everyone.
type AssignItemRequest struct {
	SessionID    string   `json:"sessionId"`
	Revision     int64    `json:"revision"`
	ItemIndex    int      `json:"itemIndex"`
	Participants []string `json:"participants"`
	Clear        bool     `json:"clear,omitempty"`
}

type ResetSessionRequest struct {
	SessionID string `json:"sessionId"`
	Revision  int64  `json:"revision"`
}

type DeleteSessionRequest struct {
	SessionID string `json:"sessionId"`
}

type DeleteSessionResponse struct{}

type SessionResponse struct {
	Session *Session `json:"session"`
}
