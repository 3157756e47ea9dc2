// Package models defines the core domain models for the bill splitter.
//
// # Models
//
//   - Form: the raw, user-editable input (item text, participant text, tax rates, overrides)
//   - Bill: the structured bill parsed from a Form
//   - Item: one priced line of the bill and the participants sharing it
//   - PersonSplit: calculated share for one participant
//   - Summary: bill-level totals
//   - Session: a Form held server-side under a revision number
//
// Participants are identified by name strings. Two lines with the same name
// are the same participant.
//
// # Design Principles
//
// 1. **Raw input is the source of truth**: a Bill is always rebuilt from a Form
// 2. **No hidden state**: evaluating the same Form twice gives the same result
// 3. **Amounts are float64**: rounding happens once, at the presentation edge
package models
