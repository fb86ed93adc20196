// Package detail implements the record detail overlay.
//
// The overlay is a two-state machine (Hidden, Shown) decoupled from how it is
// drawn. Show is only reached through row activation; Dismiss hides the
// overlay without touching the record the caller holds. Field lines are
// projected from a record in field order, with composite values rendered as
// compact JSON, and drawn in a scrollable viewport inside a centred box.
package detail
