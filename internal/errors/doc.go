// Package errors defines sentinel errors shared across Totara.
//
// Errors fall into two classes: preflight errors, which abort a run before
// any secret is uploaded, and entry errors, which mark a single secret as
// failed while the run proceeds. Callers match them with errors.Is to pick
// user-facing messages.
package errors
