// Package ui provides semantic text formatting for Totara's CLI output,
// with graceful fallbacks when colors are disabled.
package ui
