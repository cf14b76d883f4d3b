// Package logger provides verbosity-gated, color-prefixed logging for the
// Totara CLI. Info and warn output is suppressed unless --verbose is set,
// debug output unless --debug is set; errors always print to stderr.
package logger
