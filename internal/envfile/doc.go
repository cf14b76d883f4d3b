// Package envfile parses line-oriented NAME=VALUE definition files.
//
// The format is deliberately plain: no quoting, no escape sequences, no
// variable expansion. A line either splits cleanly on its first '=' into two
// non-empty trimmed fields or it is skipped.
package envfile
