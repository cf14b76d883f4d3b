// Package audit maintains an append-only JSONL trail of push runs under
// .totara/audit.jsonl. Logging is best-effort: a failed write never fails
// the operation being logged, and secret values are never recorded.
package audit
