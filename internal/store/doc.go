// Package store defines the remote secret sink abstraction and its
// implementations: the GitHub REST API (client-side sealed-box encryption),
// the gh CLI (ambient session), and AWS Secrets Manager.
//
// All stores share the same lifecycle: Preflight verifies prerequisites
// before anything touches the network, Prepare performs one-time setup such
// as fetching key material, and Put uploads a single secret. Which store a
// run uses is selected by configuration, not by separate code paths.
package store
