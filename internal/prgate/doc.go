// Package prgate enforces the integration test verification gate on pull
// requests: it detects the verification checkbox in the description, strips
// stale confirmations when new commits arrive, and posts instructions when
// verification is still outstanding.
package prgate
