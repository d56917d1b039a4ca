// Package services defines the shared error taxonomy used across the
// backend. Handlers classify failures by wrapping them with the sentinel
// errors declared here; the HTTP layer maps sentinels to response codes.
package services
