package strava

import "errors"

// Sentinel kinds for remote API failures.
var (
	// ErrAuth marks a failed token exchange. The current sync attempt is
	// fatal; the previously cached dataset stays authoritative.
	ErrAuth = errors.New("token exchange failed")

	// ErrTransport marks any network or HTTP failure during pagination.
	// The whole fetch aborts; no partial result is returned.
	ErrTransport = errors.New("activity fetch failed")
)
