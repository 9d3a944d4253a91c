package snapshot

import "errors"

// Sentinel kinds for snapshot errors.
var (
	// ErrNoSnapshot marks a load before the first successful sync.
	ErrNoSnapshot = errors.New("no snapshot")

	// ErrBadSnapshot marks a snapshot file that cannot be decoded.
	ErrBadSnapshot = errors.New("bad snapshot")
)
