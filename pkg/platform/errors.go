package platform

import "errors"

// Sentinel errors for platform operations.
var (
	// ErrClosed is returned by WaitEvents once the surface has been closed.
	ErrClosed = errors.New("platform: closed")
)
