package app

import "time"

const (
	// configWatcherDebounce coalesces bursts of config file writes.
	configWatcherDebounce = 200 * time.Millisecond

	// externalMsgBuffer bounds messages queued from background goroutines.
	externalMsgBuffer = 64

	// stripGap is the number of blank rows between strips.
	stripGap = 1
)
