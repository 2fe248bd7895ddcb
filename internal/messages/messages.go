package messages

import "github.com/andyrewlee/marquee/internal/config"

// Error carries a failure into the update loop.
type Error struct {
	Err     error
	Context string
	Logged  bool
}

func (e Error) Error() string {
	if e.Err == nil {
		return e.Context
	}
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

func (e Error) Unwrap() error { return e.Err }

// ConfigChanged is sent when the config file changed on disk.
type ConfigChanged struct {
	Path string
}

// ConfigReloaded carries the result of re-reading the config file.
// Config is nil when Err is set.
type ConfigReloaded struct {
	Config *config.Config
	Err    error
}

// StripsRestarted reports that every strip was re-tiled, with the reason.
type StripsRestarted struct {
	Reason string
}
