package common

import (
	tea "charm.land/bubbletea/v2"

	"github.com/andyrewlee/marquee/internal/logging"
	"github.com/andyrewlee/marquee/internal/messages"
)

// ReportError logs err and emits it as an Error message.
func ReportError(context string, err error) tea.Cmd {
	if err == nil {
		return nil
	}
	logging.Error("Error in %s: %v", context, err)
	return func() tea.Msg {
		return messages.Error{Err: err, Context: context, Logged: true}
	}
}
