package common

import (
	"fmt"
	"runtime/debug"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/andyrewlee/marquee/internal/logging"
	"github.com/andyrewlee/marquee/internal/messages"
)

// recoverAsMsg turns a panic in a command or tick callback into an Error
// message stored in *msg. It must be deferred directly.
func recoverAsMsg(kind string, msg *tea.Msg) {
	r := recover()
	if r == nil {
		return
	}
	logging.Error("panic in %s: %v\n%s", kind, r, debug.Stack())
	*msg = messages.Error{Err: fmt.Errorf("%s panic: %v", kind, r), Context: kind, Logged: true}
}

// SafeCmd wraps a command with panic recovery.
func SafeCmd(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return func() (msg tea.Msg) {
		defer recoverAsMsg("command", &msg)
		return cmd()
	}
}

// SafeBatch drops nil commands, wraps the rest and batches them.
func SafeBatch(cmds ...tea.Cmd) tea.Cmd {
	safe := make([]tea.Cmd, 0, len(cmds))
	for _, cmd := range cmds {
		if cmd != nil {
			safe = append(safe, SafeCmd(cmd))
		}
	}
	switch len(safe) {
	case 0:
		return nil
	case 1:
		return safe[0]
	}
	return tea.Batch(safe...)
}

// SafeTick is tea.Tick with panic recovery in the callback.
func SafeTick(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	if fn == nil {
		return nil
	}
	return tea.Tick(d, func(t time.Time) (msg tea.Msg) {
		defer recoverAsMsg("tick", &msg)
		return fn(t)
	})
}
