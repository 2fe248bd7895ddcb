//go:build !windows

package main

import (
	"bytes"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"
	"syscall"

	"github.com/andyrewlee/marquee/internal/logging"
	"github.com/andyrewlee/marquee/internal/perf"
	"github.com/andyrewlee/marquee/internal/safego"
)

// startSignalDebug registers a SIGUSR1 handler that logs a goroutine dump and
// flushes perf stats. Only active in dev builds or with MARQUEE_DEBUG_SIGNALS.
func startSignalDebug() {
	if version != "dev" && strings.TrimSpace(os.Getenv("MARQUEE_DEBUG_SIGNALS")) == "" {
		return
	}
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGUSR1)
	safego.Go("signal-debug", func() {
		for range ch {
			perf.Flush("signal")
			var buf bytes.Buffer
			if err := pprof.Lookup("goroutine").WriteTo(&buf, 2); err != nil {
				logging.Warn("Failed to write goroutine dump: %v", err)
				continue
			}
			logging.Warn("GOROUTINE DUMP\n%s", buf.String())
		}
	})
}
