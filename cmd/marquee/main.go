package main

import (
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/term"

	"github.com/andyrewlee/marquee/internal/app"
	"github.com/andyrewlee/marquee/internal/config"
	"github.com/andyrewlee/marquee/internal/logging"
	"github.com/andyrewlee/marquee/internal/safego"
)

// Version info set by GoReleaser via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	configPath := flag.String("config", "", "config file (default ~/.marquee/config.json)")
	logLevel := flag.String("log-level", "", "override the configured log level")
	noWatch := flag.Bool("no-watch", false, "do not reload the config file on change")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("marquee %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	if !shouldLaunchTUI(
		term.IsTerminal(os.Stdin.Fd()),
		term.IsTerminal(os.Stdout.Fd()),
	) {
		fmt.Fprintln(os.Stderr, "marquee needs an interactive terminal; use marquee-harness for headless runs")
		os.Exit(1)
	}

	os.Exit(run(*configPath, *logLevel, !*noWatch))
}

func shouldLaunchTUI(stdinIsTTY, stdoutIsTTY bool) bool {
	return stdinIsTTY && stdoutIsTTY
}

func run(configPath, logLevel string, watch bool) int {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	if err := cfg.Paths.EnsureDirectories(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create %s: %v\n", cfg.Paths.Home, err)
	}
	if err := logging.Initialize(cfg.Paths.LogDir, logging.ParseLevel(cfg.LogLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not initialize logging: %v\n", err)
	}
	defer logging.Close()

	logging.Info("Starting marquee %s", version)
	startSignalDebug()
	startPprof()

	a, err := app.New(cfg, version)
	if err != nil {
		logging.Error("Failed to initialize app: %v", err)
		fmt.Fprintf(os.Stderr, "Error initializing app: %v\n", err)
		return 1
	}

	p := tea.NewProgram(a)
	a.SetMsgSender(p.Send)
	if watch {
		if err := a.WatchConfig(cfg.Paths.ConfigPath); err != nil {
			logging.Warn("config watch disabled: %v", err)
		}
	}

	if _, err := p.Run(); err != nil {
		logging.Error("App exited with error: %v", err)
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		a.Shutdown()
		return 1
	}
	a.Shutdown()

	logging.Info("marquee shutdown complete")
	return 0
}

// pprofAddr maps MARQUEE_PPROF to a listen address: "1"/"true" selects the
// default port, a bare number selects a local port, anything else is used
// verbatim.
func pprofAddr(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	switch strings.ToLower(raw) {
	case "0", "false", "no":
		return "", false
	case "1", "true":
		return "127.0.0.1:6060", true
	}
	if _, err := strconv.Atoi(raw); err == nil {
		return "127.0.0.1:" + raw, true
	}
	return raw, true
}

func startPprof() {
	addr, ok := pprofAddr(os.Getenv("MARQUEE_PPROF"))
	if !ok {
		return
	}
	safego.Go("pprof", func() {
		logging.Info("pprof listening on %s", addr)
		if err := http.ListenAndServe(addr, nil); err != nil {
			logging.Warn("pprof server stopped: %v", err)
		}
	})
}
