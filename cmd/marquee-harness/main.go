package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/andyrewlee/marquee/internal/app"
	"github.com/andyrewlee/marquee/internal/perf"
)

type stats struct {
	avg time.Duration
	min time.Duration
	max time.Duration
	p50 time.Duration
	p95 time.Duration
	p99 time.Duration
}

func main() {
	width := flag.Int("width", 120, "viewport width in columns")
	frames := flag.Int("frames", 300, "number of measured frames")
	warmup := flag.Int("warmup", 30, "warmup frames to ignore")
	clockMode := flag.String("clock", "", "override the configured clock: fixed or timestamp")
	configPath := flag.String("config", "", "config file (built-in defaults when empty)")
	resizeEvery := flag.Int("resize-every", 0, "alternate the width every N frames (0 disables)")
	dump := flag.Bool("dump", false, "print the last frame as plain text")
	flag.Parse()

	h, err := app.NewHarness(app.HarnessOptions{
		Width:      *width,
		ConfigPath: *configPath,
		Clock:      *clockMode,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "harness init failed: %v\n", err)
		os.Exit(1)
	}
	defer h.Close()

	totalFrames := *warmup + *frames
	if totalFrames <= 0 {
		fmt.Fprintln(os.Stderr, "frames + warmup must be > 0")
		os.Exit(1)
	}

	durations := make([]time.Duration, 0, *frames)
	startAll := time.Now()

	for i := 0; i < totalFrames; i++ {
		if *resizeEvery > 0 && i > 0 && i%*resizeEvery == 0 {
			w := *width
			if (i / *resizeEvery)%2 == 1 {
				w = *width / 2
			}
			if err := h.Resize(w); err != nil {
				fmt.Fprintf(os.Stderr, "resize to %d failed: %v\n", w, err)
				os.Exit(1)
			}
		}
		h.Step()
		start := time.Now()
		view := h.Render()
		_ = view.Content
		if i >= *warmup {
			durations = append(durations, time.Since(start))
		}
	}

	total := time.Since(startAll)
	s := summarize(durations)
	fmt.Printf("strips=%d frames=%d warmup=%d width=%d resize_every=%d\n",
		len(h.Frames()), *frames, *warmup, *width, *resizeEvery)
	fmt.Printf("total=%s avg=%s p50=%s p95=%s p99=%s min=%s max=%s fps=%.2f\n",
		total, s.avg, s.p50, s.p95, s.p99, s.min, s.max, fps(durations))
	for i, f := range h.Frames() {
		fmt.Printf("strip[%d] seq=%d items=%d reps=%d max_offset=%g\n",
			i, f.Seq, f.Layout.ItemCount, f.Layout.RepetitionCount, f.Layout.MaxOffset)
	}
	if perf.Enabled() {
		timings, counters := perf.Snapshot()
		for _, st := range timings {
			fmt.Printf("perf %s count=%d avg=%s p95=%s max=%s\n", st.Name, st.Count, st.Avg, st.P95, st.Max)
		}
		for _, c := range counters {
			fmt.Printf("perf %s count=%d\n", c.Name, c.Value)
		}
	}
	if *dump {
		fmt.Println(h.Plain())
	}
}

func summarize(durations []time.Duration) stats {
	if len(durations) == 0 {
		return stats{}
	}
	sorted := make([]time.Duration, len(durations))
	copy(sorted, durations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var total time.Duration
	for _, d := range durations {
		total += d
	}
	return stats{
		avg: total / time.Duration(len(durations)),
		min: sorted[0],
		max: sorted[len(sorted)-1],
		p50: percentile(sorted, 0.50),
		p95: percentile(sorted, 0.95),
		p99: percentile(sorted, 0.99),
	}
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := int(float64(len(sorted)-1) * p)
	return sorted[pos]
}

func fps(durations []time.Duration) float64 {
	var total time.Duration
	for _, d := range durations {
		total += d
	}
	if total <= 0 {
		return 0
	}
	return float64(len(durations)) / total.Seconds()
}
