package safego

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestRun_NoPanic(t *testing.T) {
	var called bool
	panicked := Run("test", func() {
		called = true
	})
	if !called {
		t.Error("function was not called")
	}
	if panicked {
		t.Error("expected panicked=false")
	}
}

func TestRun_RecoversPanic(t *testing.T) {
	if !Run("test-panic", func() { panic("test panic") }) {
		t.Error("expected panicked=true")
	}
}

func TestRun_CallsPanicHandler(t *testing.T) {
	var (
		mu           sync.Mutex
		handlerName  string
		handlerValue any
	)

	SetPanicHandler(func(name string, recovered any, stack []byte) {
		mu.Lock()
		handlerName = name
		handlerValue = recovered
		mu.Unlock()
	})
	defer SetPanicHandler(nil)

	Run("ticker", func() {
		panic("oops")
	})

	mu.Lock()
	defer mu.Unlock()
	if handlerName != "ticker" {
		t.Errorf("expected name 'ticker', got %q", handlerName)
	}
	if handlerValue != "oops" {
		t.Errorf("expected recovered value 'oops', got %v", handlerValue)
	}
}

func TestRun_PanicHandlerPanicIsRecovered(t *testing.T) {
	SetPanicHandler(func(name string, recovered any, stack []byte) {
		panic("handler panic")
	})
	defer SetPanicHandler(nil)

	Run("test", func() {
		panic("original panic")
	})
}

func TestRun_EmptyNameDefaults(t *testing.T) {
	var got atomic.Value
	SetPanicHandler(func(name string, recovered any, stack []byte) {
		got.Store(name)
	})
	defer SetPanicHandler(nil)

	Run("", func() { panic("x") })

	if got.Load() != "goroutine" {
		t.Errorf("expected default name 'goroutine', got %v", got.Load())
	}
}

func TestGo_DoneClosesAfterReturn(t *testing.T) {
	var called atomic.Bool
	done := Go("worker", func() {
		called.Store(true)
	})

	select {
	case <-done:
		if !called.Load() {
			t.Error("function was not called")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for goroutine")
	}
}

func TestGo_DoneClosesAfterPanic(t *testing.T) {
	done := Go("worker-panic", func() {
		panic("goroutine panic")
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("done channel not closed after panic")
	}
}
