package monitor

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Hara602/scriptGuard/internal/event"
	"go.uber.org/zap"
)

// --------------------------------------------------------------------------
// stubs
// --------------------------------------------------------------------------

type stubProbe struct {
	attached atomic.Bool
	calls    atomic.Int32
}

func (p *stubProbe) DebuggerAttached() bool {
	p.calls.Add(1)
	return p.attached.Load()
}

type stubLister struct {
	mu      sync.Mutex
	listing string
	err     error
}

func (l *stubLister) set(listing string) {
	l.mu.Lock()
	l.listing = listing
	l.mu.Unlock()
}

func (l *stubLister) ListProcesses() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.listing, l.err
}

// recordingFatal 记录终止原因而不是退出进程
type recordingFatal struct {
	reasons chan string
}

func newRecordingFatal() *recordingFatal {
	return &recordingFatal{reasons: make(chan string, 64)}
}

func (f *recordingFatal) Terminate(reason string) {
	f.reasons <- reason
}

func (f *recordingFatal) count() int { return len(f.reasons) }

type fixture struct {
	probe   *stubProbe
	lister  *stubLister
	fatal   *recordingFatal
	protect atomic.Int32
	mon     *Monitor
}

func newFixture(interval time.Duration) *fixture {
	fx := &fixture{
		probe:  &stubProbe{},
		lister: &stubLister{listing: "alice 1 /usr/bin/zsh"},
		fatal:  newRecordingFatal(),
	}
	fx.mon = New(Options{
		Probe:    fx.probe,
		Lister:   fx.lister,
		Fatal:    fx.fatal,
		Protect:  func() error { fx.protect.Add(1); return nil },
		Denylist: []string{"Ghidra", "lldb"},
		Interval: interval,
		Logger:   zap.NewNop(),
	})
	return fx
}

// --------------------------------------------------------------------------
// RunDetection
// --------------------------------------------------------------------------

func TestRunDetection(t *testing.T) {
	t.Run("clean environment", func(t *testing.T) {
		fx := newFixture(time.Hour)
		res := fx.mon.RunDetection()
		if res.Detected() {
			t.Errorf("unexpected detection: %+v", res)
		}
	})

	t.Run("debugger only", func(t *testing.T) {
		fx := newFixture(time.Hour)
		fx.probe.attached.Store(true)
		res := fx.mon.RunDetection()
		if !res.Debugger || res.Tool || !res.Detected() {
			t.Errorf("got %+v", res)
		}
	})

	t.Run("tool only", func(t *testing.T) {
		fx := newFixture(time.Hour)
		fx.lister.set("alice 2 /usr/bin/lldb ./app")
		res := fx.mon.RunDetection()
		if res.Debugger || !res.Tool || res.ToolName != "lldb" {
			t.Errorf("got %+v", res)
		}
	})

	t.Run("listing failure is not a detection", func(t *testing.T) {
		fx := newFixture(time.Hour)
		fx.lister.err = errors.New("ps missing")
		fx.lister.set("Ghidra")
		if res := fx.mon.RunDetection(); res.Tool {
			t.Errorf("got %+v", res)
		}
	})

	t.Run("repeatable on unchanged environment", func(t *testing.T) {
		fx := newFixture(time.Hour)
		fx.lister.set("Ghidra")
		a, b := fx.mon.RunDetection(), fx.mon.RunDetection()
		if a.Debugger != b.Debugger || a.Tool != b.Tool || a.ToolName != b.ToolName {
			t.Errorf("results differ: %+v vs %+v", a, b)
		}
	})

	t.Run("does not terminate by itself", func(t *testing.T) {
		fx := newFixture(time.Hour)
		fx.probe.attached.Store(true)
		fx.mon.RunDetection()
		if fx.fatal.count() != 0 {
			t.Error("RunDetection must not call FatalAction")
		}
	})
}

// --------------------------------------------------------------------------
// CheckNow / signal
// --------------------------------------------------------------------------

func TestCheckNow(t *testing.T) {
	t.Run("clean check does not terminate", func(t *testing.T) {
		fx := newFixture(time.Hour)
		fx.mon.CheckNow()
		if fx.fatal.count() != 0 {
			t.Error("terminated on clean environment")
		}
	})

	t.Run("positive check terminates without memory lock", func(t *testing.T) {
		fx := newFixture(time.Hour)
		fx.lister.set("bob 7 Ghidra")
		fx.mon.CheckNow()

		if fx.fatal.count() != 1 {
			t.Fatalf("Terminate called %d times, want 1", fx.fatal.count())
		}
		if reason := <-fx.fatal.reasons; reason != "suspicious tool running: Ghidra" {
			t.Errorf("reason = %q", reason)
		}
		if fx.protect.Load() != 0 {
			t.Error("on-demand check must not lock memory")
		}
	})

	t.Run("registered on check_integrity", func(t *testing.T) {
		fx := newFixture(time.Hour)
		bus := event.NewBus()
		fx.mon.Register(bus)

		fx.probe.attached.Store(true)
		bus.Emit("unrelated", nil)
		if fx.fatal.count() != 0 {
			t.Fatal("unrelated signal triggered a check")
		}

		bus.Emit(event.CheckIntegrity, nil)
		if fx.fatal.count() != 1 {
			t.Errorf("Terminate called %d times, want 1", fx.fatal.count())
		}
	})
}

// --------------------------------------------------------------------------
// background loop
// --------------------------------------------------------------------------

func TestLoop(t *testing.T) {
	t.Run("polls and locks memory each cycle", func(t *testing.T) {
		fx := newFixture(5 * time.Millisecond)
		fx.mon.Start()
		fx.mon.Start() // second call is a no-op
		defer fx.mon.Stop()

		deadline := time.Now().Add(2 * time.Second)
		for fx.probe.calls.Load() < 3 && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		if fx.probe.calls.Load() < 3 {
			t.Fatalf("probe called %d times, want >= 3", fx.probe.calls.Load())
		}
		if fx.protect.Load() < 3 {
			t.Errorf("protect called %d times, want >= 3", fx.protect.Load())
		}
		if fx.fatal.count() != 0 {
			t.Error("terminated on clean environment")
		}
	})

	t.Run("terminates on detection", func(t *testing.T) {
		fx := newFixture(5 * time.Millisecond)
		fx.mon.Start()
		defer fx.mon.Stop()

		fx.probe.attached.Store(true)
		select {
		case reason := <-fx.fatal.reasons:
			if reason != "debugger attached" {
				t.Errorf("reason = %q", reason)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("loop never terminated")
		}
	})

	t.Run("memory lock failure is not fatal", func(t *testing.T) {
		fx := newFixture(5 * time.Millisecond)
		fx.mon.protect = func() error { fx.protect.Add(1); return errors.New("EPERM") }
		fx.mon.Start()
		defer fx.mon.Stop()

		deadline := time.Now().Add(2 * time.Second)
		for fx.protect.Load() < 2 && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		if fx.fatal.count() != 0 {
			t.Error("memory lock failure must not terminate")
		}
	})

	t.Run("stop is idempotent", func(t *testing.T) {
		fx := newFixture(5 * time.Millisecond)
		fx.mon.Start()
		fx.mon.Stop()
		fx.mon.Stop()
	})
}

func TestAlwaysDetected(t *testing.T) {
	var p DebuggerProbe = AlwaysDetected{}
	if !p.DebuggerAttached() {
		t.Error("AlwaysDetected must report attached")
	}
}

func TestNewDefaults(t *testing.T) {
	m := New(Options{})
	if m.interval != DefaultInterval {
		t.Errorf("interval = %v, want %v", m.interval, DefaultInterval)
	}
	if len(m.Denylist()) == 0 {
		t.Error("default denylist is empty")
	}
	if m.probe == nil || m.lister == nil || m.fatal == nil || m.protect == nil {
		t.Error("defaults not populated")
	}
}
