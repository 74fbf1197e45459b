package daemon

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/1broseidon/curtain/internal/dimmer"
)

type recordingDispatcher struct {
	actions []dimmer.Action
	ticks   int
	onFirst func()
	panicOn dimmer.Action
}

func (r *recordingDispatcher) Dispatch(a dimmer.Action) {
	if r.panicOn != nil && a == r.panicOn {
		panic("boom")
	}
	if _, ok := a.(dimmer.Tick); ok {
		r.ticks++
		return
	}
	r.actions = append(r.actions, a)
	if len(r.actions) == 1 && r.onFirst != nil {
		r.onFirst()
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startLoop(t *testing.T, d Dispatcher) (*Loop, context.CancelFunc) {
	t.Helper()
	l := NewLoop(LoopConfig{Logger: quietLogger()})
	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx, d)
	t.Cleanup(func() {
		cancel()
		<-l.Done()
	})
	return l, cancel
}

func TestLoop_DispatchesInOrder(t *testing.T) {
	d := &recordingDispatcher{}
	l, _ := startLoop(t, d)

	_ = l.Post(dimmer.Toggle{})
	_ = l.Post(dimmer.Adjust{Delta: 5})
	_ = l.Post(dimmer.Unlock{})

	var got []dimmer.Action
	if err := l.Do(context.Background(), func() { got = append(got, d.actions...) }); err != nil {
		t.Fatalf("Do: %v", err)
	}
	want := []dimmer.Action{dimmer.Toggle{}, dimmer.Adjust{Delta: 5}, dimmer.Unlock{}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("action %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLoop_RecoversFromPanic(t *testing.T) {
	d := &recordingDispatcher{panicOn: dimmer.Lock{}}
	l, _ := startLoop(t, d)

	_ = l.Post(dimmer.Lock{})
	_ = l.Post(dimmer.Toggle{})

	var n int
	if err := l.Do(context.Background(), func() { n = len(d.actions) }); err != nil {
		t.Fatalf("Do after panic: %v", err)
	}
	if n != 1 {
		t.Fatalf("dispatched %d actions after panic, want 1", n)
	}
}

func TestLoop_RefreshTicksUntilStopped(t *testing.T) {
	d := &recordingDispatcher{}
	l, _ := startLoop(t, d)
	d.onFirst = func() { l.StartRefresh(time.Millisecond) }

	_ = l.Post(dimmer.Toggle{})

	deadline := time.Now().Add(2 * time.Second)
	for {
		var ticks int
		_ = l.Do(context.Background(), func() { ticks = d.ticks })
		if ticks >= 3 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("no ticks delivered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	var stopped int
	_ = l.Do(context.Background(), func() {
		l.StopRefresh()
		stopped = d.ticks
	})
	time.Sleep(30 * time.Millisecond)

	var after int
	_ = l.Do(context.Background(), func() { after = d.ticks })
	if after != stopped {
		t.Fatalf("%d ticks delivered after StopRefresh", after-stopped)
	}
}

func TestLoop_PostAfterStop(t *testing.T) {
	l := NewLoop(LoopConfig{Logger: quietLogger()})
	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx, &recordingDispatcher{})
	cancel()
	<-l.Done()

	// Fill the buffer so the send cannot succeed.
	for range cap(l.events) {
		l.events <- event{action: dimmer.Tick{}}
	}
	if err := l.Post(dimmer.Toggle{}); err != ErrStopped {
		t.Fatalf("Post after stop = %v, want ErrStopped", err)
	}
	if err := l.Do(context.Background(), func() {}); err != ErrStopped {
		t.Fatalf("Do after stop = %v, want ErrStopped", err)
	}
}

func TestWatchConfig_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("toggle_level: 80\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 4)
	ready := make(chan error, 1)
	go func() {
		ready <- WatchConfig(ctx, path, quietLogger(), func() { changed <- struct{}{} })
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(path, []byte("toggle_level: 60\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case <-changed:
	case err := <-ready:
		t.Fatalf("watcher exited: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatalf("no reload after writing the config file")
	}
}
