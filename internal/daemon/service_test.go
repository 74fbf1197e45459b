package daemon

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/1broseidon/curtain/internal/config"
	"github.com/1broseidon/curtain/internal/dimmer"
	"github.com/1broseidon/curtain/internal/overlay"
	"github.com/1broseidon/curtain/internal/platform"
	"github.com/1broseidon/curtain/internal/targeting"
)

type stubResolver struct {
	res    targeting.Resolution
	policy targeting.Policy
}

func (s *stubResolver) Resolve(targeting.Lock, int) targeting.Resolution { return s.res }

func (s *stubResolver) SelectForProcess(int) (targeting.Selection, bool) {
	return targeting.Selection{}, false
}

func (s *stubResolver) SetPolicy(p targeting.Policy) { s.policy = p }

type stubEnv struct {
	displays []platform.Display
}

func (s *stubEnv) Displays() ([]platform.Display, error) { return s.displays, nil }

func (s *stubEnv) FrontmostPID() (int, bool, error) { return 42, true, nil }

type stubCompositor struct {
	renders int
	policy  overlay.ExclusionPolicy
}

func (s *stubCompositor) Render([]platform.Display, dimmer.Frame) error {
	s.renders++
	return nil
}

func (s *stubCompositor) HideAll() {}

func (s *stubCompositor) SetPolicy(p overlay.ExclusionPolicy) { s.policy = p }

type serviceFixture struct {
	svc        *Service
	resolver   *stubResolver
	compositor *stubCompositor
	quit       chan struct{}
	loadErr    error
	cfg        *config.Config
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	env := &stubEnv{displays: []platform.Display{
		{ID: "eDP-1", Name: "eDP-1", Bounds: platform.Rect{Width: 1440, Height: 900}, Primary: true},
	}}
	f := &serviceFixture{
		resolver: &stubResolver{res: targeting.Resolution{
			Rect:    platform.Rect{X: 10, Y: 20, Width: 300, Height: 200},
			HasRect: true,
			Window:  7,
			Source:  targeting.SourceFrontmost,
		}},
		compositor: &stubCompositor{},
		quit:       make(chan struct{}, 1),
		cfg:        config.DefaultConfig(),
	}

	loop := NewLoop(LoopConfig{Logger: logger})
	ctrl := dimmer.NewController(dimmer.Options{
		Resolver:   f.resolver,
		Env:        env,
		Compositor: f.compositor,
		Scheduler:  loop,
		Settings:   dimmer.DefaultSettings(),
		Color:      dimmer.Black,
		Mode:       dimmer.ModeExcludeWindow,
		Logger:     logger,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go loop.Run(ctx, ctrl)
	t.Cleanup(func() {
		cancel()
		<-loop.Done()
	})

	f.svc = NewService(ServiceConfig{
		Loop:       loop,
		Controller: ctrl,
		Resolver:   f.resolver,
		Overlays:   f.compositor,
		Displays:   env.Displays,
		LoadConfig: func() (*config.Config, error) { return f.cfg, f.loadErr },
		Quit:       func() { f.quit <- struct{}{} },
		Logger:     logger,
	})
	return f
}

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestService_StatusInactive(t *testing.T) {
	f := newServiceFixture(t)

	st, err := f.svc.Status(testCtx(t))
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.Active || st.Level != 0 || st.Target != nil {
		t.Fatalf("expected inactive status, got %+v", st)
	}
	if st.Color != "black" || st.Mode != "exclude-window" {
		t.Fatalf("unexpected color/mode %q %q", st.Color, st.Mode)
	}
	if st.ToggleLevel != dimmer.DefaultToggleLevel || st.AdjustStep != dimmer.DefaultAdjustStep {
		t.Fatalf("unexpected settings in status %+v", st)
	}
}

func TestService_ApplyToggleReportsTarget(t *testing.T) {
	f := newServiceFixture(t)

	st, err := f.svc.Apply(testCtx(t), dimmer.Toggle{})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !st.Active || st.Level != dimmer.DefaultToggleLevel {
		t.Fatalf("expected active at toggle level, got %+v", st)
	}
	if st.Target == nil || st.Target.Window != 7 || st.Target.Source != "frontmost" || st.Target.Width != 300 {
		t.Fatalf("unexpected target %+v", st.Target)
	}
	if st.Displays != 1 {
		t.Fatalf("expected 1 display, got %d", st.Displays)
	}
	if f.compositor.renders == 0 {
		t.Fatalf("expected a render")
	}
}

func TestService_Displays(t *testing.T) {
	f := newServiceFixture(t)

	got, err := f.svc.Displays(testCtx(t))
	if err != nil {
		t.Fatalf("displays: %v", err)
	}
	if len(got) != 1 || got[0].ID != "eDP-1" || got[0].Width != 1440 || !got[0].Primary {
		t.Fatalf("unexpected displays %+v", got)
	}
}

func TestService_ReloadAppliesPolicies(t *testing.T) {
	f := newServiceFixture(t)
	f.cfg.AdjustStep = 12
	f.cfg.MinWindowWidth = 500
	f.cfg.ExclusionDisplay = "containing"

	if err := f.svc.Reload(testCtx(t)); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if f.resolver.policy.MinWidth != 500 {
		t.Fatalf("resolver policy not updated: %+v", f.resolver.policy)
	}
	if f.compositor.policy != overlay.ExclusionContaining {
		t.Fatalf("exclusion policy not updated: %v", f.compositor.policy)
	}

	st, err := f.svc.Status(testCtx(t))
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.AdjustStep != 12 {
		t.Fatalf("expected adjust step 12, got %d", st.AdjustStep)
	}
}

func TestService_ReloadErrorKeepsSettings(t *testing.T) {
	f := newServiceFixture(t)
	f.loadErr = errors.New("bad yaml")

	if err := f.svc.Reload(testCtx(t)); err == nil {
		t.Fatalf("expected reload error")
	}
	st, err := f.svc.Status(testCtx(t))
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.AdjustStep != dimmer.DefaultAdjustStep {
		t.Fatalf("settings changed after failed reload: %+v", st)
	}
}

func TestService_Quit(t *testing.T) {
	f := newServiceFixture(t)
	f.svc.Quit()
	select {
	case <-f.quit:
	default:
		t.Fatalf("quit callback not invoked")
	}
}

func TestStatusFromSnapshot_LockedWindow(t *testing.T) {
	snap := dimmer.Snapshot{
		State: dimmer.State{Level: 40, Color: dimmer.Warm, Lock: targeting.LockWindow(99)},
	}
	st := StatusFromSnapshot(snap, dimmer.DefaultSettings(), 90*time.Second)
	if !st.Locked || st.LockedWindow != 99 {
		t.Fatalf("expected locked window 99, got %+v", st)
	}
	if st.Target != nil {
		t.Fatalf("expected no target without a rect")
	}
	if st.UptimeSeconds != 90 {
		t.Fatalf("expected uptime 90, got %d", st.UptimeSeconds)
	}
}
