package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/curtain/internal/config"
	"github.com/1broseidon/curtain/internal/dimmer"
	"github.com/1broseidon/curtain/internal/ipc"
	"github.com/1broseidon/curtain/internal/overlay"
	"github.com/1broseidon/curtain/internal/platform"
	"github.com/1broseidon/curtain/internal/targeting"
)

// PolicySetter receives the selector thresholds on reload.
type PolicySetter interface {
	SetPolicy(p targeting.Policy)
}

// ExclusionSetter receives the exclusion display policy on reload.
type ExclusionSetter interface {
	SetPolicy(p overlay.ExclusionPolicy)
}

// ServiceConfig wires a Service.
type ServiceConfig struct {
	Loop       *Loop
	Controller *dimmer.Controller
	Resolver   PolicySetter
	Overlays   ExclusionSetter
	Displays   func() ([]platform.Display, error)
	LoadConfig func() (*config.Config, error)
	Quit       func()
	Logger     *slog.Logger
}

// Service answers IPC commands by running them on the loop goroutine.
type Service struct {
	cfg     ServiceConfig
	started time.Time
}

var _ ipc.Handler = (*Service)(nil)

// NewService creates a service.
func NewService(cfg ServiceConfig) *Service {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Service{cfg: cfg, started: time.Now()}
}

// Status returns the current dim state.
func (s *Service) Status(ctx context.Context) (ipc.StatusData, error) {
	var st ipc.StatusData
	err := s.cfg.Loop.Do(ctx, func() { st = s.status() })
	return st, err
}

// Apply dispatches a and returns the resulting state.
func (s *Service) Apply(ctx context.Context, a dimmer.Action) (ipc.StatusData, error) {
	var st ipc.StatusData
	err := s.cfg.Loop.Do(ctx, func() {
		s.cfg.Controller.Dispatch(a)
		st = s.status()
	})
	return st, err
}

// Displays lists connected displays.
func (s *Service) Displays(ctx context.Context) ([]ipc.DisplayInfo, error) {
	var (
		displays []platform.Display
		err      error
	)
	if doErr := s.cfg.Loop.Do(ctx, func() { displays, err = s.cfg.Displays() }); doErr != nil {
		return nil, doErr
	}
	if err != nil {
		return nil, err
	}

	out := make([]ipc.DisplayInfo, 0, len(displays))
	for _, d := range displays {
		out = append(out, ipc.DisplayInfo{
			ID:      d.ID,
			Name:    d.Name,
			X:       d.Bounds.X,
			Y:       d.Bounds.Y,
			Width:   d.Bounds.Width,
			Height:  d.Bounds.Height,
			Primary: d.Primary,
		})
	}
	return out, nil
}

// Reload re-reads the config file and applies the runtime tunables.
func (s *Service) Reload(ctx context.Context) error {
	cfg, err := s.cfg.LoadConfig()
	if err != nil {
		s.cfg.Logger.Warn("config reload failed", "error", err)
		return err
	}
	return s.cfg.Loop.Do(ctx, func() { s.ApplyConfig(cfg) })
}

// ApplyConfig pushes reloadable settings into the running components. Color
// and mode are startup values only. Must run on the loop goroutine.
func (s *Service) ApplyConfig(cfg *config.Config) {
	s.cfg.Controller.UpdateSettings(cfg.DimmerSettings())
	if s.cfg.Resolver != nil {
		s.cfg.Resolver.SetPolicy(cfg.SelectorPolicy())
	}
	if s.cfg.Overlays != nil {
		s.cfg.Overlays.SetPolicy(cfg.Exclusion())
	}
	// Repaint with the new thresholds right away.
	s.cfg.Controller.Dispatch(dimmer.Tick{})
	s.cfg.Logger.Info("config reloaded")
}

// Quit asks the daemon to exit.
func (s *Service) Quit() {
	if s.cfg.Quit != nil {
		s.cfg.Quit()
	}
}

func (s *Service) status() ipc.StatusData {
	snap := s.cfg.Controller.Snapshot()
	settings := s.cfg.Controller.Settings()
	return StatusFromSnapshot(snap, settings, time.Since(s.started))
}

// StatusFromSnapshot converts controller state to its wire form.
func StatusFromSnapshot(snap dimmer.Snapshot, settings dimmer.Settings, uptime time.Duration) ipc.StatusData {
	st := ipc.StatusData{
		Active:        snap.Active(),
		Level:         snap.Level,
		Color:         snap.Color.String(),
		ColorHex:      snap.Color.Hex(),
		Mode:          snap.Mode.String(),
		Locked:        snap.Lock.Set,
		Displays:      snap.Displays,
		ToggleLevel:   settings.ToggleLevel,
		AdjustStep:    settings.AdjustStep,
		UptimeSeconds: int64(uptime.Seconds()),
	}
	if snap.Lock.Set {
		st.LockedWindow = uint32(snap.Lock.Window)
	}
	if snap.Active() && snap.Resolution.HasRect {
		r := snap.Resolution.Rect
		st.Target = &ipc.TargetInfo{
			Window: uint32(snap.Resolution.Window),
			Source: snap.Resolution.Source.String(),
			X:      r.X,
			Y:      r.Y,
			Width:  r.Width,
			Height: r.Height,
		}
	}
	return st
}
