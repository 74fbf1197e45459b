// Package dimmer holds the dim state machine.
//
// A Controller owns the dim state and turns Actions into repaints: it asks a
// resolver for the exclusion target, applies the dim mode, and hands the
// result to a compositor. All methods must be called from one goroutine.
package dimmer

import (
	"log/slog"
	"time"

	"github.com/1broseidon/curtain/internal/platform"
	"github.com/1broseidon/curtain/internal/targeting"
)

// DefaultRefreshInterval is the periodic refresh rate while dimming.
const DefaultRefreshInterval = 200 * time.Millisecond

// Frame is one composited dim state.
type Frame struct {
	Level int
	Color Color
	// Exclusion is the undimmed region in global coordinates, nil for none.
	Exclusion *platform.Rect
}

// Alpha returns the overlay opacity for the frame's level.
func (f Frame) Alpha() float64 {
	return float64(clampLevel(f.Level)) / MaxLevel
}

// Compositor renders frames onto per-display surfaces.
type Compositor interface {
	Render(displays []platform.Display, frame Frame) error
	HideAll()
}

// Scheduler drives the periodic Tick while dimming is active.
// StopRefresh must guarantee no Tick is delivered after it returns.
type Scheduler interface {
	StartRefresh(interval time.Duration)
	StopRefresh()
}

// TargetResolver decides the exclusion target.
type TargetResolver interface {
	Resolve(lock targeting.Lock, frontmostPID int) targeting.Resolution
	SelectForProcess(pid int) (targeting.Selection, bool)
}

// Environment provides the platform queries the controller needs directly.
type Environment interface {
	Displays() ([]platform.Display, error)
	FrontmostPID() (pid int, ok bool, err error)
}

// Settings are the tunables reloaded from config.
type Settings struct {
	ToggleLevel     int
	AdjustStep      int
	RefreshInterval time.Duration
}

// DefaultSettings returns toggle 80, step 5, 200ms refresh.
func DefaultSettings() Settings {
	return Settings{
		ToggleLevel:     DefaultToggleLevel,
		AdjustStep:      DefaultAdjustStep,
		RefreshInterval: DefaultRefreshInterval,
	}
}

// Options configures a Controller.
type Options struct {
	Resolver   TargetResolver
	Env        Environment
	Compositor Compositor
	Scheduler  Scheduler
	Settings   Settings
	Color      Color
	Mode       Mode
	Logger     *slog.Logger
}

// Controller is the dim state machine.
type Controller struct {
	state    State
	settings Settings

	resolver   TargetResolver
	env        Environment
	compositor Compositor
	scheduler  Scheduler
	logger     *slog.Logger

	last       targeting.Resolution
	displays   int
	refreshing bool
	painting   bool
	stopped    bool
}

// NewController creates an inactive controller.
func NewController(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	settings := opts.Settings
	if settings.ToggleLevel <= 0 {
		settings.ToggleLevel = DefaultToggleLevel
	}
	if settings.RefreshInterval <= 0 {
		settings.RefreshInterval = DefaultRefreshInterval
	}
	return &Controller{
		state: State{
			Color: opts.Color,
			Mode:  opts.Mode,
		},
		settings:   settings,
		resolver:   opts.Resolver,
		env:        opts.Env,
		compositor: opts.Compositor,
		scheduler:  opts.Scheduler,
		logger:     logger,
	}
}

// Dispatch applies one action. Actions after Shutdown are dropped so a queued
// event cannot recreate destroyed surfaces.
func (c *Controller) Dispatch(a Action) {
	if c.stopped {
		c.logger.Debug("controller stopped, dropping action", "action", Describe(a))
		return
	}
	switch a := a.(type) {
	case Toggle:
		if c.state.Active() {
			c.applyLevel(0)
		} else {
			c.applyLevel(c.settings.ToggleLevel)
		}
	case Adjust:
		// Bound the delta first; level+delta can overflow for huge inputs.
		d := min(max(a.Delta, -MaxLevel), MaxLevel)
		c.applyLevel(c.state.Level + d)
	case SetLevel:
		c.applyLevel(a.Level)
	case SetColor:
		c.state.Color = a.Color
		if c.state.Active() {
			c.recomposite()
		}
	case SetMode:
		c.state.Mode = a.Mode
		if c.state.Active() {
			c.recomposite()
		}
	case Lock:
		c.lockFrontmost()
	case Unlock:
		if c.state.Lock.Set {
			c.logger.Info("window unlocked", "window", c.state.Lock.Window)
		}
		c.state.Lock = targeting.Lock{}
		if c.state.Active() {
			c.refresh()
		}
	case FrontmostChanged:
		if c.state.Active() {
			pid := a.PID
			if pid <= 0 {
				pid = c.frontmostPID()
			}
			c.refreshFor(pid)
		}
	case Tick, DisplaysChanged:
		if c.state.Active() {
			c.refresh()
		}
	default:
		c.logger.Warn("unhandled action", "action", Describe(a))
	}
}

// State returns the current dim state.
func (c *Controller) State() State {
	return c.state
}

// Snapshot returns state plus the last resolution.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		State:      c.state,
		Resolution: c.last,
		Displays:   c.displays,
	}
}

// Settings returns the active tunables.
func (c *Controller) Settings() Settings {
	return c.settings
}

// UpdateSettings replaces the tunables, restarting the refresh when its
// interval changed.
func (c *Controller) UpdateSettings(s Settings) {
	if s.ToggleLevel <= 0 {
		s.ToggleLevel = DefaultToggleLevel
	}
	if s.RefreshInterval <= 0 {
		s.RefreshInterval = DefaultRefreshInterval
	}
	changed := s.RefreshInterval != c.settings.RefreshInterval
	c.settings = s
	if changed && c.refreshing {
		c.scheduler.StopRefresh()
		c.scheduler.StartRefresh(s.RefreshInterval)
	}
}

// Shutdown stops the refresh and hides all surfaces. The controller ignores
// every later action.
func (c *Controller) Shutdown() {
	c.stopped = true
	c.stopRefresh()
	c.compositor.HideAll()
}

func (c *Controller) applyLevel(n int) {
	n = clampLevel(n)
	prev := c.state.Level
	c.state.Level = n

	if n == 0 {
		// The refresh stops before surfaces hide so a late tick cannot show them again.
		c.stopRefresh()
		c.compositor.HideAll()
		if prev != 0 {
			c.logger.Info("dimming off")
		}
		return
	}

	c.refresh()
	if !c.refreshing {
		c.scheduler.StartRefresh(c.settings.RefreshInterval)
		c.refreshing = true
		c.logger.Info("dimming on", "level", n)
	}
}

func (c *Controller) stopRefresh() {
	if !c.refreshing {
		return
	}
	c.scheduler.StopRefresh()
	c.refreshing = false
}

func (c *Controller) lockFrontmost() {
	pid := c.frontmostPID()
	sel, ok := c.resolver.SelectForProcess(pid)
	if !ok {
		c.logger.Info("lock: no eligible window for frontmost process", "pid", pid)
		return
	}
	c.state.Lock = targeting.LockWindow(sel.ID)
	c.logger.Info("window locked", "window", sel.ID, "pid", pid)
	if c.state.Active() {
		c.refresh()
	}
}

// refresh resolves the target for the current frontmost process and repaints.
func (c *Controller) refresh() {
	if c.painting {
		return
	}
	c.refreshFor(c.frontmostPID())
}

// refreshFor resolves against pid, as reported by a focus event, and repaints.
func (c *Controller) refreshFor(pid int) {
	if c.painting {
		return
	}
	c.painting = true
	defer func() { c.painting = false }()

	res := c.resolver.Resolve(c.state.Lock, pid)
	if res.ClearLock && c.state.Lock.Set {
		c.logger.Info("locked window disappeared, unlocking", "window", c.state.Lock.Window)
		c.state.Lock = targeting.Lock{}
	}
	c.last = res
	c.paint()
}

// recomposite repaints with the last resolution.
func (c *Controller) recomposite() {
	if c.painting {
		return
	}
	c.painting = true
	defer func() { c.painting = false }()

	c.paint()
}

func (c *Controller) paint() {
	displays, err := c.env.Displays()
	if err != nil {
		c.logger.Warn("failed to enumerate displays", "error", err)
		return
	}
	c.displays = len(displays)

	frame := Frame{Level: c.state.Level, Color: c.state.Color}
	if c.state.Mode == ModeExcludeWindow && c.last.HasRect {
		rect := c.last.Rect
		frame.Exclusion = &rect
	}
	if err := c.compositor.Render(displays, frame); err != nil {
		c.logger.Debug("render incomplete", "error", err)
	}
}

func (c *Controller) frontmostPID() int {
	pid, ok, err := c.env.FrontmostPID()
	if err != nil {
		c.logger.Debug("frontmost process unavailable", "error", err)
		return 0
	}
	if !ok {
		return 0
	}
	return pid
}
