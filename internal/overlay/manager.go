// Package overlay keeps one dim surface per display and paints the current
// frame onto them.
package overlay

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/1broseidon/curtain/internal/dimmer"
	"github.com/1broseidon/curtain/internal/platform"
)

// Paint is what a surface shows.
type Paint struct {
	// Bounds is the display frame in global coordinates.
	Bounds platform.Rect
	Color  dimmer.Color
	Alpha  float64
	// Hole is the transparent region in surface-local coordinates, nil for none.
	Hole *platform.Rect
}

func (p Paint) equal(o Paint) bool {
	if p.Bounds != o.Bounds || p.Color != o.Color || p.Alpha != o.Alpha {
		return false
	}
	if p.Hole == nil || o.Hole == nil {
		return p.Hole == nil && o.Hole == nil
	}
	return *p.Hole == *o.Hole
}

// Surface is a borderless, click-through, always-on-top window covering one
// display.
type Surface interface {
	Paint(p Paint) error
	// Show maps the surface and raises it above other windows.
	Show() error
	Hide()
	Destroy()
}

// SurfaceFactory creates surfaces for displays.
type SurfaceFactory interface {
	CreateSurface(d platform.Display) (Surface, error)
}

// ExclusionPolicy chooses which display receives the exclusion hole.
type ExclusionPolicy int

const (
	// ExclusionPrimary cuts the hole on the primary display only.
	ExclusionPrimary ExclusionPolicy = iota
	// ExclusionContaining cuts the hole on the display holding the window.
	ExclusionContaining
)

func (p ExclusionPolicy) String() string {
	switch p {
	case ExclusionContaining:
		return "containing"
	default:
		return "primary"
	}
}

// ParseExclusionPolicy parses "primary" or "containing".
func ParseExclusionPolicy(s string) (ExclusionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "primary":
		return ExclusionPrimary, nil
	case "containing":
		return ExclusionContaining, nil
	default:
		return 0, fmt.Errorf("invalid exclusion display %q (expected primary or containing)", s)
	}
}

type entry struct {
	surface Surface
	last    Paint
	painted bool
	visible bool
}

// Manager maps display IDs to surfaces. Not safe for concurrent use.
type Manager struct {
	factory  SurfaceFactory
	origin   platform.Origin
	policy   ExclusionPolicy
	logger   *slog.Logger
	surfaces map[string]*entry
}

// NewManager creates a manager with no surfaces. origin is the backend's
// global coordinate origin.
func NewManager(factory SurfaceFactory, origin platform.Origin, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		factory:  factory,
		origin:   origin,
		logger:   logger,
		surfaces: make(map[string]*entry),
	}
}

// SetPolicy changes the exclusion display policy.
func (m *Manager) SetPolicy(p ExclusionPolicy) {
	m.policy = p
}

// Policy returns the exclusion display policy.
func (m *Manager) Policy() ExclusionPolicy {
	return m.policy
}

// Len returns the number of live surfaces.
func (m *Manager) Len() int {
	return len(m.surfaces)
}

// Render paints frame onto every display, creating surfaces as needed and
// destroying those of displays that are gone. Failures on one display do not
// stop the others.
func (m *Manager) Render(displays []platform.Display, frame dimmer.Frame) error {
	m.prune(displays)

	target := -1
	if frame.Exclusion != nil {
		target = m.exclusionDisplay(displays, *frame.Exclusion)
	}

	var errs []error
	for i, d := range displays {
		p := Paint{Bounds: d.Bounds, Color: frame.Color, Alpha: frame.Alpha()}
		if i == target {
			if hole, ok := holeFor(d.Bounds, *frame.Exclusion, m.origin); ok {
				p.Hole = &hole
			}
		}
		if err := m.renderDisplay(d, p); err != nil {
			errs = append(errs, fmt.Errorf("display %s: %w", d.ID, err))
		}
	}
	return errors.Join(errs...)
}

func (m *Manager) renderDisplay(d platform.Display, p Paint) error {
	e, ok := m.surfaces[d.ID]
	if !ok {
		s, err := m.factory.CreateSurface(d)
		if err != nil {
			return err
		}
		e = &entry{surface: s}
		m.surfaces[d.ID] = e
		m.logger.Debug("overlay surface created", "display", d.ID)
	}

	if !e.painted || !e.last.equal(p) {
		if err := e.surface.Paint(p); err != nil {
			m.drop(d.ID, e)
			return fmt.Errorf("paint: %w", err)
		}
		e.last = p
		e.painted = true
	}

	if err := e.surface.Show(); err != nil {
		m.drop(d.ID, e)
		return fmt.Errorf("show: %w", err)
	}
	e.visible = true
	return nil
}

// drop forgets a surface whose handle went stale; the next render recreates it.
func (m *Manager) drop(id string, e *entry) {
	m.logger.Debug("dropping stale overlay surface", "display", id)
	e.surface.Destroy()
	delete(m.surfaces, id)
}

func (m *Manager) prune(displays []platform.Display) {
	connected := make(map[string]bool, len(displays))
	for _, d := range displays {
		connected[d.ID] = true
	}
	for id, e := range m.surfaces {
		if connected[id] {
			continue
		}
		e.surface.Destroy()
		delete(m.surfaces, id)
		m.logger.Debug("overlay surface removed", "display", id)
	}
}

func (m *Manager) exclusionDisplay(displays []platform.Display, r platform.Rect) int {
	if len(displays) == 0 {
		return -1
	}
	if m.policy == ExclusionContaining {
		cx, cy := r.Center()
		for i, d := range displays {
			if d.Bounds.Contains(cx, cy) {
				return i
			}
		}
		best, bestArea := -1, 0
		for i, d := range displays {
			if overlap, ok := d.Bounds.Intersect(r); ok && overlap.Area() > bestArea {
				best, bestArea = i, overlap.Area()
			}
		}
		return best
	}
	for i, d := range displays {
		if d.Primary {
			return i
		}
	}
	return 0
}

// HideAll unmaps every surface without destroying it.
func (m *Manager) HideAll() {
	for _, e := range m.surfaces {
		if !e.visible {
			continue
		}
		e.surface.Hide()
		e.visible = false
	}
}

// Close destroys every surface.
func (m *Manager) Close() {
	for id, e := range m.surfaces {
		e.surface.Destroy()
		delete(m.surfaces, id)
	}
}
