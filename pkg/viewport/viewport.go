// Package viewport computes the visible coordinate window over rendered
// geometry.
//
// The controller never patches a window incrementally: every qualifying
// change (render completion, resize settling, panel visibility) recomputes
// the whole window from the current content bounds. When nothing relevant
// changed since the last fit, the controller returns the cached window and
// reports that no churn is needed.
package viewport

import (
	"time"

	"github.com/mapweaver/mapweaver/pkg/geometry"
)

// Mode names a fitting mode.
type Mode string

// Fitting modes. WithPanel reserves a fixed strip of the available width for
// the side panel.
const (
	ModeFullCanvas Mode = "full-canvas"
	ModeWithPanel  Mode = "with-panel"
)

// ResizeDebounce is how long hosts should let window resizes settle before
// asking for a refit.
const ResizeDebounce = 150 * time.Millisecond

// Config carries the fitting tunables.
type Config struct {
	// Padding is the fraction of each available dimension kept clear on
	// both sides at full fit.
	Padding float64
	// FloorFraction bounds magnification: content is never scaled past the
	// point where the window would shrink below this fraction of the
	// available area. Small diagrams stay small.
	FloorFraction float64
	// PanelWidth is the horizontal strip reserved in ModeWithPanel.
	PanelWidth float64
}

// DefaultConfig returns the built-in fitting tunables.
func DefaultConfig() Config {
	return Config{
		Padding:       0.12,
		FloorFraction: 0.60,
		PanelWidth:    320,
	}
}

// Window is the visible rectangle in content coordinates, plus the scale
// that maps it onto the available area.
type Window struct {
	OriginX float64 `json:"origin_x"`
	OriginY float64 `json:"origin_y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Scale   float64 `json:"scale"`
	Mode    Mode    `json:"mode"`
	Animate bool    `json:"animate"`
}

// Controller owns the current window and the change detection that avoids
// redundant refits. It is single-threaded like the rest of the editor core.
type Controller struct {
	cfg Config

	window    Window
	hasWindow bool

	// Inputs of the last fit, for the skip check.
	lastBounds geometry.Rect
	lastAvailW float64
	lastAvailH float64
}

// New returns a controller with the given tunables. Zero-value fields fall
// back to the defaults.
func New(cfg Config) *Controller {
	def := DefaultConfig()
	if cfg.Padding <= 0 {
		cfg.Padding = def.Padding
	}
	if cfg.FloorFraction <= 0 {
		cfg.FloorFraction = def.FloorFraction
	}
	if cfg.PanelWidth <= 0 {
		cfg.PanelWidth = def.PanelWidth
	}
	return &Controller{cfg: cfg}
}

// Fit computes the window framing the given content bounds inside the
// available area. The returned bool reports whether the window actually
// changed; a fit with identical bounds, area, and mode is answered from the
// cache so callers can skip transform churn.
func (c *Controller) Fit(bounds geometry.Rect, availW, availH float64, mode Mode, animate bool) (Window, bool) {
	if c.hasWindow &&
		c.window.Mode == mode &&
		c.lastBounds == bounds &&
		c.lastAvailW == availW &&
		c.lastAvailH == availH {
		return c.window, false
	}

	effW := availW
	if mode == ModeWithPanel {
		effW -= c.cfg.PanelWidth
		if effW < 1 {
			effW = 1
		}
	}

	c.window = c.compute(bounds, effW, availH, mode, animate)
	c.hasWindow = true
	c.lastBounds = bounds
	c.lastAvailW = availW
	c.lastAvailH = availH
	return c.window, true
}

// Window returns the current window. The bool is false before the first
// fit.
func (c *Controller) Window() (Window, bool) {
	return c.window, c.hasWindow
}

// Reset drops the cached window, forcing the next Fit to recompute.
func (c *Controller) Reset() {
	c.hasWindow = false
}

func (c *Controller) compute(bounds geometry.Rect, availW, availH float64, mode Mode, animate bool) Window {
	bw, bh := bounds.Width(), bounds.Height()
	if bw < 1 {
		bw = 1
	}
	if bh < 1 {
		bh = 1
	}

	// Fit with padding, then cap magnification at the floor.
	usable := 1 - 2*c.cfg.Padding
	scale := availW / bw * usable
	if s := availH / bh * usable; s < scale {
		scale = s
	}
	if ceiling := 1 / c.cfg.FloorFraction; scale > ceiling {
		scale = ceiling
	}

	// The window is the available area in content units, centered on the
	// content's centroid so asymmetric diagrams still read balanced.
	w := availW / scale
	h := availH / scale
	return Window{
		OriginX: bounds.CenterX() - w/2,
		OriginY: bounds.CenterY() - h/2,
		Width:   w,
		Height:  h,
		Scale:   scale,
		Mode:    mode,
		Animate: animate,
	}
}
