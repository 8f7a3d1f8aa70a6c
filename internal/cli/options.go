package cli

import (
	"github.com/mapweaver/mapweaver/pkg/config"
	"github.com/mapweaver/mapweaver/pkg/geometry"
	"github.com/mapweaver/mapweaver/pkg/interact"
	"github.com/mapweaver/mapweaver/pkg/layout"
	"github.com/mapweaver/mapweaver/pkg/session"
	"github.com/mapweaver/mapweaver/pkg/viewport"
)

// layoutOptions maps the file configuration onto compile tuning.
func layoutOptions(cfg config.Config) layout.Options {
	return layout.Options{
		CanvasWidth:  cfg.Canvas.Width,
		CanvasHeight: cfg.Canvas.Height,
		Sizing: geometry.Sizing{
			MinDiameter: cfg.Sizing.MinDiameter,
			MaxDiameter: cfg.Sizing.MaxDiameter,
			MinWidth:    cfg.Sizing.MinWidth,
			MaxWidth:    cfg.Sizing.MaxWidth,
			BoxHeight:   cfg.Sizing.BoxHeight,
			PerChar:     cfg.Sizing.PerChar,
			ShortText:   cfg.Sizing.ShortText,
		},
	}
}

// machineConfig maps the file configuration onto the interaction windows.
func machineConfig(cfg config.Config) interact.Config {
	return interact.Config{
		Debounce:      cfg.Interact.Debounce(),
		Dedupe:        cfg.Interact.Dedupe(),
		DragTolerance: interact.DefaultDragTolerance,
	}
}

// viewportConfig maps the file configuration onto the fitting tunables.
func viewportConfig(cfg config.Config) viewport.Config {
	return viewport.Config{
		Padding:       cfg.Viewport.Padding,
		FloorFraction: cfg.Viewport.FloorFraction,
		PanelWidth:    cfg.Viewport.PanelWidth,
	}
}

// sessionOptions bundles the engine option structs for one session.
func sessionOptions(cfg config.Config, target interact.RenderTarget) session.Options {
	return session.Options{
		Layout:          layoutOptions(cfg),
		HistoryCapacity: cfg.History.Capacity,
		Machine:         machineConfig(cfg),
		Viewport:        viewportConfig(cfg),
		Target:          target,
	}
}
