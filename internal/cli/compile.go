package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mapweaver/mapweaver/pkg/cache"
	"github.com/mapweaver/mapweaver/pkg/layout"
	"github.com/mapweaver/mapweaver/pkg/observability"
	"github.com/mapweaver/mapweaver/pkg/spec"
	"github.com/mapweaver/mapweaver/pkg/viewport"
)

// newCompileCmd creates the compile command for turning specifications into geometry.
func newCompileCmd() *cobra.Command {
	var (
		output  string
		noCache bool
		fit     string
	)

	cmd := &cobra.Command{
		Use:   "compile [spec.json]",
		Short: "Compile a specification into node/edge geometry",
		Long: `Compile a specification into node/edge geometry.

The compile command takes a specification file (produced by 'new' or by an
upstream generator) and compiles it into a layout.json with concrete node
positions and edge connections. Compilation is deterministic: the same
specification always yields the same geometry.

Results are cached locally for faster subsequent runs. With --fit WxH the
command also prints the viewport window that frames the layout in the given
available area.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd.Context(), args[0], output, noCache, fit)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&fit, "fit", "", "print the viewport window for an available area, e.g. 1280x800")

	return cmd
}

// runCompile loads the specification, compiles (or restores) the layout, and
// writes the output file.
func runCompile(ctx context.Context, input, output string, noCache bool, fit string) error {
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	doc, err := spec.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load specification %s: %w", input, err)
	}

	store := newCacheBackend(ctx, cfg.Cache, noCache)
	defer store.Close()

	opts := layoutOptions(cfg)
	specJSON, err := spec.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal specification: %w", err)
	}
	key := cache.LayoutKey(specJSON, opts.CanvasWidth, opts.CanvasHeight)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Compiling %s layout...", doc.Archetype))
	spinner.Start()

	res, cacheHit, err := compileWithCache(ctx, store, key, doc, opts, cfg.Cache.TTL())
	if err != nil {
		spinner.StopWithError("Compile failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}
	if err := writeLayoutFile(res, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	logger.Debug("compile finished", "archetype", doc.Archetype, "cached", cacheHit)

	printSuccess("Compile complete")
	printFile(outputPath)
	printStats(len(res.Nodes), len(res.Edges), cacheHit)

	if fit != "" {
		availW, availH, err := parseFit(fit)
		if err != nil {
			return err
		}
		bounds, _ := res.Bounds()
		ctrl := viewport.New(viewportConfig(cfg))
		win, _ := ctrl.Fit(bounds, availW, availH, viewport.ModeFullCanvas, false)
		printNewline()
		printInfo("Viewport %gx%g: origin (%.1f, %.1f) size %.1fx%.1f scale %.3f",
			availW, availH, win.OriginX, win.OriginY, win.Width, win.Height, win.Scale)
	}

	printNewline()
	printNextStep("Edit", "mapweaver edit "+input)
	return nil
}

// compileWithCache restores a layout from the cache when the specification
// and canvas match a previous run, compiling and storing it otherwise.
func compileWithCache(ctx context.Context, store cache.Cache, key string, doc *spec.Spec, opts layout.Options, ttl time.Duration) (layout.Result, bool, error) {
	if data, ok, err := store.Get(ctx, key); err == nil && ok {
		var res layout.Result
		if err := json.Unmarshal(data, &res); err == nil {
			return res, true, nil
		}
	}

	start := time.Now()
	observability.Engine().OnCompileStart(ctx, string(doc.Archetype))
	res, err := layout.Compile(doc, opts)
	observability.Engine().OnCompileComplete(ctx, string(doc.Archetype), len(res.Nodes), time.Since(start), err)
	if err != nil {
		return layout.Result{}, false, err
	}

	if data, err := json.Marshal(res); err == nil {
		_ = store.Set(ctx, key, data, ttl)
	}
	return res, false, nil
}

// writeLayoutFile writes the compiled geometry as indented JSON.
func writeLayoutFile(res layout.Result, path string) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// parseFit parses an available-area flag of the form "1280x800".
func parseFit(s string) (w, h float64, err error) {
	if _, err := fmt.Sscanf(s, "%gx%g", &w, &h); err != nil {
		return 0, 0, fmt.Errorf("invalid --fit %q, expected WxH", s)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("invalid --fit %q, dimensions must be positive", s)
	}
	return w, h, nil
}
