package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mapweaver/mapweaver/pkg/cache"
	"github.com/mapweaver/mapweaver/pkg/config"
	"github.com/mapweaver/mapweaver/pkg/layout"
	"github.com/mapweaver/mapweaver/pkg/spec"
)

func writeSpecFile(t *testing.T, dir string) string {
	t.Helper()
	doc := &spec.Spec{
		Archetype: spec.ArchetypeBubble,
		Bubble:    &spec.BubbleMap{Topic: "Water", Attributes: []string{"wet", "clear"}},
	}
	path := filepath.Join(dir, "bubble.json")
	if err := spec.WriteFile(doc, path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestRunCompileWritesLayout(t *testing.T) {
	dir := t.TempDir()
	input := writeSpecFile(t, dir)

	cfg := config.Default()
	cfg.Cache.Backend = "none"
	ctx := withConfig(context.Background(), cfg)

	output := filepath.Join(dir, "out.layout.json")
	if err := runCompile(ctx, input, output, true, ""); err != nil {
		t.Fatalf("runCompile: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var res layout.Result
	if err := json.Unmarshal(data, &res); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	if len(res.Nodes) != 3 {
		t.Errorf("nodes = %d, want 3", len(res.Nodes))
	}
	if len(res.Edges) != 2 {
		t.Errorf("edges = %d, want 2", len(res.Edges))
	}
}

func TestRunCompileDefaultOutputPath(t *testing.T) {
	dir := t.TempDir()
	input := writeSpecFile(t, dir)

	cfg := config.Default()
	cfg.Cache.Backend = "none"
	ctx := withConfig(context.Background(), cfg)

	if err := runCompile(ctx, input, "", true, ""); err != nil {
		t.Fatalf("runCompile: %v", err)
	}

	want := filepath.Join(dir, "bubble.layout.json")
	if _, err := os.Stat(want); err != nil {
		t.Errorf("expected layout at %s: %v", want, err)
	}
}

func TestCompileWithCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer store.Close()

	doc := &spec.Spec{
		Archetype: spec.ArchetypeBubble,
		Bubble:    &spec.BubbleMap{Topic: "Water", Attributes: []string{"wet"}},
	}
	opts := layout.DefaultOptions()
	specJSON, err := spec.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	key := cache.LayoutKey(specJSON, opts.CanvasWidth, opts.CanvasHeight)

	ctx := context.Background()
	first, cached, err := compileWithCache(ctx, store, key, doc, opts, 0)
	if err != nil {
		t.Fatalf("first compile: %v", err)
	}
	if cached {
		t.Error("first compile should not be cached")
	}

	second, cached, err := compileWithCache(ctx, store, key, doc, opts, 0)
	if err != nil {
		t.Fatalf("second compile: %v", err)
	}
	if !cached {
		t.Error("second compile should hit the cache")
	}
	if len(second.Nodes) != len(first.Nodes) {
		t.Errorf("cached nodes = %d, want %d", len(second.Nodes), len(first.Nodes))
	}
}

func TestParseFit(t *testing.T) {
	tests := []struct {
		in      string
		w, h    float64
		wantErr bool
	}{
		{"1280x800", 1280, 800, false},
		{"100x100", 100, 100, false},
		{"0x100", 0, 0, true},
		{"wide", 0, 0, true},
		{"", 0, 0, true},
	}

	for _, tt := range tests {
		w, h, err := parseFit(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseFit(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && (w != tt.w || h != tt.h) {
			t.Errorf("parseFit(%q) = %v,%v want %v,%v", tt.in, w, h, tt.w, tt.h)
		}
	}
}
