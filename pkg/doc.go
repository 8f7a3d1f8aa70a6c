// Package pkg provides the core libraries of the mapweaver diagram engine.
//
// # Overview
//
// Mapweaver compiles archetype-typed "thinking map" specifications into
// concrete 2D node/edge geometry and drives the interactive editing loop
// around that geometry. The pkg directory is organized into three areas:
//
//  1. Engine core - specification model, geometry, layout compiler
//  2. Editing - history, interaction, viewport, events, sessions
//  3. Infrastructure - cache, store, config, errors, observability
//
// # Architecture
//
// The typical data flow through mapweaver:
//
//	Specification (JSON)
//	         ↓
//	    [spec] package (validate, template, edit operations)
//	         ↓
//	    [layout] package (archetype compilers, [layout/hier] placement)
//	         ↓
//	    node/edge geometry
//	         ↓
//	    [session] package (history, interaction, viewport, events)
//
// # Quick Start
//
// Compile a specification and open an editing session:
//
//	import (
//	    "github.com/mapweaver/mapweaver/pkg/session"
//	    "github.com/mapweaver/mapweaver/pkg/spec"
//	)
//
//	// 1. Start from a blank template
//	doc, _ := spec.Template(spec.ArchetypeBubble)
//
//	// 2. Open a session (compiles, seeds history)
//	sess, _ := session.New(doc, session.Options{})
//
//	// 3. Edit; each edit recompiles and records a snapshot
//	_ = sess.UpdateText("bubble-0", "cold")
//	_ = sess.Undo()
//
// # Main Packages
//
// ## Engine Core
//
// [spec] - The specification model: a tagged union over ten archetypes
// (circle, bubble, double-bubble, tree, brace, flow, multi-flow, bridge,
// mind, concept maps), with validation, blank templates, deep cloning, and
// the structural edit operations.
//
// [geometry] - Points, rectangles, bounds unions, and the text-length step
// function that sizes shapes.
//
// [layout] - The pure compiler from specification to geometry. Dispatch is
// by archetype tag; recompute reverses surviving geometry back into a
// specification after interactive deletes.
//
// [layout/hier] - Layered hierarchical placement for the tree-shaped
// archetypes, plus Graphviz-backed positioning for freeform concept maps.
//
// ## Editing
//
// [history] - Bounded, branch-cutting undo/redo stack of full specification
// snapshots.
//
// [interact] - The pointer-intent state machine: click vs double-click
// disambiguation, multi-selection, and drag with lock-step edge tracking.
//
// [viewport] - Fit computation that keeps content framed as panels open and
// windows resize.
//
// [events] - Synchronous in-process notification bus connecting the engine
// to hosts.
//
// [session] - One live editing session wiring the above together.
//
// ## Infrastructure
//
// [cache] - Byte-level layout cache with file, Redis, and null backends,
// keyed by content hash.
//
// [store] - Saved-diagram persistence with memory and MongoDB backends.
//
// [config] - TOML engine configuration (sizing constants, interaction
// windows, viewport fractions, backend selection).
//
// [errors] - The typed error taxonomy; warning-grade codes (history
// boundaries, forbidden edits) versus fatal ones.
//
// [observability] - Optional hooks for compile, session, and cache events
// with no-op defaults.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/layout/...   # Specific package
//	go test -run Example       # Examples only
//
// [spec]: https://pkg.go.dev/github.com/mapweaver/mapweaver/pkg/spec
// [geometry]: https://pkg.go.dev/github.com/mapweaver/mapweaver/pkg/geometry
// [layout]: https://pkg.go.dev/github.com/mapweaver/mapweaver/pkg/layout
// [layout/hier]: https://pkg.go.dev/github.com/mapweaver/mapweaver/pkg/layout/hier
// [history]: https://pkg.go.dev/github.com/mapweaver/mapweaver/pkg/history
// [interact]: https://pkg.go.dev/github.com/mapweaver/mapweaver/pkg/interact
// [viewport]: https://pkg.go.dev/github.com/mapweaver/mapweaver/pkg/viewport
// [events]: https://pkg.go.dev/github.com/mapweaver/mapweaver/pkg/events
// [session]: https://pkg.go.dev/github.com/mapweaver/mapweaver/pkg/session
// [cache]: https://pkg.go.dev/github.com/mapweaver/mapweaver/pkg/cache
// [store]: https://pkg.go.dev/github.com/mapweaver/mapweaver/pkg/store
// [config]: https://pkg.go.dev/github.com/mapweaver/mapweaver/pkg/config
// [errors]: https://pkg.go.dev/github.com/mapweaver/mapweaver/pkg/errors
// [observability]: https://pkg.go.dev/github.com/mapweaver/mapweaver/pkg/observability
package pkg
