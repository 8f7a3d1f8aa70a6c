package store

import (
	"context"
	"testing"

	"github.com/mapweaver/mapweaver/pkg/errors"
	"github.com/mapweaver/mapweaver/pkg/spec"
)

func testDiagram(name string) *Diagram {
	return &Diagram{
		Name: name,
		Spec: &spec.Spec{
			Archetype: spec.ArchetypeBubble,
			Bubble:    &spec.BubbleMap{Topic: name, Attributes: []string{"a"}},
		},
	}
}

func TestMemoryStoreCRUD(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	d := testDiagram("planets")
	if err := s.Put(ctx, d); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if d.ID == "" || d.CreatedAt.IsZero() || d.UpdatedAt.IsZero() {
		t.Fatalf("Put did not fill identity fields: %+v", d)
	}

	got, err := s.Get(ctx, d.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != "planets" || got.Spec.Bubble.Topic != "planets" {
		t.Errorf("Get() = %+v", got)
	}

	if err := s.Delete(ctx, d.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, d.ID); !errors.Is(err, errors.ErrCodeDiagramNotFound) {
		t.Errorf("Get(deleted) error = %v, want DIAGRAM_NOT_FOUND", err)
	}
	if err := s.Delete(ctx, d.ID); !errors.Is(err, errors.ErrCodeDiagramNotFound) {
		t.Errorf("Delete(missing) error = %v, want DIAGRAM_NOT_FOUND", err)
	}
}

func TestMemoryStoreUpdateKeepsCreatedAt(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	d := testDiagram("v1")
	if err := s.Put(ctx, d); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	created := d.CreatedAt

	d.Name = "v2"
	if err := s.Put(ctx, d); err != nil {
		t.Fatalf("Put(update) error = %v", err)
	}

	got, err := s.Get(ctx, d.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != "v2" {
		t.Errorf("update lost: name = %q", got.Name)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt changed on update: %v -> %v", created, got.CreatedAt)
	}
	if !got.UpdatedAt.After(created) && !got.UpdatedAt.Equal(created) {
		t.Errorf("UpdatedAt not maintained: %v", got.UpdatedAt)
	}
}

func TestMemoryStoreIsolation(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	d := testDiagram("original")
	if err := s.Put(ctx, d); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	// Mutating the caller's spec after Put must not affect stored state.
	d.Spec.Bubble.Topic = "mutated"
	got, _ := s.Get(ctx, d.ID)
	if got.Spec.Bubble.Topic != "original" {
		t.Error("stored spec aliased the caller's document")
	}

	// Mutating a fetched spec must not affect stored state either.
	got.Spec.Bubble.Topic = "scribbled"
	again, _ := s.Get(ctx, d.ID)
	if again.Spec.Bubble.Topic != "original" {
		t.Error("fetched spec aliased stored state")
	}
}

func TestMemoryStoreListOrder(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	first := testDiagram("first")
	second := testDiagram("second")
	if err := s.Put(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, second); err != nil {
		t.Fatal(err)
	}
	// Touch the first one so it becomes most recent.
	if err := s.Put(ctx, first); err != nil {
		t.Fatal(err)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 || list[0].Name != "first" {
		t.Errorf("List() order wrong: %v, %v", list[0].Name, list[1].Name)
	}
}
