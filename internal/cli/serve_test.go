package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/mapweaver/mapweaver/pkg/cache"
	"github.com/mapweaver/mapweaver/pkg/config"
	"github.com/mapweaver/mapweaver/pkg/session"
	"github.com/mapweaver/mapweaver/pkg/spec"
	"github.com/mapweaver/mapweaver/pkg/store"
)

func newTestServer(t *testing.T) *server {
	t.Helper()
	return &server{
		cfg:      config.Default(),
		logger:   log.New(io.Discard),
		diagrams: store.NewMemoryStore(),
		layouts:  cache.NewNullCache(),
		sessions: make(map[string]*session.Session),
	}
}

func bubbleSpecJSON(t *testing.T) []byte {
	t.Helper()
	doc := &spec.Spec{
		Archetype: spec.ArchetypeBubble,
		Bubble:    &spec.BubbleMap{Topic: "Water", Attributes: []string{"wet", "clear"}},
	}
	data, err := spec.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	return data
}

func TestServeCompileEndpoint(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/compile", "application/json", bytes.NewReader(bubbleSpecJSON(t)))
	if err != nil {
		t.Fatalf("POST /api/compile: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body compileResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Layout.Nodes) != 3 {
		t.Errorf("nodes = %d, want 3", len(body.Layout.Nodes))
	}
	if body.Cached {
		t.Error("null cache should never report a hit")
	}
}

func TestServeCompileRejectsMalformed(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/compile", "application/json",
		bytes.NewReader([]byte(`{"archetype":"spider_map"}`)))
	if err != nil {
		t.Fatalf("POST /api/compile: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != "UNKNOWN_ARCHETYPE" {
		t.Errorf("code = %q, want UNKNOWN_ARCHETYPE", body.Code)
	}
}

func TestServeDiagramCRUD(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	// Create
	payload := []byte(`{"name":"Water map","spec":` + string(bubbleSpecJSON(t)) + `}`)
	resp, err := http.Post(ts.URL+"/api/diagrams/", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	var created store.Diagram
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	if created.ID == "" {
		t.Fatal("created diagram has empty ID")
	}

	// Get
	resp, err = http.Get(ts.URL + "/api/diagrams/" + created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("get status = %d, want 200", resp.StatusCode)
	}

	// List
	resp, err = http.Get(ts.URL + "/api/diagrams/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var list []store.Diagram
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	resp.Body.Close()
	if len(list) != 1 {
		t.Errorf("list length = %d, want 1", len(list))
	}

	// Delete
	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/diagrams/"+created.ID, nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", resp.StatusCode)
	}

	// Get after delete
	resp, err = http.Get(ts.URL + "/api/diagrams/" + created.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", resp.StatusCode)
	}
}

func TestServeSessionUndoRedo(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	// Open a session from an inline spec.
	payload := []byte(`{"spec":` + string(bubbleSpecJSON(t)) + `}`)
	resp, err := http.Post(ts.URL+"/api/sessions/", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	var opened sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&opened); err != nil {
		t.Fatalf("decode open: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("open status = %d, want 201", resp.StatusCode)
	}
	if opened.SessionID == "" {
		t.Fatal("opened session has empty ID")
	}

	// Undo at the boundary is warning-grade: 200 with unchanged state.
	resp, err = http.Post(ts.URL+"/api/sessions/"+opened.SessionID+"/undo", "application/json", nil)
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	var after sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&after); err != nil {
		t.Fatalf("decode undo: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("undo status = %d, want 200", resp.StatusCode)
	}
	if len(after.Layout.Nodes) != len(opened.Layout.Nodes) {
		t.Errorf("undo at boundary changed the layout")
	}

	// Unknown session is a 404.
	resp, err = http.Post(ts.URL+"/api/sessions/nope/redo", "application/json", nil)
	if err != nil {
		t.Fatalf("redo unknown: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown session status = %d, want 404", resp.StatusCode)
	}
}
