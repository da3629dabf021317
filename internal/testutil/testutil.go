// Package testutil provides an in-memory fake of the remote notes service
// for client, store, and UI tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/starford/ansuz/internal/models"
)

// FakeService is a notes service double backed by an in-memory map. Failure
// injection and the ListGate are for exercising rollback and supersession
// paths; the zero behavior is a well-behaved service.
type FakeService struct {
	mu     sync.Mutex
	notes  map[int64]models.Note
	nextID int64

	// FailCreate, FailUpdate, FailDelete, FailList force the matching route
	// to answer with the given status when non-zero.
	FailCreate int
	FailUpdate int
	FailDelete int
	FailList   int

	// FailMessage, when set, is returned as the structured error detail.
	FailMessage string

	// ListGate and CreateGate, when non-nil, are received from before the
	// matching route responds. Closing or sending on one releases the
	// in-flight request.
	ListGate   chan struct{}
	CreateGate chan struct{}

	server *httptest.Server
}

// NewFakeService starts a fake service seeded with the given notes. The
// server is shut down with the test.
func NewFakeService(t *testing.T, seed ...models.Note) *FakeService {
	t.Helper()

	f := &FakeService{notes: make(map[int64]models.Note), nextID: 1}
	for _, n := range seed {
		f.notes[n.ID] = n
		if n.ID >= f.nextID {
			f.nextID = n.ID + 1
		}
	}

	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, models.Health{Status: "ok"})
	})
	r.Get("/api/notes", f.list)
	r.Post("/api/notes", f.create)
	r.Get("/api/notes/{id}", f.get)
	r.Put("/api/notes/{id}", f.update)
	r.Delete("/api/notes/{id}", f.remove)

	f.server = httptest.NewServer(r)
	t.Cleanup(f.server.Close)
	return f
}

// URL returns the fake service's base endpoint.
func (f *FakeService) URL() string { return f.server.URL }

// Notes returns the service-side collection sorted by ascending id.
func (f *FakeService) Notes() []models.Note {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Note, 0, len(f.notes))
	for _, n := range f.notes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *FakeService) list(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	gate := f.ListGate
	fail := f.FailList
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}
	if fail != 0 {
		f.writeError(w, fail)
		return
	}
	writeJSON(w, http.StatusOK, f.Notes())
}

func (f *FakeService) get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	f.mu.Lock()
	n, ok := f.notes[id]
	f.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, errBody{Detail: "note not found"})
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (f *FakeService) create(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	gate := f.CreateGate
	fail := f.FailCreate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}
	if fail != 0 {
		f.writeError(w, fail)
		return
	}
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errBody{Detail: "invalid JSON body"})
		return
	}
	f.mu.Lock()
	n := models.Note{ID: f.nextID, Title: req.Title, Content: req.Content}
	f.nextID++
	f.notes[n.ID] = n
	f.mu.Unlock()
	writeJSON(w, http.StatusCreated, n)
}

func (f *FakeService) update(w http.ResponseWriter, r *http.Request) {
	if f.FailUpdate != 0 {
		f.writeError(w, f.FailUpdate)
		return
	}
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	var patch models.NotePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, errBody{Detail: "invalid JSON body"})
		return
	}
	f.mu.Lock()
	n, ok := f.notes[id]
	if ok {
		if patch.Title != nil {
			n.Title = *patch.Title
		}
		if patch.Content != nil {
			n.Content = *patch.Content
		}
		f.notes[id] = n
	}
	f.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, errBody{Detail: "note not found"})
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (f *FakeService) remove(w http.ResponseWriter, r *http.Request) {
	if f.FailDelete != 0 {
		f.writeError(w, f.FailDelete)
		return
	}
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	f.mu.Lock()
	_, ok := f.notes[id]
	delete(f.notes, id)
	f.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, errBody{Detail: "note not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeService) writeError(w http.ResponseWriter, status int) {
	body := errBody{Detail: f.FailMessage}
	if body.Detail == "" {
		body.Detail = http.StatusText(status)
	}
	writeJSON(w, status, body)
}

type errBody struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
