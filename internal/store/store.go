// Package store holds the client-side note collection and reconciles
// optimistic mutations against the remote service.
//
// Every mutation follows snapshot -> apply -> confirm-or-restore: the full
// collection is captured before the optimistic change, and a failed remote
// call restores that snapshot wholesale. Refresh is the only cancellable
// operation: a new Refresh supersedes any refresh still in flight, and the
// superseded call's result is discarded silently.
package store

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
)

// tempIDOffset keeps temporary ids well clear of server-assigned ones.
const tempIDOffset = 1_000_000

// Remote is the slice of the notes service the store depends on.
type Remote interface {
	List(ctx context.Context) ([]models.Note, error)
	Create(ctx context.Context, title, content string) (*models.Note, error)
	Update(ctx context.Context, id int64, patch models.NotePatch) (*models.Note, error)
	Delete(ctx context.Context, id int64) error
}

// Store owns the in-memory note collection, the current selection, and the
// last operation error. The view layer reads; only the store mutates.
type Store struct {
	remote Remote
	logger *slog.Logger

	mu       sync.Mutex
	notes    []models.Note
	selected int64 // 0 means no selection
	lastErr  string

	refreshCancel context.CancelFunc
	refreshGen    uint64

	subs []func()
}

// New creates a Store backed by the given remote.
func New(remote Remote, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{remote: remote, logger: logger}
}

// Subscribe registers fn to run after every state change. Subscribers are
// called without the store lock held and must not block.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) notify() {
	s.mu.Lock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

// Notes returns a copy of the current collection.
func (s *Store) Notes() []models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Note, len(s.notes))
	copy(out, s.notes)
	return out
}

// Selected returns the currently selected note, or ok=false when the
// selection is empty or stale.
func (s *Store) Selected() (models.Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == 0 {
		return models.Note{}, false
	}
	if i := indexOf(s.notes, s.selected); i >= 0 {
		return s.notes[i], true
	}
	return models.Note{}, false
}

// Select marks the note with the given id as selected. Passing 0 clears the
// selection, which the view treats as "compose a new note".
func (s *Store) Select(id int64) {
	s.mu.Lock()
	s.selected = id
	s.mu.Unlock()
	s.notify()
}

// LastError returns the message recorded by the most recent failed
// operation, or "" when the last operation succeeded.
func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Refresh replaces the collection with the server's notes, sorted by
// descending id. A Refresh already in flight is cancelled and its result
// discarded; cancellation is silent and records no error. On failure the
// previous collection is left untouched.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.refreshCancel != nil {
		s.refreshCancel()
	}
	rctx, cancel := context.WithCancel(ctx)
	s.refreshCancel = cancel
	s.refreshGen++
	gen := s.refreshGen
	s.lastErr = ""
	s.mu.Unlock()

	notes, err := s.remote.List(rctx)

	s.mu.Lock()
	if gen != s.refreshGen {
		// Superseded by a newer Refresh; this result must not land.
		s.mu.Unlock()
		return nil
	}
	s.refreshCancel = nil
	cancel()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			s.mu.Unlock()
			return nil
		}
		s.lastErr = err.Error()
		s.mu.Unlock()
		s.logger.Warn("refresh failed", slog.String("error", err.Error()))
		s.notify()
		return err
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].ID > notes[j].ID })
	s.notes = notes
	s.mu.Unlock()
	s.notify()
	return nil
}

// Create validates the title, inserts a pending note with a temporary id at
// the head of the collection, and issues the remote create. On success the
// pending note is replaced in place (it stays at the head, no re-sort) and
// selected. On failure the pending note is removed, leaving the collection
// exactly as it was.
func (s *Store) Create(ctx context.Context, title, content string) error {
	if strings.TrimSpace(title) == "" {
		return s.fail(&apperr.ValidationError{Field: "title", Reason: "must not be empty"})
	}

	s.mu.Lock()
	s.lastErr = ""
	temp := maxID(s.notes) + tempIDOffset
	pending := models.Note{ID: temp, Title: title, Content: content, Pending: true}
	s.notes = append([]models.Note{pending}, s.notes...)
	s.mu.Unlock()
	s.notify()

	created, err := s.remote.Create(ctx, title, content)

	s.mu.Lock()
	if err != nil {
		if i := indexOf(s.notes, temp); i >= 0 {
			s.notes = append(s.notes[:i], s.notes[i+1:]...)
		}
		s.lastErr = err.Error()
		s.mu.Unlock()
		s.logger.Warn("create failed", slog.String("error", err.Error()))
		s.notify()
		return err
	}
	// A refresh that landed mid-flight may have replaced the collection,
	// dropping the placeholder. Merge the server's note back in either way
	// so the selection never points at a missing note.
	if i := indexOf(s.notes, temp); i >= 0 {
		s.notes[i] = *created
	} else if i := indexOf(s.notes, created.ID); i >= 0 {
		s.notes[i] = *created
	} else {
		s.notes = append([]models.Note{*created}, s.notes...)
	}
	s.selected = created.ID
	s.mu.Unlock()
	s.notify()
	return nil
}

// Update validates the patch, applies it to the matching note optimistically,
// and issues the remote update. On success the note is replaced with the
// server's authoritative version; on failure the entire pre-call collection
// is restored. A note whose create is still pending cannot be updated.
func (s *Store) Update(ctx context.Context, id int64, patch models.NotePatch) error {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return s.fail(&apperr.ValidationError{Field: "title", Reason: "must not be empty"})
	}

	s.mu.Lock()
	s.lastErr = ""
	i := indexOf(s.notes, id)
	if i < 0 {
		s.mu.Unlock()
		return s.fail(apperr.ErrNotFound)
	}
	if s.notes[i].Pending {
		s.mu.Unlock()
		return s.fail(&apperr.ConflictError{ID: id})
	}
	snapshot := snapshotOf(s.notes)
	if patch.Title != nil {
		s.notes[i].Title = *patch.Title
	}
	if patch.Content != nil {
		s.notes[i].Content = *patch.Content
	}
	s.mu.Unlock()
	s.notify()

	updated, err := s.remote.Update(ctx, id, patch)

	s.mu.Lock()
	if err != nil {
		s.notes = snapshot
		s.lastErr = err.Error()
		s.mu.Unlock()
		s.logger.Warn("update failed", slog.Int64("id", id), slog.String("error", err.Error()))
		s.notify()
		return err
	}
	if j := indexOf(s.notes, id); j >= 0 {
		s.notes[j] = *updated
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// Delete removes the note optimistically and issues the remote delete. On
// failure the pre-call collection is restored, putting the note back at its
// original position. Deleting clears the selection if it pointed at the
// note. A note whose create is still pending cannot be deleted.
func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	s.lastErr = ""
	i := indexOf(s.notes, id)
	if i < 0 {
		s.mu.Unlock()
		return s.fail(apperr.ErrNotFound)
	}
	if s.notes[i].Pending {
		s.mu.Unlock()
		return s.fail(&apperr.ConflictError{ID: id})
	}
	snapshot := snapshotOf(s.notes)
	s.notes = append(s.notes[:i], s.notes[i+1:]...)
	if s.selected == id {
		s.selected = 0
	}
	s.mu.Unlock()
	s.notify()

	err := s.remote.Delete(ctx, id)

	s.mu.Lock()
	if err != nil {
		s.notes = snapshot
		s.lastErr = err.Error()
		s.mu.Unlock()
		s.logger.Warn("delete failed", slog.Int64("id", id), slog.String("error", err.Error()))
		s.notify()
		return err
	}
	s.mu.Unlock()
	return nil
}

// fail records err as the last error and returns it.
func (s *Store) fail(err error) error {
	s.mu.Lock()
	s.lastErr = err.Error()
	s.mu.Unlock()
	s.notify()
	return err
}

func indexOf(notes []models.Note, id int64) int {
	for i := range notes {
		if notes[i].ID == id {
			return i
		}
	}
	return -1
}

func maxID(notes []models.Note) int64 {
	var top int64
	for i := range notes {
		if notes[i].ID > top {
			top = notes[i].ID
		}
	}
	return top
}

func snapshotOf(notes []models.Note) []models.Note {
	snap := make([]models.Note, len(notes))
	copy(snap, notes)
	return snap
}
