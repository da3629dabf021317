// Package models defines the domain types for Ansuz.
package models

// Note is a single note as stored by the remote service.
type Note struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`

	// Pending marks an optimistic create that has not been confirmed by the
	// service yet. Pending notes carry a temporary local id and are never
	// sent over the wire.
	Pending bool `json:"-"`
}

// NotePatch is a partial update to a note. Nil fields are left unchanged.
type NotePatch struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// Health is the service health response.
type Health struct {
	Status string `json:"status"`
}
