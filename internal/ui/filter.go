package ui

import (
	"strings"

	"github.com/starford/ansuz/internal/models"
)

// filterNotes returns the notes whose title or content contains query,
// case-insensitively. It never mutates notes; an empty query returns them
// unchanged in order and membership.
func filterNotes(notes []models.Note, query string) []models.Note {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return notes
	}
	out := make([]models.Note, 0, len(notes))
	for _, n := range notes {
		if strings.Contains(strings.ToLower(n.Title), q) ||
			strings.Contains(strings.ToLower(n.Content), q) {
			out = append(out, n)
		}
	}
	return out
}
