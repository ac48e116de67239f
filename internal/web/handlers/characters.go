package handlers

import (
	"net/http"

	"lookalike/internal/catalog"
)

// CharactersHandler serves the character roster.
type CharactersHandler struct {
	catalog *catalog.Catalog
}

// NewCharactersHandler creates a new characters handler.
func NewCharactersHandler(cat *catalog.Catalog) *CharactersHandler {
	return &CharactersHandler{catalog: cat}
}

// List returns the roster in source order, without image bytes.
func (h *CharactersHandler) List(w http.ResponseWriter, r *http.Request) {
	chars := h.catalog.All()

	out := make([]characterResponse, 0, len(chars))
	for _, char := range chars {
		out = append(out, characterResponse{
			ID:          char.ID,
			Name:        char.Name,
			Description: char.Description,
			ImageRef:    char.ImageRef,
		})
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"characters": out,
		"count":      len(out),
	})
}
