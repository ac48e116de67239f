package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"lookalike/internal/imaging"
	"lookalike/internal/match"
)

// MaxUploadSize bounds the uploaded subject photo.
const MaxUploadSize = 20 << 20

// Matcher runs one end-to-end match. Satisfied by match.Engine.
type Matcher interface {
	Run(ctx context.Context, subject imaging.Payload) (*match.Selection, error)
}

// MatchHandler handles the photo upload and match endpoint.
type MatchHandler struct {
	matcher      Matcher
	maxImageEdge int
}

// NewMatchHandler creates a new match handler.
func NewMatchHandler(matcher Matcher, maxImageEdge int) *MatchHandler {
	return &MatchHandler{
		matcher:      matcher,
		maxImageEdge: maxImageEdge,
	}
}

type characterResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ImageRef    string `json:"imageRef"`
}

type matchResponse struct {
	RunID                  string            `json:"runId"`
	Character              characterResponse `json:"character"`
	Mode                   string            `json:"mode"`
	ResemblanceScore       float64           `json:"resemblanceScore,omitempty"`
	ResemblanceExplanation string            `json:"resemblanceExplanation,omitempty"`
	CharacterInfo          string            `json:"characterInfo,omitempty"`
	DegradedImage          bool              `json:"degradedImage,omitempty"`
}

// Match accepts a multipart photo upload and responds with the final
// selection, or a tagged failure the UI turns into a retry affordance.
func (h *MatchHandler) Match(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		respondError(w, http.StatusBadRequest, "photo field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxUploadSize))
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read uploaded photo")
		return
	}

	subject, err := imaging.FromBytes(data, h.maxImageEdge)
	if err != nil {
		respondError(w, http.StatusBadRequest, "uploaded file is not a supported image")
		return
	}

	selection, err := h.matcher.Run(r.Context(), subject)
	if err != nil {
		status, message := matchErrorResponse(err)
		respondError(w, status, message)
		return
	}

	respondJSON(w, http.StatusOK, matchResponse{
		RunID: selection.RunID,
		Character: characterResponse{
			ID:          selection.Character.ID,
			Name:        selection.Character.Name,
			Description: selection.Character.Description,
			ImageRef:    selection.Character.ImageRef,
		},
		Mode:                   string(selection.Mode),
		ResemblanceScore:       selection.Score,
		ResemblanceExplanation: selection.Explanation,
		CharacterInfo:          selection.Trivia,
		DegradedImage:          selection.Degraded,
	})
}

// matchErrorResponse maps pipeline failures to HTTP responses. All
// request-granularity failures read as "try again" to the user; the
// distinction stays in logs and metrics.
func matchErrorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, match.ErrComparisonFailed),
		errors.Is(err, match.ErrContractViolation),
		errors.Is(err, match.ErrCorrelationEmpty):
		return http.StatusBadGateway, "comparison failed, please try again"
	case errors.Is(err, match.ErrNoCandidates):
		return http.StatusServiceUnavailable, "no characters available for comparison"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
