package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/HammerMeetNail/studentcomputing/internal/logging"
	"github.com/HammerMeetNail/studentcomputing/internal/models"
	"github.com/HammerMeetNail/studentcomputing/internal/services"
)

const maxIdeaBodyBytes = 8 << 10

// PersistWarning is returned alongside a successful change that storage
// did not accept.
const PersistWarning = "Your change is visible now but could not be saved permanently."

type IdeaHandler struct {
	ideas  services.IdeaBoardServiceInterface
	loc    *time.Location
	logger *logging.Logger
}

func NewIdeaHandler(ideas services.IdeaBoardServiceInterface, loc *time.Location, logger *logging.Logger) *IdeaHandler {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = logging.Default
	}
	return &IdeaHandler{ideas: ideas, loc: loc, logger: logger}
}

type SubmitIdeaRequest struct {
	Text string `json:"text"`
}

type IdeasResponse struct {
	Ideas   []models.IdeaView `json:"ideas"`
	Idea    *models.IdeaView  `json:"idea,omitempty"`
	Warning string            `json:"warning,omitempty"`
}

func (h *IdeaHandler) List(w http.ResponseWriter, r *http.Request) {
	board := h.ideas.Ideas(r.Context())
	writeJSON(w, http.StatusOK, IdeasResponse{Ideas: board.Views(h.loc)})
}

func (h *IdeaHandler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxIdeaBodyBytes)

	var req SubmitIdeaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.ideas.Submit(r.Context(), req.Text)
	if err != nil && !errors.Is(err, services.ErrPersistFailed) {
		h.logger.Error("Submitting idea failed", logging.Fields{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !result.Changed {
		writeError(w, http.StatusBadRequest, "Idea text is required")
		return
	}

	created := models.Board{*result.Idea}.Views(h.loc)[0]
	resp := IdeasResponse{Ideas: result.Ideas.Views(h.loc), Idea: &created}
	if err != nil {
		resp.Warning = PersistWarning
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Delete answers 200 with the board whether or not the id existed.
func (h *IdeaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Idea id is required")
		return
	}

	result, err := h.ideas.Delete(r.Context(), models.IdeaID(id))
	if err != nil && !errors.Is(err, services.ErrPersistFailed) {
		h.logger.Error("Deleting idea failed", logging.Fields{"id": id, "error": err.Error()})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	resp := IdeasResponse{Ideas: result.Ideas.Views(h.loc)}
	if err != nil {
		resp.Warning = PersistWarning
	}
	writeJSON(w, http.StatusOK, resp)
}
