package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/andrewpaige1/flashcard-saas/common"
	"github.com/andrewpaige1/flashcard-saas/models"
	"github.com/andrewpaige1/flashcard-saas/utils"
)

// maxGenerateBody bounds the request body, not the text the model sees.
const maxGenerateBody = 1 << 20

type generateRequest struct {
	Text string `json:"text"`
}

type flashcardsResponse struct {
	Flashcards []models.Card `json:"flashcards"`
}

// POST /api/generate
func (h *Handler) GenerateFlashcards(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.UserID(r.Context())

	var req generateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxGenerateBody)).Decode(&req); err != nil {
		h.Log.Info("GenerateFlashcards: invalid request body", zap.Error(err))
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		utils.WriteError(w, http.StatusBadRequest, "Please enter some text to generate flashcards.")
		return
	}

	cards, err := h.Generator.Generate(r.Context(), req.Text)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrGenerationParse):
			h.Log.Error("GenerateFlashcards: unusable model output", zap.String("user_id", userID), zap.Error(err))
			utils.WriteError(w, http.StatusBadGateway, "The generated flashcards could not be read. Please try again.")
		default:
			h.Log.Error("GenerateFlashcards: completion failed", zap.String("user_id", userID), zap.Error(err))
			utils.WriteError(w, http.StatusBadGateway, "An error occurred while generating flashcards. Please try again.")
		}
		return
	}

	h.Log.Info("GenerateFlashcards: generated", zap.String("user_id", userID), zap.Int("cards", len(cards)))
	utils.WriteJSON(w, http.StatusOK, flashcardsResponse{Flashcards: cards})
}
