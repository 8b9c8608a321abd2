package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/andrewpaige1/flashcard-saas/common"
	"github.com/andrewpaige1/flashcard-saas/models"
	"github.com/andrewpaige1/flashcard-saas/utils"
)

// maxCollectionBody bounds a save request; a full collection is far smaller.
const maxCollectionBody = 1 << 20

type createCollectionRequest struct {
	Name       string        `json:"name"`
	Flashcards []models.Card `json:"flashcards"`
}

type collectionResponse struct {
	Name       string        `json:"name"`
	Flashcards []models.Card `json:"flashcards"`
}

type collectionsResponse struct {
	Collections []models.CollectionIndexEntry `json:"collections"`
}

// GET /api/collections
func (h *Handler) ListCollections(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.UserID(r.Context())

	entries, err := h.Collections.List(r.Context(), userID)
	if err != nil {
		h.writeCollectionError(w, "ListCollections", userID, "", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, collectionsResponse{Collections: entries})
}

// POST /api/collections
func (h *Handler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.UserID(r.Context())

	var req createCollectionRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCollectionBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		h.Log.Info("CreateCollection: invalid request body", zap.Error(err))
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Collections.Save(r.Context(), userID, req.Name, req.Flashcards); err != nil {
		h.writeCollectionError(w, "CreateCollection", userID, req.Name, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, collectionResponse{Name: req.Name, Flashcards: req.Flashcards})
}

// GET /api/collections/{name}
func (h *Handler) GetCollection(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.UserID(r.Context())
	name := r.PathValue("name")

	cards, err := h.Collections.Get(r.Context(), userID, name)
	if err != nil {
		h.writeCollectionError(w, "GetCollection", userID, name, err)
		return
	}

	if cards == nil {
		cards = []models.Card{}
	}
	utils.WriteJSON(w, http.StatusOK, collectionResponse{Name: name, Flashcards: cards})
}

func (h *Handler) writeCollectionError(w http.ResponseWriter, op, userID, name string, err error) {
	switch {
	case errors.Is(err, common.ErrAlreadyExists):
		utils.WriteError(w, http.StatusConflict, "Flashcard collection with the same name already exists.")
	case errors.Is(err, common.ErrNotFound):
		utils.WriteError(w, http.StatusNotFound, fmt.Sprintf("Collection %s not found", name))
	case errors.Is(err, common.ErrInvalidInput):
		utils.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrUnauthorized):
		utils.WriteError(w, http.StatusUnauthorized, "Please sign in to continue.")
	default:
		h.Log.Error(op+": store failure", zap.String("user_id", userID), zap.String("name", name), zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "An error occurred. Please try again.")
	}
}
