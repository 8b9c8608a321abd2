package handlers

import (
	"net/http"
	"slices"

	"go.uber.org/zap"

	"github.com/andrewpaige1/flashcard-saas/utils"
)

// POST /api/checkout_sessions
func (h *Handler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.UserID(r.Context())

	id, err := h.Checkout.CreateSession(r.Context(), h.returnOrigin(r))
	if err != nil {
		h.Log.Error("CreateCheckoutSession: failed to create session", zap.String("user_id", userID), zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to create checkout session.")
		return
	}

	h.Log.Info("CreateCheckoutSession: created", zap.String("user_id", userID), zap.String("session_id", id))
	utils.WriteJSON(w, http.StatusOK, map[string]string{"id": id})
}

// GET /api/checkout_sessions?session_id=
func (h *Handler) GetCheckoutSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		utils.WriteError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	session, err := h.Checkout.GetSession(r.Context(), sessionID)
	if err != nil {
		h.Log.Error("GetCheckoutSession: failed to retrieve session", zap.String("session_id", sessionID), zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to retrieve checkout session.")
		return
	}

	utils.WriteJSON(w, http.StatusOK, session)
}

// returnOrigin picks where Stripe sends the user back to. Only configured
// origins are trusted.
func (h *Handler) returnOrigin(r *http.Request) string {
	origin := r.Header.Get("Origin")
	if origin != "" && slices.Contains(h.AllowedOrigins, origin) {
		return origin
	}
	if len(h.AllowedOrigins) > 0 {
		return h.AllowedOrigins[0]
	}
	return "http://localhost:3000"
}
