package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/andrewpaige1/flashcard-saas/middleware"
	"github.com/andrewpaige1/flashcard-saas/utils"
)

// POST /api/dev/token
//
// Issues a signed token for an arbitrary subject. Registered only when the
// server runs in local HS256 mode.
func (h *Handler) IssueDevToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Subject string `json:"subject"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Subject == "" {
		utils.WriteError(w, http.StatusBadRequest, "subject is required")
		return
	}

	tokenString, err := h.TokenIssuer.CreateToken(req.Subject)
	if err != nil {
		h.Log.Error("IssueDevToken: token generation error", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    tokenString,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.TokenIssuer.TTL().Seconds()),
	})

	h.Log.Info("IssueDevToken: issued", zap.String("subject", req.Subject))
	utils.WriteJSON(w, http.StatusOK, map[string]string{"token": tokenString})
}
