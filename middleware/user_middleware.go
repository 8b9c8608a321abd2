package middleware

import (
	"net/http"

	"github.com/andrewpaige1/flashcard-saas/utils"
)

// RequireUser rejects requests without a validated subject and attaches the
// subject to the request context for downstream handlers.
func RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := utils.GetAuth0ID(r)
		if !ok {
			utils.WriteError(w, http.StatusUnauthorized, "Please sign in to continue.")
			return
		}

		next.ServeHTTP(w, r.WithContext(utils.WithUserID(r.Context(), userID)))
	}
}
