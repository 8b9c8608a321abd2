package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/andrewpaige1/flashcard-saas/checkout"
	"github.com/andrewpaige1/flashcard-saas/middleware"
	"github.com/andrewpaige1/flashcard-saas/models"
	"github.com/andrewpaige1/flashcard-saas/utils"
)

type FlashcardGenerator interface {
	Generate(ctx context.Context, text string) ([]models.Card, error)
}

type CollectionService interface {
	Save(ctx context.Context, userID, name string, cards []models.Card) error
	List(ctx context.Context, userID string) ([]models.CollectionIndexEntry, error)
	Get(ctx context.Context, userID, name string) ([]models.Card, error)
}

type CheckoutProvider interface {
	CreateSession(ctx context.Context, origin string) (string, error)
	GetSession(ctx context.Context, id string) (*checkout.Session, error)
}

type TokenIssuer interface {
	CreateToken(subject string) (string, error)
	TTL() time.Duration
}

// Handler serves the JSON API. TokenIssuer is only set in local HS256 mode.
type Handler struct {
	Generator      FlashcardGenerator
	Collections    CollectionService
	Checkout       CheckoutProvider
	TokenIssuer    TokenIssuer
	AllowedOrigins []string
	Log            *zap.Logger
}

// Routes registers every endpoint on a new mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.Health)

	// Generation
	mux.HandleFunc("POST /api/generate", middleware.RequireUser(h.GenerateFlashcards))

	// Collections
	mux.HandleFunc("GET /api/collections", middleware.RequireUser(h.ListCollections))
	mux.HandleFunc("POST /api/collections", middleware.RequireUser(h.CreateCollection))
	mux.HandleFunc("GET /api/collections/{name}", middleware.RequireUser(h.GetCollection))

	// Checkout
	mux.HandleFunc("POST /api/checkout_sessions", middleware.RequireUser(h.CreateCheckoutSession))
	mux.HandleFunc("GET /api/checkout_sessions", middleware.RequireUser(h.GetCheckoutSession))

	if h.TokenIssuer != nil {
		mux.HandleFunc("POST /api/dev/token", h.IssueDevToken)
	}

	return mux
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
