// Package collections implements saving and reading named flashcard
// collections for a user.
package collections

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/andrewpaige1/flashcard-saas/common"
	"github.com/andrewpaige1/flashcard-saas/models"
)

const maxNameLength = 200

// Store is the document store behind the service.
//
// CreateCollection must check for an existing name, append the index entry and
// insert every card as one atomic unit, returning common.ErrAlreadyExists
// without writing anything when the name is taken.
type Store interface {
	CreateCollection(ctx context.Context, userID, name string, cards []models.Card) error
	ListCollections(ctx context.Context, userID string) ([]models.CollectionIndexEntry, error)
	GetCollection(ctx context.Context, userID, name string) ([]models.Card, error)
}

type Service struct {
	store Store
	log   *zap.Logger
}

func NewService(store Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log}
}

// Save stores cards as a new collection called name. A name already present in
// the user's index yields common.ErrAlreadyExists and leaves the stored data alone.
func (s *Service) Save(ctx context.Context, userID, name string, cards []models.Card) error {
	if userID == "" {
		return common.ErrUnauthorized
	}
	if err := validateName(name); err != nil {
		return err
	}
	if len(cards) == 0 {
		return fmt.Errorf("%w: no flashcards to save", common.ErrInvalidInput)
	}
	if len(cards) > models.MaxFlashcards {
		return fmt.Errorf("%w: %d flashcards, at most %d allowed", common.ErrInvalidInput, len(cards), models.MaxFlashcards)
	}
	for i, c := range cards {
		if c.Front == "" || c.Back == "" {
			return fmt.Errorf("%w: flashcard %d needs a front and a back", common.ErrInvalidInput, i)
		}
	}

	if err := s.store.CreateCollection(ctx, userID, name, cards); err != nil {
		return fmt.Errorf("save collection %q: %w", name, err)
	}

	s.log.Info("Save: collection created",
		zap.String("user_id", userID),
		zap.String("name", name),
		zap.Int("cards", len(cards)))
	return nil
}

// List returns the user's collection names in the order they were created.
func (s *Service) List(ctx context.Context, userID string) ([]models.CollectionIndexEntry, error) {
	if userID == "" {
		return nil, common.ErrUnauthorized
	}
	entries, err := s.store.ListCollections(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	if entries == nil {
		entries = []models.CollectionIndexEntry{}
	}
	return entries, nil
}

// Get returns the cards of one collection. Card order is whatever the store
// yields.
func (s *Service) Get(ctx context.Context, userID, name string) ([]models.Card, error) {
	if userID == "" {
		return nil, common.ErrUnauthorized
	}
	if name == "" {
		return nil, fmt.Errorf("%w: collection name is required", common.ErrInvalidInput)
	}
	cards, err := s.store.GetCollection(ctx, userID, name)
	if err != nil {
		return nil, fmt.Errorf("get collection %q: %w", name, err)
	}
	return cards, nil
}

func validateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: collection name is required", common.ErrInvalidInput)
	case utf8.RuneCountInString(name) > maxNameLength:
		return fmt.Errorf("%w: collection name is longer than %d characters", common.ErrInvalidInput, maxNameLength)
	case strings.Contains(name, "/"):
		return fmt.Errorf("%w: collection name may not contain '/'", common.ErrInvalidInput)
	case name == "." || name == "..":
		return fmt.Errorf("%w: collection name may not be %q", common.ErrInvalidInput, name)
	case reservedName(name):
		return fmt.Errorf("%w: names of the form __name__ are reserved", common.ErrInvalidInput)
	}
	return nil
}

// reservedName reports whether name matches __.*__, which the document store
// keeps for itself.
func reservedName(name string) bool {
	return len(name) >= 4 && strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__")
}
