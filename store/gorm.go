// Package store holds the document store implementations behind the
// collections service.
package store

import (
	"context"
	"errors"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrewpaige1/flashcard-saas/common"
	"github.com/andrewpaige1/flashcard-saas/models"
)

// GormStore keeps collections in a relational database. The user's index is
// the ordered set of flashcard_sets rows; the (user_id, name) unique index
// closes the window between the duplicate check and the insert.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CreateCollection(ctx context.Context, userID, name string, cards []models.Card) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Root record is merged, never overwritten.
		user := models.User{ID: userID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&user).Error; err != nil {
			return fmt.Errorf("create user record: %w", err)
		}

		var existing int64
		if err := tx.Model(&models.FlashcardSet{}).
			Where("user_id = ? AND name = ?", userID, name).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("check collection name: %w", err)
		}
		if existing > 0 {
			return common.ErrAlreadyExists
		}

		var position int64
		if err := tx.Model(&models.FlashcardSet{}).Where("user_id = ?", userID).Count(&position).Error; err != nil {
			return fmt.Errorf("count collections: %w", err)
		}

		set := models.FlashcardSet{UserID: userID, Name: name, Position: int(position)}
		if err := insertSet(tx, &set); err != nil {
			return err
		}

		rows := make([]models.Flashcard, 0, len(cards))
		for _, c := range cards {
			publicID, err := gonanoid.New()
			if err != nil {
				return fmt.Errorf("generate flashcard id: %w", err)
			}
			rows = append(rows, models.Flashcard{
				PublicID: publicID,
				SetID:    set.ID,
				Front:    c.Front,
				Back:     c.Back,
			})
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("create flashcards: %w", err)
			}
		}
		return nil
	})
}

// insertSet creates the index row. A writer that passed the count check
// concurrently with another one is stopped here by the unique index.
func insertSet(tx *gorm.DB, set *models.FlashcardSet) error {
	if err := tx.Create(set).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("create collection: %w", err)
	}
	return nil
}

func (s *GormStore) ListCollections(ctx context.Context, userID string) ([]models.CollectionIndexEntry, error) {
	var sets []models.FlashcardSet
	if err := s.db.WithContext(ctx).
		Select("name").
		Where("user_id = ?", userID).
		Order("position asc, id asc").
		Find(&sets).Error; err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}

	entries := make([]models.CollectionIndexEntry, 0, len(sets))
	for _, set := range sets {
		entries = append(entries, models.CollectionIndexEntry{Name: set.Name})
	}
	return entries, nil
}

func (s *GormStore) GetCollection(ctx context.Context, userID, name string) ([]models.Card, error) {
	db := s.db.WithContext(ctx)

	var set models.FlashcardSet
	if err := db.Where("user_id = ? AND name = ?", userID, name).First(&set).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("find collection: %w", err)
	}

	var flashcards []models.Flashcard
	if err := db.Where("set_id = ?", set.ID).Order("id asc").Find(&flashcards).Error; err != nil {
		return nil, fmt.Errorf("fetch flashcards: %w", err)
	}

	cards := make([]models.Card, 0, len(flashcards))
	for _, f := range flashcards {
		cards = append(cards, f.Card())
	}
	return cards, nil
}
