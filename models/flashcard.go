package models

import "gorm.io/gorm"

// MaxFlashcards caps both a generated batch and a saved collection.
const MaxFlashcards = 10

// Card is a single front/back pair as produced by the generator and
// stored in a collection.
type Card struct {
	Front string `json:"front" firestore:"front"`
	Back  string `json:"back" firestore:"back"`
}

// Flashcard is the stored row for a Card
type Flashcard struct {
	gorm.Model
	PublicID string `gorm:"size:32;uniqueIndex;not null"`
	SetID    uint   `gorm:"not null;index"`
	Front    string `gorm:"type:text;not null"`
	Back     string `gorm:"type:text;not null"`
}

func (f Flashcard) Card() Card {
	return Card{Front: f.Front, Back: f.Back}
}
