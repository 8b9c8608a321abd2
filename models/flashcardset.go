package models

import "gorm.io/gorm"

// CollectionIndexEntry names one collection in a user's index.
type CollectionIndexEntry struct {
	Name string `json:"name" firestore:"name"`
}

// FlashcardSet is the stored form of a collection index entry. Position keeps
// the order in which collections were added to the user's index.
type FlashcardSet struct {
	gorm.Model
	UserID   string `gorm:"not null;size:128;uniqueIndex:idx_user_set_name"`
	Name     string `gorm:"not null;size:200;uniqueIndex:idx_user_set_name"`
	Position int    `gorm:"not null"`
	User     User   `gorm:"foreignKey:UserID" json:"-"`

	Flashcards []Flashcard `gorm:"foreignKey:SetID"`
}
