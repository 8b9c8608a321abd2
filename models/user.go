package models

import "time"

// User is the root record for an authenticated subject. The ID is the
// subject claim issued by the identity provider.
type User struct {
	ID        string `gorm:"primaryKey;size:128"`
	CreatedAt time.Time
	UpdatedAt time.Time

	FlashcardSets []FlashcardSet `gorm:"foreignKey:UserID"`
}
