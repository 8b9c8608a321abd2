package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/andrewpaige1/flashcard-saas/common"
	"github.com/andrewpaige1/flashcard-saas/models"
)

const usersCollection = "users"

// userDocument is the root record at users/{userId}.
type userDocument struct {
	Flashcards []models.CollectionIndexEntry `firestore:"flashcards"`
}

// FirestoreStore keeps collections in Firestore:
//
//	users/{userId}                           -> {flashcards: [{name}, ...]}
//	users/{userId}/{collectionName}/{autoId} -> {front, back}
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

// CreateCollection runs the name check, index append and card inserts in one
// transaction. Firestore retries the function on contention, so a concurrent
// save of the same name sees the other's index entry.
func (s *FirestoreStore) CreateCollection(ctx context.Context, userID, name string, cards []models.Card) error {
	userRef := s.client.Collection(usersCollection).Doc(userID)

	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		root, err := readUser(tx.Get(userRef))
		if err != nil {
			return err
		}
		if hasName(root.Flashcards, name) {
			return common.ErrAlreadyExists
		}

		index := append(root.Flashcards, models.CollectionIndexEntry{Name: name})
		if err := tx.Set(userRef, map[string]interface{}{"flashcards": index}, firestore.MergeAll); err != nil {
			return fmt.Errorf("update collection index: %w", err)
		}

		colRef := userRef.Collection(name)
		for _, c := range cards {
			if err := tx.Create(colRef.NewDoc(), c); err != nil {
				return fmt.Errorf("create flashcard: %w", err)
			}
		}
		return nil
	})
}

func (s *FirestoreStore) ListCollections(ctx context.Context, userID string) ([]models.CollectionIndexEntry, error) {
	root, err := readUser(s.client.Collection(usersCollection).Doc(userID).Get(ctx))
	if err != nil {
		return nil, err
	}
	if root.Flashcards == nil {
		return []models.CollectionIndexEntry{}, nil
	}
	return root.Flashcards, nil
}

func (s *FirestoreStore) GetCollection(ctx context.Context, userID, name string) ([]models.Card, error) {
	userRef := s.client.Collection(usersCollection).Doc(userID)

	root, err := readUser(userRef.Get(ctx))
	if err != nil {
		return nil, err
	}
	if !hasName(root.Flashcards, name) {
		return nil, common.ErrNotFound
	}

	snaps, err := userRef.Collection(name).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("fetch flashcards: %w", err)
	}

	cards := make([]models.Card, 0, len(snaps))
	for _, snap := range snaps {
		var c models.Card
		if err := snap.DataTo(&c); err != nil {
			return nil, fmt.Errorf("decode flashcard %s: %w", snap.Ref.ID, err)
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// readUser decodes a users/{userId} snapshot. A missing document is an empty index.
func readUser(snap *firestore.DocumentSnapshot, err error) (userDocument, error) {
	var root userDocument
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return root, nil
		}
		return root, fmt.Errorf("read user record: %w", err)
	}
	if err := snap.DataTo(&root); err != nil {
		return root, fmt.Errorf("decode user record: %w", err)
	}
	return root, nil
}

func hasName(index []models.CollectionIndexEntry, name string) bool {
	for _, e := range index {
		if e.Name == name {
			return true
		}
	}
	return false
}
