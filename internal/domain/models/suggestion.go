// internal/domain/models/suggestion.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Suggestion is a user-submitted idea.
//
// NOTE:
//   - Category, Status and Author are denormalized copies taken at write time,
//     not live references.
//   - UserVotes is the source of truth for who voted. User.VotedOnSuggestions
//     is a projection maintained by the suggestion store's transactional writes.
type Suggestion struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Category    Category           `bson:"category" json:"category"`
	Status      *Status            `bson:"status,omitempty" json:"status,omitempty"` // nil until triaged
	Author      UserRef            `bson:"author" json:"author"`

	// UserVotes holds unique voter ids; order carries no meaning.
	UserVotes []primitive.ObjectID `bson:"user_votes" json:"user_votes"`

	ApprovedForRelease bool   `bson:"approved_for_release" json:"approved_for_release"`
	Rejected           bool   `bson:"rejected" json:"rejected"`
	Archived           bool   `bson:"archived" json:"archived"`
	OwnerNotes         string `bson:"owner_notes,omitempty" json:"owner_notes,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// HasVoted reports whether userID is in the voter set.
func (s *Suggestion) HasVoted(userID primitive.ObjectID) bool {
	for _, v := range s.UserVotes {
		if v == userID {
			return true
		}
	}
	return false
}

// Ref returns the minimal reference embedded in user profiles.
func (s *Suggestion) Ref() SuggestionRef {
	return SuggestionRef{ID: s.ID, Title: s.Title}
}
