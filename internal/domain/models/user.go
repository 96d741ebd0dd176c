// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a stored profile for someone who has signed in through the
// external identity provider.
//
// NOTE:
//   - ObjectIdentifier is the provider's stable subject id. It is set on
//     first login and never changes afterwards.
//   - AuthoredSuggestions and VotedOnSuggestions are denormalized and only
//     written by the suggestion store. Never persist client-supplied copies.
type User struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ObjectIdentifier string             `bson:"object_identifier" json:"object_identifier"`
	DisplayName      string             `bson:"display_name" json:"display_name"`
	FirstName        string             `bson:"first_name" json:"first_name"`
	LastName         string             `bson:"last_name" json:"last_name"`
	Email            string             `bson:"email" json:"email"`

	AuthoredSuggestions []SuggestionRef `bson:"authored_suggestions" json:"authored_suggestions"`
	VotedOnSuggestions  []SuggestionRef `bson:"voted_on_suggestions" json:"voted_on_suggestions"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Ref returns the minimal author reference embedded in suggestions.
func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, DisplayName: u.DisplayName}
}
