// internal/domain/models/refs.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// SuggestionRef is the id + title copy of a suggestion kept on a user profile.
type SuggestionRef struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Title string             `bson:"title" json:"title"`
}

// UserRef is the id + display name copy of a user kept on a suggestion.
type UserRef struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	DisplayName string             `bson:"display_name" json:"display_name"`
}
