// internal/domain/models/status.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Status is a triage state an admin can assign to a suggestion
// (Completed, Watching, Upcoming, Dismissed, ...). Append-only like Category.
type Status struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
}
