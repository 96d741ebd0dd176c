// internal/domain/models/category.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Category is a lookup entry suggestions are filed under.
// Categories are append-only: there is no update or delete path.
type Category struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
}
