package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const MinCategoryNameLen = 2

type Category struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	Name      string              `bson:"name" json:"name"` // único, case-sensitive
	ParentID  *primitive.ObjectID `bson:"parentId,omitempty" json:"parentId,omitempty"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updatedAt"`
}
