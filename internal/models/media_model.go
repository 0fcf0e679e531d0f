package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MediaKind string

const (
	MediaPhoto MediaKind = "photo"
	MediaVideo MediaKind = "video"
	MediaPDF   MediaKind = "pdf"
	MediaLink  MediaKind = "link"
)

func (k MediaKind) Valid() bool {
	switch k {
	case MediaPhoto, MediaVideo, MediaPDF, MediaLink:
		return true
	}
	return false
}

type ProviderMedia struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	ProviderID primitive.ObjectID `bson:"providerId" json:"providerId"`
	Kind       MediaKind          `bson:"kind" json:"kind"`
	URL        string             `bson:"url" json:"url"`
	Caption    string             `bson:"caption,omitempty" json:"caption,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
