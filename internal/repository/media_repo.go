package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Werneck0live/alca-hub/internal/models"
)

type MediaRepository struct {
	coll *mongo.Collection
}

func NewMediaRepository(db *mongo.Database) *MediaRepository {
	return &MediaRepository{coll: db.Collection(MediaCollection)}
}

func (r *MediaRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "providerId", Value: 1}},
		Options: options.Index().SetName("idx_provider_id"),
	})
	return err
}

func (r *MediaRepository) Create(ctx context.Context, m *models.ProviderMedia) error {
	m.CreatedAt = now()
	m.UpdatedAt = m.CreatedAt
	res, err := r.coll.InsertOne(ctx, m)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		m.ID = id
	}
	return nil
}

func (r *MediaRepository) ListByProvider(ctx context.Context, providerID primitive.ObjectID) ([]models.ProviderMedia, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"providerId": providerID}, opts)
	if err != nil {
		return nil, err
	}
	list := []models.ProviderMedia{}
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}
