package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	"github.com/Werneck0live/alca-hub/internal/models"
)

const TopCities = 10

// providers x categorias (N:N) agrupado pelo nome da categoria
func byCategoryPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$unwind", Value: "$categoryIds"}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: CategoriesCollection},
			{Key: "localField", Value: "categoryIds"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "category"},
		}}},
		{{Key: "$unwind", Value: "$category"}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category.name"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}
}

func byCityPipeline(top int64) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "addressCity", Value: bson.D{{Key: "$nin", Value: bson.A{nil, ""}}}}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$addressCity"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: top}},
	}
}

func (r *ProviderRepository) aggregateCounts(ctx context.Context, p mongo.Pipeline) ([]models.NamedCount, error) {
	cur, err := r.coll.Aggregate(ctx, p)
	if err != nil {
		return nil, err
	}
	out := []models.NamedCount{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Stats é somente leitura; as cinco consultas rodam em paralelo e não formam um snapshot.
func (r *ProviderRepository) Stats(ctx context.Context) (*models.ProviderStats, error) {
	var st models.ProviderStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		st.Total, err = r.coll.CountDocuments(gctx, bson.M{})
		return err
	})
	g.Go(func() (err error) {
		st.Verified, err = r.coll.CountDocuments(gctx, bson.M{"isVerified": true})
		return err
	})
	g.Go(func() (err error) {
		st.Unverified, err = r.coll.CountDocuments(gctx, bson.M{"isVerified": false})
		return err
	})
	g.Go(func() (err error) {
		st.ByCategory, err = r.aggregateCounts(gctx, byCategoryPipeline())
		return err
	})
	g.Go(func() (err error) {
		st.ByCity, err = r.aggregateCounts(gctx, byCityPipeline(TopCities))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("provider stats: %w", err)
	}
	return &st, nil
}
