package repository

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Werneck0live/alca-hub/internal/models"
)

const CategoriesCollection = "categories"

type CategoryRepository struct {
	coll *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{coll: db.Collection(CategoriesCollection)}
}

func (r *CategoryRepository) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_name"),
	}
	_, err := r.coll.Indexes().CreateOne(ctx, model)
	if err == nil {
		return nil
	}
	// Se já existir com outra opção, tenta dropar e recriar
	if ce, ok := err.(mongo.CommandError); ok && ce.Code == 85 { // IndexOptionsConflict
		if _, dropErr := r.coll.Indexes().DropOne(ctx, "uniq_name"); dropErr != nil {
			return fmt.Errorf("drop index uniq_name: %w", dropErr)
		}
		_, createErr := r.coll.Indexes().CreateOne(ctx, model)
		return createErr
	}
	return err
}

// FindByName faz match exato (case-sensitive).
func (r *CategoryRepository) FindByName(ctx context.Context, name string) (*models.Category, error) {
	var c models.Category
	if err := r.coll.FindOne(ctx, bson.M{"name": name}).Decode(&c); err != nil {
		return nil, mapNoDocuments(err)
	}
	return &c, nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	list := []models.Category{}
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	c.Name = strings.TrimSpace(c.Name)
	c.CreatedAt = now()
	c.UpdatedAt = c.CreatedAt
	res, err := r.coll.InsertOne(ctx, c)
	if err != nil {
		return mapDuplicate(err, ErrDuplicateCategory)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		c.ID = id
	}
	return nil
}

func (r *CategoryRepository) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	return n > 0, err
}

// UpsertByName cria a categoria se o nome ainda não existir; senão só toca updatedAt.
func (r *CategoryRepository) UpsertByName(ctx context.Context, name string) (bool, *models.Category, error) {
	ts := now()
	update := bson.M{
		"$set":         bson.M{"updatedAt": ts},
		"$setOnInsert": bson.M{"createdAt": ts},
	}
	filter := bson.M{"name": strings.TrimSpace(name)}
	res, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, nil, mapDuplicate(err, ErrDuplicateCategory)
	}
	var out models.Category
	if err := r.coll.FindOne(ctx, filter).Decode(&out); err != nil {
		return false, nil, mapNoDocuments(err)
	}
	return upsertCreated(res, out.CreatedAt, out.UpdatedAt), &out, nil
}

func (r *CategoryRepository) SetParent(ctx context.Context, id, parentID primitive.ObjectID) error {
	res, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{"parentId": parentID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// NamesByIDs resolve categoryIds -> nome (o "populate" das respostas de provider).
func (r *CategoryRepository) NamesByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	out := make(map[primitive.ObjectID]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	opts := options.Find().SetProjection(bson.M{"name": 1})
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	var refs []models.CategoryRef
	if err := cur.All(ctx, &refs); err != nil {
		return nil, err
	}
	for _, c := range refs {
		out[c.ID] = c.Name
	}
	return out, nil
}
