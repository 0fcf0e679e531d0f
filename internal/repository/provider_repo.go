package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"github.com/Werneck0live/alca-hub/internal/models"
	"github.com/Werneck0live/alca-hub/internal/utils"
)

const (
	ProvidersCollection = "providers"
	MediaCollection     = "provider_media"
)

type ProviderRepository struct {
	coll  *mongo.Collection
	media *mongo.Collection
}

func NewProviderRepository(db *mongo.Database) *ProviderRepository {
	return &ProviderRepository{
		coll:  db.Collection(ProvidersCollection),
		media: db.Collection(MediaCollection),
	}
}

// Mongo guarda datas com precisão de milissegundo; truncar mantém createdAt == updatedAt
// comparável depois do round-trip.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// upsertCreated: o registro é novo quando o upsert inseriu e createdAt == updatedAt.
// Só os timestamps não bastam: um re-upsert no mesmo milissegundo do insert também os iguala.
func upsertCreated(res *mongo.UpdateResult, createdAt, updatedAt time.Time) bool {
	return res != nil && res.UpsertedCount > 0 && createdAt.Equal(updatedAt)
}

func (r *ProviderRepository) EnsureIndexes(ctx context.Context) error {
	idx := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "document", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_document"),
		},
		{
			Keys:    bson.D{{Key: "addressCity", Value: 1}},
			Options: options.Index().SetName("idx_address_city"),
		},
		{
			Keys:    bson.D{{Key: "categoryIds", Value: 1}},
			Options: options.Index().SetName("idx_category_ids"),
		},
		{
			Keys:    bson.D{{Key: "isVerified", Value: -1}, {Key: "rating", Value: -1}, {Key: "name", Value: 1}},
			Options: options.Index().SetName("idx_verified_rating_name"),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, idx); err != nil {
		return fmt.Errorf("providers indexes: %w", err)
	}
	return nil
}

// Create normaliza o document antes de gravar.
func (r *ProviderRepository) Create(ctx context.Context, p *models.Provider) error {
	p.Document = utils.SanitizeDocument(p.Document)
	if p.Document == "" {
		return ErrInvalidDocument
	}
	if p.CategoryIDs == nil {
		p.CategoryIDs = []primitive.ObjectID{}
	}
	p.CreatedAt = now()
	p.UpdatedAt = p.CreatedAt
	res, err := r.coll.InsertOne(ctx, p)
	if err != nil {
		return mapDuplicate(err, ErrDuplicateDocument)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = id
	}
	return nil
}

func (r *ProviderRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Provider, error) {
	var p models.Provider
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, mapNoDocuments(err)
	}
	return &p, nil
}

func patchSet(upd *models.ProviderPatch) (bson.M, error) {
	set := bson.M{"updatedAt": now()}
	str := map[string]*string{
		"name":          upd.Name,
		"email":         upd.Email,
		"phone":         upd.Phone,
		"whatsapp":      upd.Whatsapp,
		"description":   upd.Description,
		"addressStreet": upd.AddressStreet,
		"addressCity":   upd.AddressCity,
		"addressState":  upd.AddressState,
		"addressZip":    upd.AddressZip,
		"coverageArea":  upd.CoverageArea,
	}
	for k, v := range str {
		if v != nil {
			set[k] = *v
		}
	}
	// mesma normalização do Create
	if upd.Document != nil {
		doc := utils.SanitizeDocument(*upd.Document)
		if doc == "" {
			return nil, ErrInvalidDocument
		}
		set["document"] = doc
	}
	if upd.Rating != nil {
		set["rating"] = *upd.Rating
	}
	if upd.IsVerified != nil {
		set["isVerified"] = *upd.IsVerified
	}
	if upd.CategoryIDs != nil {
		ids := *upd.CategoryIDs
		if ids == nil {
			ids = []primitive.ObjectID{}
		}
		set["categoryIds"] = ids
	}
	return set, nil
}

// Update aplica só os campos informados e devolve o documento atualizado.
func (r *ProviderRepository) Update(ctx context.Context, id primitive.ObjectID, upd *models.ProviderPatch) (*models.Provider, error) {
	set, err := patchSet(upd)
	if err != nil {
		return nil, err
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var out models.Provider
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&out)
	if err != nil {
		if mapped := mapDuplicate(err, ErrDuplicateDocument); mapped != err {
			return nil, mapped
		}
		return nil, mapNoDocuments(err)
	}
	return &out, nil
}

// Delete remove o provider e as mídias dele. Sem transação: se a segunda etapa falhar
// sobram mídias órfãs, que não aparecem em nenhuma listagem.
func (r *ProviderRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	if _, err := r.media.DeleteMany(ctx, bson.M{"providerId": id}); err != nil {
		return fmt.Errorf("cascade media: %w", err)
	}
	return nil
}

// Search executa a página e o total em paralelo sobre o mesmo filtro.
// Não há isolamento entre as duas leituras: escritas concorrentes podem mexer no total.
func (r *ProviderRepository) Search(ctx context.Context, q ProviderQuery) ([]models.Provider, int64, error) {
	filter := BuildProviderFilter(q)
	opts := options.Find().
		SetSkip(utils.Skip(q.Page, q.Limit)).
		SetLimit(q.Limit)
	if sort := BuildProviderSort(q.SortBy, q.SortOrder); sort != nil {
		opts.SetSort(sort)
	}

	var (
		list  []models.Provider
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cur, err := r.coll.Find(gctx, filter, opts)
		if err != nil {
			return fmt.Errorf("find providers: %w", err)
		}
		defer cur.Close(gctx)

		page := []models.Provider{}
		for cur.Next(gctx) {
			var p models.Provider
			if err := cur.Decode(&p); err != nil {
				return err
			}
			page = append(page, p)
		}
		list = page
		return cur.Err()
	})
	g.Go(func() error {
		n, err := r.coll.CountDocuments(gctx, filter)
		if err != nil {
			return fmt.Errorf("count providers: %w", err)
		}
		total = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// UpsertByDocument insere ou atualiza pelo document normalizado (usado no import).
func (r *ProviderRepository) UpsertByDocument(ctx context.Context, p *models.Provider) (bool, *models.Provider, error) {
	doc := utils.SanitizeDocument(p.Document)
	if doc == "" {
		return false, nil, ErrInvalidDocument
	}
	ids := p.CategoryIDs
	if ids == nil {
		ids = []primitive.ObjectID{}
	}
	ts := now()
	update := bson.M{
		"$set": bson.M{
			"name":          p.Name,
			"email":         p.Email,
			"phone":         p.Phone,
			"whatsapp":      p.Whatsapp,
			"description":   p.Description,
			"rating":        p.Rating,
			"isVerified":    p.IsVerified,
			"addressStreet": p.AddressStreet,
			"addressCity":   p.AddressCity,
			"addressState":  p.AddressState,
			"addressZip":    p.AddressZip,
			"coverageArea":  p.CoverageArea,
			"categoryIds":   ids,
			"updatedAt":     ts,
		},
		"$setOnInsert": bson.M{"createdAt": ts},
	}

	filter := bson.M{"document": doc}
	res, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, nil, mapDuplicate(err, ErrDuplicateDocument)
	}
	var out models.Provider
	if err := r.coll.FindOne(ctx, filter).Decode(&out); err != nil {
		return false, nil, mapNoDocuments(err)
	}
	return upsertCreated(res, out.CreatedAt, out.UpdatedAt), &out, nil
}

func (r *ProviderRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}
