package handlers

import (
	"context"
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Werneck0live/alca-hub/internal/broker"
	"github.com/Werneck0live/alca-hub/internal/models"
	"github.com/Werneck0live/alca-hub/internal/repository"
)

type providerMock struct {
	SearchFn  func(ctx context.Context, q repository.ProviderQuery) ([]models.Provider, int64, error)
	GetByIDFn func(ctx context.Context, id primitive.ObjectID) (*models.Provider, error)
	CreateFn  func(ctx context.Context, p *models.Provider) error
	UpdateFn  func(ctx context.Context, id primitive.ObjectID, upd *models.ProviderPatch) (*models.Provider, error)
	DeleteFn  func(ctx context.Context, id primitive.ObjectID) error
	StatsFn   func(ctx context.Context) (*models.ProviderStats, error)
}

func (m *providerMock) Search(ctx context.Context, q repository.ProviderQuery) ([]models.Provider, int64, error) {
	if m.SearchFn == nil {
		return nil, 0, errors.New("SearchFn not set")
	}
	return m.SearchFn(ctx, q)
}
func (m *providerMock) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Provider, error) {
	if m.GetByIDFn == nil {
		return nil, errors.New("GetByIDFn not set")
	}
	return m.GetByIDFn(ctx, id)
}
func (m *providerMock) Create(ctx context.Context, p *models.Provider) error {
	if m.CreateFn == nil {
		return errors.New("CreateFn not set")
	}
	return m.CreateFn(ctx, p)
}
func (m *providerMock) Update(ctx context.Context, id primitive.ObjectID, upd *models.ProviderPatch) (*models.Provider, error) {
	if m.UpdateFn == nil {
		return nil, errors.New("UpdateFn not set")
	}
	return m.UpdateFn(ctx, id, upd)
}
func (m *providerMock) Delete(ctx context.Context, id primitive.ObjectID) error {
	if m.DeleteFn == nil {
		return errors.New("DeleteFn not set")
	}
	return m.DeleteFn(ctx, id)
}
func (m *providerMock) Stats(ctx context.Context) (*models.ProviderStats, error) {
	if m.StatsFn == nil {
		return nil, errors.New("StatsFn not set")
	}
	return m.StatsFn(ctx)
}

type categoryMock struct {
	FindByNameFn func(ctx context.Context, name string) (*models.Category, error)
	ListFn       func(ctx context.Context) ([]models.Category, error)
	CreateFn     func(ctx context.Context, c *models.Category) error
	ExistsFn     func(ctx context.Context, id primitive.ObjectID) (bool, error)
	NamesByIDsFn func(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error)
}

func (m *categoryMock) FindByName(ctx context.Context, name string) (*models.Category, error) {
	if m.FindByNameFn == nil {
		return nil, repository.ErrNotFound
	}
	return m.FindByNameFn(ctx, name)
}
func (m *categoryMock) List(ctx context.Context) ([]models.Category, error) {
	if m.ListFn == nil {
		return nil, errors.New("ListFn not set")
	}
	return m.ListFn(ctx)
}
func (m *categoryMock) Create(ctx context.Context, c *models.Category) error {
	if m.CreateFn == nil {
		return errors.New("CreateFn not set")
	}
	return m.CreateFn(ctx, c)
}
func (m *categoryMock) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	if m.ExistsFn == nil {
		return true, nil
	}
	return m.ExistsFn(ctx, id)
}

// sem NamesByIDsFn: nenhuma categoria resolvida
func (m *categoryMock) NamesByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	if m.NamesByIDsFn == nil {
		return map[primitive.ObjectID]string{}, nil
	}
	return m.NamesByIDsFn(ctx, ids)
}

type mediaMock struct {
	CreateFn         func(ctx context.Context, m *models.ProviderMedia) error
	ListByProviderFn func(ctx context.Context, id primitive.ObjectID) ([]models.ProviderMedia, error)
}

func (m *mediaMock) Create(ctx context.Context, md *models.ProviderMedia) error {
	if m.CreateFn == nil {
		return errors.New("CreateFn not set")
	}
	return m.CreateFn(ctx, md)
}
func (m *mediaMock) ListByProvider(ctx context.Context, id primitive.ObjectID) ([]models.ProviderMedia, error) {
	if m.ListByProviderFn == nil {
		return nil, errors.New("ListByProviderFn not set")
	}
	return m.ListByProviderFn(ctx, id)
}

// pubMock guarda os eventos publicados
type pubMock struct {
	mu     sync.Mutex
	events []broker.Event
	err    error
}

func (p *pubMock) Publish(_ context.Context, ev broker.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *pubMock) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Action)
	}
	return out
}

type cacheMock struct {
	stats       *models.ProviderStats
	getErr      error
	sets        int
	invalidated int
}

func (c *cacheMock) Get(context.Context) (*models.ProviderStats, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.stats, nil
}
func (c *cacheMock) Set(_ context.Context, st *models.ProviderStats) error {
	c.sets++
	c.stats = st
	return nil
}
func (c *cacheMock) Invalidate(context.Context) error {
	c.invalidated++
	return nil
}
