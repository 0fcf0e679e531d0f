package admin

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Werneck0live/alca-hub/internal/broker"
	"github.com/Werneck0live/alca-hub/internal/metrics"
	"github.com/Werneck0live/alca-hub/internal/models"
	"github.com/Werneck0live/alca-hub/internal/repository"
	"github.com/Werneck0live/alca-hub/internal/utils"
)

//go:embed seeds/categories.json
var categoriesJSON []byte

//go:embed seeds/providers.json
var providersJSON []byte

const itemTimeout = 3 * time.Second

type CategoryUpserter interface {
	UpsertByName(ctx context.Context, name string) (bool, *models.Category, error)
	SetParent(ctx context.Context, id, parentID primitive.ObjectID) error
}

type ProviderUpserter interface {
	UpsertByDocument(ctx context.Context, p *models.Provider) (bool, *models.Provider, error)
}

type Publisher interface {
	Publish(ctx context.Context, ev broker.Event) error
}

// StatsInvalidator descarta o /providers/stats em cache depois do import.
type StatsInvalidator interface {
	Invalidate(ctx context.Context) error
}

type categoryItem struct {
	Name   string `json:"name"`
	Parent string `json:"parent,omitempty"`
}

type providerItem struct {
	Name          string   `json:"name"`
	Document      string   `json:"document"`
	Email         string   `json:"email"`
	Phone         string   `json:"phone"`
	Whatsapp      string   `json:"whatsapp"`
	Description   string   `json:"description"`
	Rating        float64  `json:"rating"`
	IsVerified    bool     `json:"isVerified"`
	AddressStreet string   `json:"addressStreet"`
	AddressCity   string   `json:"addressCity"`
	AddressState  string   `json:"addressState"`
	AddressZip    string   `json:"addressZip"`
	CoverageArea  string   `json:"coverageArea"`
	Categories    []string `json:"categories"`
}

// Report resume uma execução do import.
type Report struct {
	CategoriesCreated int `json:"categoriesCreated"`
	CategoriesUpdated int `json:"categoriesUpdated"`
	ProvidersCreated  int `json:"providersCreated"`
	ProvidersUpdated  int `json:"providersUpdated"`
	Skipped           int `json:"skipped"`
}

// Importer faz upsert de categorias e providers. Pub, Cache e Metrics são opcionais.
type Importer struct {
	Categories CategoryUpserter
	Providers  ProviderUpserter
	Pub        Publisher
	Cache      StatsInvalidator
	Metrics    *metrics.Metrics
	Log        *slog.Logger
}

// Source: arquivos vazios = seeds embutidos.
type Source struct {
	CategoriesFile string
	ProvidersFile  string
}

func readOr(path string, fallback []byte) ([]byte, error) {
	if path == "" {
		return fallback, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return b, nil
}

func (s Source) load() ([]categoryItem, []providerItem, error) {
	cb, err := readOr(s.CategoriesFile, categoriesJSON)
	if err != nil {
		return nil, nil, err
	}
	pb, err := readOr(s.ProvidersFile, providersJSON)
	if err != nil {
		return nil, nil, err
	}
	var cats []categoryItem
	if err := json.Unmarshal(cb, &cats); err != nil {
		return nil, nil, fmt.Errorf("categories json: %w", err)
	}
	var provs []providerItem
	if err := json.Unmarshal(pb, &provs); err != nil {
		return nil, nil, fmt.Errorf("providers json: %w", err)
	}
	return cats, provs, nil
}

func (im *Importer) logger() *slog.Logger {
	if im.Log == nil {
		return slog.Default()
	}
	return im.Log
}

// Run é idempotente: rodar de novo com os mesmos dados não cria nada.
func (im *Importer) Run(ctx context.Context, src Source) (Report, error) {
	var rep Report
	cats, provs, err := src.load()
	if err != nil {
		return rep, err
	}

	err = im.upsertAll(ctx, cats, provs, &rep)
	// mesmo se falhar no meio, parte dos dados já foi gravada
	im.invalidateStats(ctx)
	if err != nil {
		return rep, err
	}

	im.Metrics.Imported("category", "created", rep.CategoriesCreated)
	im.Metrics.Imported("category", "updated", rep.CategoriesUpdated)
	im.Metrics.Imported("provider", "created", rep.ProvidersCreated)
	im.Metrics.Imported("provider", "updated", rep.ProvidersUpdated)
	im.Metrics.Imported("provider", "skipped", rep.Skipped)

	im.logger().Info("import_done",
		"categories_created", rep.CategoriesCreated, "categories_updated", rep.CategoriesUpdated,
		"providers_created", rep.ProvidersCreated, "providers_updated", rep.ProvidersUpdated,
		"skipped", rep.Skipped)
	im.publish(ctx, rep)
	return rep, nil
}

func (im *Importer) upsertAll(ctx context.Context, cats []categoryItem, provs []providerItem, rep *Report) error {
	ids, err := im.importCategories(ctx, cats, rep)
	if err != nil {
		return err
	}
	return im.importProviders(ctx, provs, ids, rep)
}

// duas passadas: primeiro os nomes, depois os vínculos de parent (o pai pode vir depois do filho)
func (im *Importer) importCategories(ctx context.Context, items []categoryItem, rep *Report) (map[string]primitive.ObjectID, error) {
	log := im.logger()
	ids := make(map[string]primitive.ObjectID, len(items))

	for _, it := range items {
		name := strings.TrimSpace(it.Name)
		if len([]rune(name)) < models.MinCategoryNameLen {
			log.Warn("import_skip_category", "name", it.Name)
			rep.Skipped++
			continue
		}
		ictx, cancel := context.WithTimeout(ctx, itemTimeout)
		created, c, err := im.Categories.UpsertByName(ictx, name)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("upsert category %q: %w", name, err)
		}
		ids[name] = c.ID
		if created {
			rep.CategoriesCreated++
			log.Info("import_category_created", "name", name)
		} else {
			rep.CategoriesUpdated++
		}
	}

	for _, it := range items {
		if it.Parent == "" {
			continue
		}
		child, ok := ids[strings.TrimSpace(it.Name)]
		parent, pok := ids[strings.TrimSpace(it.Parent)]
		if !ok || !pok {
			log.Warn("import_parent_not_found", "name", it.Name, "parent", it.Parent)
			continue
		}
		ictx, cancel := context.WithTimeout(ctx, itemTimeout)
		err := im.Categories.SetParent(ictx, child, parent)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("set parent %q: %w", it.Name, err)
		}
	}
	return ids, nil
}

func (im *Importer) importProviders(ctx context.Context, items []providerItem, ids map[string]primitive.ObjectID, rep *Report) error {
	log := im.logger()
	for _, it := range items {
		doc := utils.SanitizeDocument(it.Document)
		if strings.TrimSpace(it.Name) == "" || !utils.ValidateDocument(doc) {
			log.Warn("import_skip_provider", "name", it.Name, "document", it.Document)
			rep.Skipped++
			continue
		}
		if it.Rating < models.MinRating || it.Rating > models.MaxRating {
			log.Warn("import_skip_provider_rating", "document", doc, "rating", it.Rating)
			rep.Skipped++
			continue
		}

		catIDs := make([]primitive.ObjectID, 0, len(it.Categories))
		for _, n := range it.Categories {
			id, ok := ids[strings.TrimSpace(n)]
			if !ok {
				log.Warn("import_unknown_category", "document", doc, "category", n)
				continue
			}
			catIDs = append(catIDs, id)
		}

		p := &models.Provider{
			Name:          strings.TrimSpace(it.Name),
			Document:      doc,
			Email:         it.Email,
			Phone:         it.Phone,
			Whatsapp:      it.Whatsapp,
			Description:   it.Description,
			Rating:        it.Rating,
			IsVerified:    it.IsVerified,
			AddressStreet: it.AddressStreet,
			AddressCity:   it.AddressCity,
			AddressState:  it.AddressState,
			AddressZip:    it.AddressZip,
			CoverageArea:  it.CoverageArea,
			CategoryIDs:   catIDs,
		}

		ictx, cancel := context.WithTimeout(ctx, itemTimeout)
		created, _, err := im.Providers.UpsertByDocument(ictx, p)
		cancel()
		if err != nil {
			if errors.Is(err, repository.ErrInvalidDocument) {
				rep.Skipped++
				continue
			}
			return fmt.Errorf("upsert provider %s: %w", doc, err)
		}
		if created {
			rep.ProvidersCreated++
			log.Info("import_provider_created", "document", doc)
		} else {
			rep.ProvidersUpdated++
		}
	}
	return nil
}

func (im *Importer) invalidateStats(ctx context.Context) {
	if im.Cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, itemTimeout)
	defer cancel()
	if err := im.Cache.Invalidate(ctx); err != nil {
		im.logger().Warn("stats_cache_invalidate_failed", "err", err)
	}
}

func (im *Importer) publish(ctx context.Context, rep Report) {
	if im.Pub == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, itemTimeout)
	defer cancel()
	msg := fmt.Sprintf("Import concluído: %d prestadores novos, %d atualizados",
		rep.ProvidersCreated, rep.ProvidersUpdated)
	ev := broker.NewEvent(broker.ActionImportFinished, "", msg, map[string]any{
		"categoriesCreated": rep.CategoriesCreated,
		"categoriesUpdated": rep.CategoriesUpdated,
		"providersCreated":  rep.ProvidersCreated,
		"providersUpdated":  rep.ProvidersUpdated,
		"skipped":           rep.Skipped,
	})
	if err := im.Pub.Publish(ctx, ev); err != nil {
		im.logger().Warn("publish_failed", "action", ev.Action, "err", err)
	}
}
