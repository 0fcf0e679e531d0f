package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Werneck0live/alca-hub/internal/admin"
	"github.com/Werneck0live/alca-hub/internal/broker"
	"github.com/Werneck0live/alca-hub/internal/cache"
	"github.com/Werneck0live/alca-hub/internal/config"
	"github.com/Werneck0live/alca-hub/internal/db"
	"github.com/Werneck0live/alca-hub/internal/handlers"
	"github.com/Werneck0live/alca-hub/internal/metrics"
	"github.com/Werneck0live/alca-hub/internal/repository"
	"github.com/Werneck0live/alca-hub/internal/server"
)

type publisher interface {
	handlers.Publisher
	Close() error
}

type statsCache interface {
	handlers.StatsCache
	admin.StatsInvalidator
}

type repos struct {
	providers  *repository.ProviderRepository
	categories *repository.CategoryRepository
	media      *repository.MediaRepository
}

// cmd/api/main.go
func main() {
	// .env é opcional (em container as variáveis já vêm do ambiente)
	_ = godotenv.Load()
	cfg := config.Load()

	log := config.InitLogger(cfg.LogLevel)
	log.Info("starting", "port", cfg.Port, "mongo_db", cfg.MongoDB)

	// HOOK: admin job (one-off)
	task := flag.String("task", "", "admin task: import")
	catFile := flag.String("categories", "", "categories json (default: embedded seed)")
	provFile := flag.String("providers", "", "providers json (default: embedded seed)")
	flag.Parse()

	client, err := db.NewMongoClient(cfg.MongoURI)
	if err != nil {
		log.Error("mongo_connect_error", "err", err)
		os.Exit(1)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	rp := newRepos(client.Database(cfg.MongoDB))
	if err := rp.ensureIndexes(); err != nil {
		log.Error("ensure_indexes_error", "err", err)
		os.Exit(1)
	}

	pub := newPublisher(cfg, log)
	defer func() { _ = pub.Close() }()

	m := metrics.New()

	// sem REDIS_ADDR (ou Redis fora do ar) as estatísticas vão direto ao Mongo
	var sc statsCache = cache.Noop{}
	if cfg.RedisAddr != "" {
		rc, err := cache.NewStatsCache(cache.Config{
			Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB, TTL: cfg.StatsCacheTTL,
		})
		if err != nil {
			log.Warn("redis_unavailable", "addr", cfg.RedisAddr, "err", err)
		} else {
			defer func() { _ = rc.Close() }()
			sc = rc
		}
	}

	if *task != "" {
		switch *task {
		case "import":
			im := &admin.Importer{
				Categories: rp.categories,
				Providers:  rp.providers,
				Pub:        pub,
				Cache:      sc,
				Metrics:    m,
				Log:        log,
			}
			if _, err := im.Run(context.Background(), admin.Source{CategoriesFile: *catFile, ProvidersFile: *provFile}); err != nil {
				log.Error("import_failed", "err", err)
				os.Exit(1)
			}
			return // encerra o processo sem subir HTTP
		default:
			log.Error("unknown_admin_task", "task", *task)
			os.Exit(2)
		}
	}

	h := &handlers.Handler{
		Providers:  rp.providers,
		Categories: rp.categories,
		Media:      rp.media,
		Pub:        pub,
		Cache:      sc,
		Metrics:    m,
		Log:        log,
		Timeout:    cfg.RequestTimeout,
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.NewRouter(h, m, log),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	go func() {
		log.Info("http_listen", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http_server_error", "err", err)
			os.Exit(1)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful_shutdown_error", "err", err)
	}
	log.Info("stopped")
}

func newRepos(d *mongo.Database) repos {
	return repos{
		providers:  repository.NewProviderRepository(d),
		categories: repository.NewCategoryRepository(d),
		media:      repository.NewMediaRepository(d),
	}
}

func (r repos) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := r.providers.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := r.categories.EnsureIndexes(ctx); err != nil {
		return err
	}
	return r.media.EnsureIndexes(ctx)
}

// Rabbit fora do ar não impede a API de subir: os eventos só deixam de ser publicados.
func newPublisher(cfg *config.Config, log *slog.Logger) publisher {
	if !cfg.RabbitEnabled {
		log.Info("rabbit_disabled")
		return broker.NopPublisher{}
	}
	p, err := broker.NewPublisher(cfg.RabbitURI, cfg.RabbitQueue)
	if err != nil {
		log.Warn("rabbit_unavailable", "err", err)
		return broker.NopPublisher{}
	}
	return p
}
