package container

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"poe2/pickit/internal/catalog"
	"poe2/pickit/internal/client"
	"poe2/pickit/internal/config"
	"poe2/pickit/internal/proxy"
	"poe2/pickit/internal/repository"
	"poe2/pickit/internal/server"
	"poe2/pickit/internal/service"
	"poe2/pickit/internal/source"
	"poe2/pickit/internal/store"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

// Container holds all initialized components
type Container struct {
	Config     *config.Config
	Client     client.Fetcher
	Store      store.OutputStore
	Repository repository.RunRepository

	Service *service.Service
	Server  *server.Server

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	proxySupplier := proxy.NewProxySupplier(ctx, cfg.Upstream.Proxies, cfg.Upstream.NinjaBaseURL)

	container.Client = client.NewUpstreamClient(cfg.Upstream, proxySupplier)

	outputStore, err := container.newStore(ctx)
	if err != nil {
		container.Close()
		return nil, err
	}
	container.Store = outputStore

	runRepo, err := container.newRepository(ctx)
	if err != nil {
		container.Close()
		return nil, err
	}
	container.Repository = runRepo

	container.Service = service.NewService(
		source.NewSources(cfg.Upstream, container.Client),
		catalog.Default(),
		outputStore,
		runRepo,
	)
	container.Server = server.New(cfg.Server, cfg.Defaults, container.Service)

	return container, nil
}

func (c *Container) newStore(ctx context.Context) (store.OutputStore, error) {
	if c.Config.Store.Kind != "redis" {
		log.Info("📦 Keeping generated documents in memory")
		return store.NewMemoryOutputStore(c.Config.Store.TTLDuration()), nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", c.Config.Redis.Host, c.Config.Redis.Port),
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.Database,
	})
	c.redis = rdb

	// Test connection
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info("✅ Connected to Redis successfully")

	return store.NewRedisOutputStore(rdb, c.Config.Store.TTLDuration()), nil
}

func (c *Container) newRepository(ctx context.Context) (repository.RunRepository, error) {
	if !c.Config.Database.Enabled {
		return repository.NewNoopRunRepository(), nil
	}

	db, err := pgxpool.New(ctx, c.Config.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	c.db = db

	runRepo := repository.NewRunRepository(db)
	if err := runRepo.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	log.Info("✅ Run archive ready")

	return runRepo, nil
}

// Run serves the web form until ctx is cancelled, then shuts the server down gracefully.
func (c *Container) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return c.Server.ListenAndServe()
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return c.Server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	if c.Client != nil {
		if err := c.Client.Close(); err != nil {
			log.Warnf("⚠ Failed to close upstream client: %v", err)
		}
	}
	if c.db != nil {
		c.db.Close()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			log.Warnf("⚠ Failed to close Redis: %v", err)
		}
	}

	log.Info("Container shut down successfully")
	return nil
}
