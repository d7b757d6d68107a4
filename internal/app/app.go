package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/GlebRadaev/freelancehub/internal/config"
	"github.com/GlebRadaev/freelancehub/internal/expiry"
	"github.com/GlebRadaev/freelancehub/internal/handlers"
	"github.com/GlebRadaev/freelancehub/internal/pg"
	"github.com/GlebRadaev/freelancehub/internal/repo"
	"github.com/GlebRadaev/freelancehub/internal/service"
	"github.com/GlebRadaev/freelancehub/pkg/auth"
	"github.com/GlebRadaev/freelancehub/pkg/clients"
	"github.com/GlebRadaev/freelancehub/pkg/logger"
	"github.com/GlebRadaev/freelancehub/pkg/notify"
	"github.com/GlebRadaev/freelancehub/pkg/storage"
)

type ApplicationI interface {
	Start(ctx context.Context) error
	Wait(ctx context.Context, cancel context.CancelFunc) error
}

type Application struct {
	cfg     *config.Config
	api     *handlers.Handlers
	srv     *service.Services
	repo    *repo.Repositories
	sweeper *expiry.Service

	pool  *pgxpool.Pool
	redis *redis.Client
	nats  *nats.Conn

	errCh chan error
	wg    sync.WaitGroup
	ready bool
}

func New() *Application {
	return &Application{
		errCh: make(chan error),
	}
}

func (a *Application) Start(ctx context.Context) error {
	cfg := config.New()

	err := logger.InitLogger(cfg)
	if err != nil {
		return fmt.Errorf("can't init logger: %w", err)
	}

	pool, err := getPgxpool(ctx, cfg)
	if err != nil {
		zap.L().Error("build pgx pool failed: ", zap.Error(err))
		return fmt.Errorf("can't build pgx pool: %w", err)
	}
	if err := pg.RunMigrations(ctx, pool); err != nil {
		zap.L().Error("migrations failed: ", zap.Error(err))
		return fmt.Errorf("can't run migrations: %w", err)
	}
	a.pool = pool
	txManager := pg.NewTXManager(pool)

	a.redis = redis.NewClient(&redis.Options{Addr: cfg.RedisAddress})
	if err := a.redis.Ping(ctx).Err(); err != nil {
		zap.L().Error("redis ping failed: ", zap.Error(err))
		return fmt.Errorf("can't reach redis: %w", err)
	}

	a.nats, err = notify.Connect(cfg.NatsURL)
	if err != nil {
		zap.L().Error("nats connect failed: ", zap.Error(err))
		return fmt.Errorf("can't connect to nats: %w", err)
	}

	jwtService := auth.NewJWTService(cfg.JWTSecret)
	deps := service.Deps{
		JWT:            jwtService,
		Exchange:       auth.NewExchangeStore(a.redis, cfg.ExchangeTokenTTL),
		Files:          storage.NewHTTPStore(cfg.StorageURL, clients.NewHTTPClient()),
		SignupConnects: cfg.SignupConnects,
	}
	if a.nats != nil {
		deps.Bus = notify.NewBus(a.nats)
	} else {
		zap.L().Info("NATS_URL is empty, notifications are stored only")
	}

	conn := pg.New(pool)
	a.cfg = cfg
	a.repo = repo.New(conn, txManager)
	a.srv = service.New(a.repo, deps)
	a.api = handlers.New(a.srv, jwtService)
	a.sweeper = expiry.New(cfg, a.repo.LedgerRepo, txManager, a.srv.Notifier)

	a.sweeper.Start(ctx)

	if err = a.startHTTPServer(ctx); err != nil {
		return fmt.Errorf("can't start http server: %w", err)
	}

	a.ready = true
	zap.L().Info("all systems started successfully")
	return nil
}

func getPgxpool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	cfgpool, err := pgxpool.ParseConfig(cfg.Database)
	if err != nil {
		return nil, err
	}
	dbpool, err := pgxpool.NewWithConfig(ctx, cfgpool)
	if err != nil {
		return nil, err
	}
	if err = dbpool.Ping(ctx); err != nil {
		return nil, err
	}
	return dbpool, nil
}

func (a *Application) startHTTPServer(ctx context.Context) error {
	router := chi.NewRouter()
	a.api.InitRoutes(router)
	server := http.Server{
		Addr: a.cfg.Address,
		Handler: cors.New(cors.Options{
			AllowedOrigins:   a.cfg.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
		}).Handler(router),
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		<-ctx.Done()

		sCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(sCtx); err != nil {
			zap.L().Error("http server shutdown failed", zap.Error(err))
		}
		a.sweeper.Wait()
		a.release()
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		zap.L().Info("starting http server on port", zap.String("port", a.cfg.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.errCh <- fmt.Errorf("http server exited with error: %w", err)
		}
	}()

	return nil
}

// release closes external connections once no request can use them.
func (a *Application) release() {
	if a.nats != nil {
		if err := a.nats.Drain(); err != nil {
			zap.L().Warn("nats drain failed", zap.Error(err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			zap.L().Warn("redis close failed", zap.Error(err))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}

func (a *Application) Wait(ctx context.Context, cancel context.CancelFunc) error {
	var appErr error

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		for err := range a.errCh {
			cancel()
			zap.L().Error(err.Error())
			appErr = err
		}
	}()

	<-ctx.Done()
	a.wg.Wait()
	close(a.errCh)
	wg.Wait()

	return appErr
}
