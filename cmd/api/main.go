package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"backend-teamugly/internal/config"
	"backend-teamugly/internal/db"
	"backend-teamugly/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const shutdownGrace = 5 * time.Second

var (
	bootstrapFn = defaultBootstrap
	startFn     = start
)

func main() {
	startFn(bootstrapFn())
}

// bootstrap collects everything start touches outside the process so tests
// can swap it.
type bootstrap struct {
	loadConfig   func() config.Config
	openPostgres func(config.Config) (*pgxpool.Pool, error)
	openRedis    func(config.Config) *redis.Client
	migrate      func(context.Context, *pgxpool.Pool) error
	notify       func(chan<- os.Signal, ...os.Signal)
	serve        func(context.Context, config.Config, backends, <-chan os.Signal, ListenFunc) error
}

func defaultBootstrap() bootstrap {
	return bootstrap{
		loadConfig:   config.Load,
		openPostgres: db.ConnectPostgres,
		openRedis:    db.ConnectRedis,
		migrate:      func(ctx context.Context, pool *pgxpool.Pool) error { return db.Migrate(ctx, pool) },
		notify:       signal.Notify,
		serve:        Serve,
	}
}

// backends are the optional stores. Either may be nil: store routes then
// fail per request and the feed delivers locally.
type backends struct {
	pg  *pgxpool.Pool
	rdb *redis.Client
}

func (b backends) querier() db.Querier {
	if b.pg == nil {
		return nil
	}
	return b.pg
}

func (b backends) close() {
	if b.pg != nil {
		b.pg.Close()
	}
	if b.rdb != nil {
		_ = b.rdb.Close()
	}
}

func start(boot bootstrap) {
	cfg := boot.loadConfig()

	pg, err := boot.openPostgres(cfg)
	if err != nil {
		log.Printf("postgres unavailable: %v", err)
	}
	if pg != nil && cfg.MigrateOnStart {
		if err := boot.migrate(context.Background(), pg); err != nil {
			log.Printf("schema migration failed: %v", err)
		}
	}

	stop := make(chan os.Signal, 1)
	boot.notify(stop, syscall.SIGINT, syscall.SIGTERM)

	log.Printf("%s listening on %s", cfg.AppTitle, cfg.ServerPort)
	if err := boot.serve(context.Background(), cfg, backends{pg: pg, rdb: boot.openRedis(cfg)}, stop, nil); err != nil {
		log.Printf("server stopped: %v", err)
	}
}

type ListenFunc func(app *fiber.App, addr string) error

var defaultListen ListenFunc = func(app *fiber.App, addr string) error {
	return app.Listen(addr)
}

var shutdownFn = func(app *fiber.App, ctx context.Context) error {
	return app.ShutdownWithContext(ctx)
}

// Serve runs the HTTP server until a stop signal, ctx cancellation or a
// listener failure, then drains in-flight requests and releases the stores.
func Serve(ctx context.Context, cfg config.Config, stores backends, stop <-chan os.Signal, listen ListenFunc) error {
	srv := server.NewServer(cfg, stores.querier(), stores.rdb)
	if listen == nil {
		listen = defaultListen
	}

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- listen(srv.App, cfg.ServerPort)
	}()

	select {
	case <-stop:
	case <-ctx.Done():
	case err := <-listenErr:
		if err != nil {
			return err
		}
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := shutdownFn(srv.App, drainCtx); err != nil {
		return err
	}
	stores.close()
	return nil
}
