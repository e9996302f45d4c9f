package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/careerhub/placement-hub/config"
	"github.com/careerhub/placement-hub/internal/application/command"
	"github.com/careerhub/placement-hub/internal/application/eventhandler"
	"github.com/careerhub/placement-hub/internal/application/query"
	"github.com/careerhub/placement-hub/internal/domain/placement"
	"github.com/careerhub/placement-hub/internal/domain/shared"
	"github.com/careerhub/placement-hub/internal/infrastructure/idgen"
	"github.com/careerhub/placement-hub/internal/infrastructure/lock"
	"github.com/careerhub/placement-hub/internal/infrastructure/messaging"
	"github.com/careerhub/placement-hub/internal/infrastructure/persistence/memory"
	"github.com/careerhub/placement-hub/internal/infrastructure/persistence/postgres"
	"github.com/careerhub/placement-hub/internal/infrastructure/persistence/redis"
	"github.com/careerhub/placement-hub/internal/infrastructure/seed"
	"github.com/careerhub/placement-hub/pkg/circuitbreaker"
	"github.com/careerhub/placement-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// APPLICATION CONTAINER
// ══════════════════════════════════════════════════════════════════════════════

// App holds every wired component a CLI command or the worker needs.
type App struct {
	Log   *logger.Logger
	Store placement.UnitOfWorkFactory
	Clock placement.Clock

	Commands *command.Handlers
	Queries  Queries

	// Audit counts published events; used by demo output and tests.
	Audit *eventhandler.AuditLog

	// Migrator is nil unless the postgres driver is configured.
	Migrator *postgres.Migrator

	// Checks holds connectivity probes for external backends, by name.
	Checks map[string]func(ctx context.Context) error

	closers []func()
}

// Queries groups the read side.
type Queries struct {
	Available       *query.AvailableInternshipsHandler
	MyApplications  *query.MyApplicationsHandler
	CompanyPostings *query.CompanyPostingsHandler
	PostingApps     *query.PostingApplicationsHandler
	Staff           *query.StaffQueries
}

// Build wires the application according to cfg. The caller must Close the
// returned App.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if log == nil {
		log = logger.Nop()
	}

	app := &App{Log: log, Clock: cfg.Zone(), Checks: map[string]func(context.Context) error{}}
	ok := false
	defer func() {
		if !ok {
			app.Close()
		}
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// Storage
	// ─────────────────────────────────────────────────────────────────────────
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		conn, err := postgres.NewConnection(ctx, postgres.Config{
			URL:               cfg.Database.URL,
			MaxConns:          cfg.Database.MaxConns,
			MinConns:          cfg.Database.MinConns,
			MaxConnLifetime:   cfg.Database.MaxConnLifetime,
			MaxConnIdleTime:   cfg.Database.MaxConnIdleTime,
			HealthCheckPeriod: postgres.DefaultConfig().HealthCheckPeriod,
			ConnectTimeout:    cfg.Database.ConnectTimeout,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		app.closers = append(app.closers, conn.Close)
		app.Store = postgres.NewStore(conn)
		app.Migrator = postgres.NewMigrator(conn)
		app.Checks["postgres"] = conn.Ping
	default:
		app.Store = memory.NewStore()
	}

	// ─────────────────────────────────────────────────────────────────────────
	// Redis (locks and event mirror)
	// ─────────────────────────────────────────────────────────────────────────
	var rdb *redis.Client
	if cfg.NeedsRedis() {
		rc := redis.DefaultConfig()
		rc.Addr = cfg.Redis.Addr
		rc.Password = cfg.Redis.Password
		rc.DB = cfg.Redis.DB
		rc.PoolSize = cfg.Redis.PoolSize
		rc.MinIdleConns = cfg.Redis.MinIdleConns
		rc.DialTimeout = cfg.Redis.DialTimeout
		rc.ReadTimeout = cfg.Redis.ReadTimeout
		rc.WriteTimeout = cfg.Redis.WriteTimeout

		var err error
		rdb, err = redis.NewClient(ctx, rc, log)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, func() { _ = rdb.Close() })
		app.Checks["redis"] = rdb.Ping
	}

	var locker placement.Locker = lock.NewKeyed()
	if cfg.Locking.Driver == config.LockingRedis {
		rl, err := redis.NewLocker(redis.LockerConfig{
			Client:         rdb.Redis(),
			TTL:            cfg.Locking.TTL,
			AcquireTimeout: cfg.Locking.AcquireTimeout,
			Logger:         log,
		})
		if err != nil {
			return nil, err
		}
		locker = rl
	}

	var ids shared.IDGenerator = idgen.NewSequence()
	if cfg.IDs.Strategy == config.IDsUUID {
		ids = idgen.UUID{}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// Events
	// ─────────────────────────────────────────────────────────────────────────
	busCfg := messaging.DefaultInMemoryEventBusConfig()
	busCfg.AsyncMode = cfg.Events.Async
	busCfg.WorkerPoolSize = cfg.Events.Workers
	busCfg.Logger = log
	bus := messaging.NewInMemoryEventBus(busCfg)
	app.closers = append(app.closers, func() { _ = bus.Close() })

	app.Audit = eventhandler.NewAuditLog(log)
	if err := app.Audit.Register(bus); err != nil {
		return nil, fmt.Errorf("register audit log: %w", err)
	}

	if cfg.Events.RedisEnabled {
		breaker := circuitbreaker.EventMirrorBreaker(func(name string, from, to circuitbreaker.State) {
			log.Warn("event mirror breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		})
		pub, err := messaging.NewRedisPublisher(messaging.RedisPublisherConfig{
			Client:  rdb.Redis(),
			Channel: cfg.Events.Channel,
			Timeout: cfg.Events.Timeout,
			Breaker: breaker,
			Logger:  log,
		})
		if err != nil {
			return nil, err
		}
		if err := bus.SubscribeAll(pub.Handle); err != nil {
			return nil, fmt.Errorf("register redis publisher: %w", err)
		}
	}

	app.wire(locker, ids, bus)
	ok = true
	return app, nil
}

// NewMemoryApp wires an isolated in-memory application: local locks,
// sequence ids and a synchronous event bus.
func NewMemoryApp(log *logger.Logger, clock placement.Clock) (*App, error) {
	if log == nil {
		log = logger.Nop()
	}
	bus := messaging.NewInMemoryEventBus(messaging.InMemoryEventBusConfig{Logger: log})
	app := &App{
		Log:     log,
		Store:   memory.NewStore(),
		Clock:   clock,
		Audit:   eventhandler.NewAuditLog(log),
		closers: []func(){func() { _ = bus.Close() }},
	}
	if err := app.Audit.Register(bus); err != nil {
		return nil, err
	}
	app.wire(lock.NewKeyed(), idgen.NewSequence(), bus)
	return app, nil
}

func (a *App) wire(locker placement.Locker, ids shared.IDGenerator, events shared.EventPublisher) {
	a.Commands = command.NewHandlers(command.Deps{
		Store:  a.Store,
		Locker: locker,
		IDs:    ids,
		Events: events,
		Clock:  a.Clock,
		Log:    a.Log,
	})

	repos := a.Store.Reader()
	a.Queries = Queries{
		Available:       query.NewAvailableInternshipsHandler(repos, a.Clock),
		MyApplications:  query.NewMyApplicationsHandler(repos),
		CompanyPostings: query.NewCompanyPostingsHandler(repos),
		PostingApps:     query.NewPostingApplicationsHandler(repos),
		Staff:           query.NewStaffQueries(repos),
	}
}

// Seed loads a YAML seed file into the store.
func (a *App) Seed(ctx context.Context, path string) (seed.Report, error) {
	f, err := seed.Load(path)
	if err != nil {
		return seed.Report{}, err
	}
	return seed.NewSeeder(a.Store, a.Commands, a.Log).Apply(ctx, f)
}

// Close releases connections in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
