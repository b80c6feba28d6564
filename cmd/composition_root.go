package cmd

import (
	"log/slog"
	"time"

	"curbside/internal/adapters/in/ws"
	"curbside/internal/adapters/out/memory"
	"curbside/internal/adapters/out/notify"
	"curbside/internal/adapters/out/postgres"
	redisadapter "curbside/internal/adapters/out/redis"
	"curbside/internal/core/application/eventing"
	"curbside/internal/core/application/usecases/commands"
	"curbside/internal/core/application/usecases/queries"
	"curbside/internal/core/ports"
	"curbside/internal/jobs"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CompositionRoot wires the application graph: one unit of work factory
// over the shared GORM connection, the realtime hub and notification
// dispatcher behind every command handler, and the live location cache in
// whichever backend the config selects.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	cache      ports.LocationCache
	// memoryCache is set only when no Redis address is configured; it is
	// the sweep target for the background job manager.
	memoryCache *memory.LocationCache
	hub         *ws.Hub
	dispatcher  *eventing.Dispatcher
	clock       commands.Clock
	logger      *slog.Logger
}

// NewCompositionRoot builds the graph from config. The Redis client is
// created lazily healthy: a bad address surfaces on first use, not here.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) *CompositionRoot {
	hub := ws.NewHub(logger)
	notifier := notify.NewHTTPNotifier(config.NotifyBaseURL, config.NotifyAPIKey, nil)

	root := &CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		hub:        hub,
		dispatcher: eventing.NewDispatcher(hub, notifier, logger),
		clock:      time.Now,
		logger:     logger,
	}

	if config.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     config.RedisAddr,
			Password: config.RedisPassword,
		})
		root.cache = redisadapter.NewLocationCache(client, redisadapter.DefaultTTL)
	} else {
		root.memoryCache = memory.NewLocationCache(memory.DefaultTTL, time.Now)
		root.cache = root.memoryCache
	}

	return root
}

func (c *CompositionRoot) CreateClaimJobCommandHandler() commands.ClaimJobCommandHandler {
	var f commands.JobUoWFactory = FuncJobUoWFactory(func() commands.JobUoW {
		return c.uowFactory.Create()
	})
	return commands.NewClaimJobCommandHandler(f, c.dispatcher, c.clock)
}

func (c *CompositionRoot) CreateCreateRouteCommandHandler() commands.CreateRouteCommandHandler {
	return commands.NewCreateRouteCommandHandler(c.createUoWFactory())
}

func (c *CompositionRoot) CreateStartRouteCommandHandler() commands.StartRouteCommandHandler {
	return commands.NewStartRouteCommandHandler(c.createUoWFactory(), c.dispatcher, c.clock)
}

func (c *CompositionRoot) CreateMarkArrivedCommandHandler() commands.MarkArrivedCommandHandler {
	return commands.NewMarkArrivedCommandHandler(c.createUoWFactory(), c.dispatcher, c.clock)
}

func (c *CompositionRoot) CreateCompleteStopCommandHandler() commands.CompleteStopCommandHandler {
	return commands.NewCompleteStopCommandHandler(c.createUoWFactory(), c.dispatcher, c.clock)
}

func (c *CompositionRoot) CreateSkipStopCommandHandler() commands.SkipStopCommandHandler {
	return commands.NewSkipStopCommandHandler(c.createUoWFactory(), c.dispatcher, c.clock)
}

func (c *CompositionRoot) CreateCompleteJobCommandHandler() commands.CompleteJobCommandHandler {
	return commands.NewCompleteJobCommandHandler(c.createUoWFactory(), c.dispatcher, c.clock)
}

func (c *CompositionRoot) CreateReportLocationCommandHandler() commands.ReportLocationCommandHandler {
	return commands.NewReportLocationCommandHandler(c.createUoWFactory(), c.cache, c.dispatcher, c.clock)
}

func (c *CompositionRoot) CreateQueuePositionQueryHandler() queries.QueuePositionQueryHandler {
	uow := c.uowFactory.Create()
	return queries.NewQueuePositionQueryHandler(uow.JobRepository(), uow.RouteRepository(), c.cache)
}

func (c *CompositionRoot) CreateGetActiveRouteQueryHandler() queries.GetActiveRouteQueryHandler {
	return queries.NewGetActiveRouteQueryHandler(c.gormDB)
}

// CreateJobManager returns the background job manager, or nil when the
// deployment has nothing to sweep (Redis expires cache entries itself).
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	if c.memoryCache == nil {
		return nil
	}
	return jobs.NewJobManager(c.memoryCache, c.logger)
}

// Hub exposes the realtime hub so the HTTP layer can mount the WebSocket
// endpoint and main can close it on shutdown.
func (c *CompositionRoot) Hub() *ws.Hub {
	return c.hub
}

func (c *CompositionRoot) createUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

type FuncJobUoWFactory func() commands.JobUoW

func (f FuncJobUoWFactory) Create() commands.JobUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
