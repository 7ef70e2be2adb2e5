package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/smartmed/doctor-portal/internal/api"
	"github.com/smartmed/doctor-portal/internal/api/handler"
	"github.com/smartmed/doctor-portal/internal/api/metrics"
	"github.com/smartmed/doctor-portal/internal/core/domain"
	"github.com/smartmed/doctor-portal/internal/core/ports"
	"github.com/smartmed/doctor-portal/internal/core/service"
	"github.com/smartmed/doctor-portal/internal/infrastructure/db/memory"
	"github.com/smartmed/doctor-portal/internal/infrastructure/db/mongo"
	"github.com/smartmed/doctor-portal/internal/infrastructure/db/redis"
	"github.com/smartmed/doctor-portal/internal/infrastructure/db/sqlite"
	"github.com/smartmed/doctor-portal/internal/infrastructure/queue"
	"github.com/smartmed/doctor-portal/internal/infrastructure/storage"
	"github.com/smartmed/doctor-portal/internal/pkg/config"
	"github.com/smartmed/doctor-portal/pkg/logger"
)

const (
	shutdownTimeout  = 10 * time.Second
	auditRingSize    = 1000
	sweepEveryFactor = 4
)

// portalRepos bundles the portal data repositories of one backend.
type portalRepos struct {
	patients     ports.PatientRepository
	alerts       ports.AlertRepository
	appointments ports.AppointmentRepository
	audit        ports.AuditRepository
}

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "doctor-portal",
		Env:     cfg.Env,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	healthDeps := make(map[string]handler.Pinger)

	// --- Session blob storage ---
	blobs, redisClient, closeBlobs := openBlobStorage(ctx, cfg, log, healthDeps)
	defer closeBlobs()

	// --- Directory and portal data ---
	var (
		directory ports.DirectoryService
		repos     portalRepos
		dedup     service.AuditDeduper
	)
	if cfg.DemoMode() {
		log.Info().Msg("MONGO_URI not set, running in demo mode with the built-in allow-list")
		data := memory.Seed(time.Now())
		repos = portalRepos{
			patients:     memory.NewPatientRepository(data.Patients),
			alerts:       memory.NewAlertRepository(data.Alerts),
			appointments: memory.NewAppointmentRepository(data.Appointments),
			audit:        memory.NewAuditRepository(logger.Component("audit_log"), auditRingSize),
		}
	} else {
		client, db := connectMongo(ctx, cfg, log)
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = client.Disconnect(dctx)
		}()
		healthDeps["mongodb"] = handler.PingFunc(func(ctx context.Context) error { return client.Ping(ctx, nil) })

		doctors := mongo.NewDoctorRepository(db)
		if err := doctors.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to create doctor indexes")
		}
		directory = service.NewDirectoryService(doctors)

		alerts := mongo.NewAlertRepository(db)
		if err := alerts.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to create alert indexes")
		}
		data := memory.Seed(time.Now())
		if err := mongo.SeedPortal(ctx, db, data.Patients, data.Alerts, data.Appointments); err != nil {
			log.Fatal().Err(err).Msg("failed to seed portal data")
		}
		repos = portalRepos{
			patients:     mongo.NewPatientRepository(db),
			alerts:       alerts,
			appointments: mongo.NewAppointmentRepository(db),
			audit:        mongo.NewAuditRepository(db),
		}
	}
	if redisClient != nil {
		dedup = redis.NewAuditDeduper(redisClient, 0)
	}

	// --- Audit trail ---
	auditService := service.NewAuditService(repos.audit, dedup, log)
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, auditService, log, queue.WithDropHook(metrics.AuditEventDropped))
	auditCtx, cancelAudit := context.WithCancel(context.Background())
	dispatcher.Start(auditCtx)
	auditor := service.NewAuditor(dispatcher)

	// --- Sessions ---
	allowList := domain.DefaultAllowList()
	var remote ports.RemoteAuth
	storeOpts := []service.SessionStoreOption{service.WithLoadTimeout(cfg.Session.LoadTimeout)}
	if directory != nil {
		remote = directory
		storeOpts = append(storeOpts, service.WithRemoteSignOut(directory))
	}
	authenticator := service.NewDefaultAuthenticator(
		service.NewAllowListStrategy(allowList),
		service.NewRemoteStrategy(remote, cfg.Session.RemoteTimeout),
		log,
	)
	registry := service.NewSessionRegistry(storage.PerContext(blobs), authenticator, log, storeOpts...)
	registry.Subscribe(auditor.Listener())
	registry.Subscribe(metrics.TransitionListener)

	go sweep(ctx, registry, cfg.Session.RegistryIdle)

	// --- HTTP ---
	e := api.NewRouter(api.RouterDeps{
		Log:               log,
		Registry:          registry,
		Portal:            service.NewPortalService(repos.patients, repos.alerts, repos.appointments, log),
		Directory:         directory,
		Auditor:           auditor,
		DemoAccounts:      allowList,
		HealthDeps:        healthDeps,
		ContextSecret:     []byte(cfg.Context.Secret),
		ContextTTL:        cfg.Context.TTL,
		GuardWait:         cfg.Session.GuardWait,
		MetricsRegisterer: prometheus.DefaultRegisterer,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Str("storage", cfg.Storage.Driver).Msg("doctor portal listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}

	cancelAudit()
	dispatcher.Wait()
	log.Info().Msg("shutdown complete")
}

// openBlobStorage selects the session blob backend named by STORAGE_DRIVER.
// The Redis client is returned for the redis driver only.
func openBlobStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger, health map[string]handler.Pinger) (ports.BlobStorage, *goredis.Client, func()) {
	switch cfg.Storage.Driver {
	case config.StorageSQLite:
		db, err := sqlite.Open(ctx, sqlite.Config{Path: cfg.Storage.SQLitePath})
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Storage.SQLitePath).Msg("failed to open sqlite")
		}
		blobs := sqlite.NewBlobStorage(db)
		health["sqlite"] = blobs
		return blobs, nil, closer(log, "sqlite", db)

	case config.StorageRedis:
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("failed to connect to redis")
		}
		blobs := redis.NewBlobStorage(client)
		health["redis"] = blobs
		return blobs, client, closer(log, "redis", client)

	default:
		return memory.NewBlobStorage(), nil, func() {}
	}
}

func connectMongo(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*mongodriver.Client, *mongodriver.Database) {
	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	return client, db
}

func closer(log zerolog.Logger, name string, c io.Closer) func() {
	return func() {
		if err := c.Close(); err != nil {
			log.Error().Err(err).Str("backend", name).Msg("close failed")
		}
	}
}

// sweep drops idle session stores until ctx is done.
func sweep(ctx context.Context, registry *service.SessionRegistry, idle time.Duration) {
	if idle <= 0 {
		return
	}
	ticker := time.NewTicker(idle / sweepEveryFactor)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			registry.Sweep(idle)
			metrics.SessionStoresActive.Set(float64(registry.Len()))
		}
	}
}
