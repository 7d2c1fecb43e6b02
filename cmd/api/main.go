// Command api serves the workforce REST API and its ops endpoints.
//
//	@title						Workforce API
//	@version					1.0
//	@description				Authentication, role-based access control and payroll breakdowns over companies, departments and employees.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/skroflin/workforce-api/internal/api"
	"github.com/skroflin/workforce-api/internal/core/auth"
	"github.com/skroflin/workforce-api/internal/core/payroll"
	"github.com/skroflin/workforce-api/internal/core/ports"
	"github.com/skroflin/workforce-api/internal/core/service"
	"github.com/skroflin/workforce-api/internal/infrastructure/config"
	mongodb "github.com/skroflin/workforce-api/internal/infrastructure/db/mongo"
	"github.com/skroflin/workforce-api/internal/infrastructure/db/postgres"
	redisdb "github.com/skroflin/workforce-api/internal/infrastructure/db/redis"
	infrahttp "github.com/skroflin/workforce-api/internal/infrastructure/http"
	"github.com/skroflin/workforce-api/internal/infrastructure/http/handlers"
	"github.com/skroflin/workforce-api/internal/infrastructure/queue"
	"github.com/skroflin/workforce-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// A missing .env file is fine outside local development.
	_ = godotenv.Load()

	if err := run(); err != nil {
		log := logger.Get()
		log.Fatal().Err(err).Msg("api exited")
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "workforce-api",
		Env:     cfg.Env,
	})
	ctx = logger.WithContext(ctx, log)

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer disconnect(log, "mongodb", func() error { return mongoClient.Disconnect(context.Background()) })

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		return err
	}
	defer disconnect(log, "redis", rdb.Close)

	companyRepo := mongodb.NewCompanyRepository(db)
	departmentRepo := mongodb.NewDepartmentRepository(db)
	employeeRepo := mongodb.NewEmployeeRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)
	ensurers := []mongodb.IndexEnsurer{companyRepo, departmentRepo, employeeRepo, auditRepo}

	checks := []handlers.DependencyCheck{handlers.MongoCheck(db), handlers.RedisCheck(rdb)}

	var identityRepo ports.IdentityRepository
	switch cfg.IdentityStore {
	case config.IdentityStorePostgres:
		pg, err := openPostgres(ctx, cfg.Postgres)
		if err != nil {
			return err
		}
		defer disconnect(log, "postgres", pg.Close)
		identityRepo = postgres.NewIdentityRepository(pg)
		checks = append(checks, handlers.PostgresCheck(pg))
	default:
		repo := mongodb.NewIdentityRepository(db)
		ensurers = append(ensurers, repo)
		identityRepo = repo
	}

	if err := mongodb.EnsureIndexes(ctx, ensurers...); err != nil {
		return err
	}

	// --- Core ---
	rates, err := config.LoadPayrollRates(cfg.PayrollRatesFile)
	if err != nil {
		return err
	}
	calculator, err := payroll.NewCalculator(rates)
	if err != nil {
		return err
	}

	tokens, err := auth.NewTokenAuthority(auth.Config{
		Secret: []byte(cfg.JWT.Secret),
		TTL:    cfg.JWT.TTL,
		Issuer: cfg.JWT.Issuer,
	}, identityRepo)
	if err != nil {
		return err
	}

	dispatcher := queue.NewAuditDispatcher(cfg.AuditWorkers, 0, auditRepo, log)
	dispatcher.Start(ctx)

	throttle := redisdb.NewLoginThrottle(rdb, int(cfg.Throttle.MaxAttempts), cfg.Throttle.Window)

	router := api.NewRouter(api.Dependencies{
		Log:           log,
		Tokens:        tokens,
		Audit:         dispatcher,
		Auth:          service.NewAuthService(identityRepo, tokens, throttle, dispatcher, log),
		Identities:    service.NewIdentityService(identityRepo, dispatcher, log),
		Companies:     service.NewCompanyService(companyRepo, log),
		Departments:   service.NewDepartmentService(departmentRepo, companyRepo, log),
		Employees:     service.NewEmployeeService(employeeRepo, departmentRepo, calculator, log),
		Payroll:       calculator,
		AuthRateLimit: cfg.AuthRateLimit,
	})
	ops := infrahttp.NewOpsRouter(checks...)

	// --- Serve ---
	errCh := make(chan error, 2)
	go serve(log, router, ":"+cfg.Port, "api", errCh)
	go serve(log, ops, ":"+cfg.OpsPort, "ops", errCh)

	select {
	case err = <-errCh:
		log.Error().Err(err).Msg("server failed, shutting down")
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for name, e := range map[string]*echo.Echo{"api": router, "ops": ops} {
		if serr := e.Shutdown(shutdownCtx); serr != nil {
			log.Error().Err(serr).Str("server", name).Msg("graceful shutdown failed")
		}
	}
	if derr := dispatcher.Shutdown(shutdownCtx); derr != nil {
		log.Error().Err(derr).Uint64("dropped", dispatcher.Dropped()).Msg("audit dispatcher did not drain")
	}

	log.Info().Msg("stopped")
	return err
}

func openPostgres(ctx context.Context, cfg config.PostgresConfig) (*sql.DB, error) {
	pg, err := postgres.Connect(ctx, postgres.Config{
		URL:             cfg.URL,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		ConnectAttempts: cfg.ConnectAttempts,
	})
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(pg); err != nil {
		_ = pg.Close()
		return nil, err
	}
	return pg, nil
}

func serve(log zerolog.Logger, e *echo.Echo, addr, name string, errCh chan<- error) {
	log.Info().Str("server", name).Str("addr", addr).Msg("listening")
	if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		errCh <- err
	}
}

func disconnect(log zerolog.Logger, name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		log.Warn().Err(err).Str("dependency", name).Msg("close failed")
	}
}
