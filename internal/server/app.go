// Package server wires configuration, storage, the auth service and the HTTP
// API together and runs them until the process is asked to stop.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/learnpoke/internal/cryptox"
	"github.com/dmitrijs2005/learnpoke/internal/logging"
	"github.com/dmitrijs2005/learnpoke/internal/server/auth"
	"github.com/dmitrijs2005/learnpoke/internal/server/config"
	"github.com/dmitrijs2005/learnpoke/internal/server/httpapi"
	"github.com/dmitrijs2005/learnpoke/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/learnpoke/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const closeTimeout = 5 * time.Second

type App struct {
	config      *config.Config
	logger      logging.Logger
	repoManager repomanager.RepositoryManager
	httpServer  *httpapi.HTTPServer
}

// NewApp validates cfg, opens the credential store, prepares its schema and
// builds the HTTP server. A missing signing secret fails with
// common.ErrConfigurationMissing before any connection is made.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.New(cfg.LogFormat, os.Stdout)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rm, err := repomanager.New(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close(ctx)
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	secret := []byte(cfg.SecretKey)

	issuer, err := auth.NewTokenIssuer(secret, cfg.AccessTokenValidityDuration)
	if err != nil {
		_ = rm.Close(ctx)
		return nil, err
	}

	validator, err := auth.NewTokenValidator(secret)
	if err != nil {
		_ = rm.Close(ctx)
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	hasher := cryptox.NewPBKDF2Hasher(cfg.PasswordSalt, cfg.PasswordIterations)
	as := services.NewAuthService(rm.Users(), hasher, issuer, logger, services.NewMetrics(reg))
	hs := httpapi.NewHTTPServer(cfg.EndpointAddrHTTP, logger, as, validator, reg)

	return &App{config: cfg, logger: logger, repoManager: rm, httpServer: hs}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	if err := app.httpServer.Run(ctx); err != nil {
		app.logger.Error(ctx, "HTTP server failed", "error", err)
		cancelFunc()
		return err
	}
	return nil
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// closes the store connection.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		runErr = app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := app.repoManager.Close(closeCtx); err != nil {
		app.logger.Error(closeCtx, "Closing store failed", "error", err)
	}

	app.logger.Info(closeCtx, "App stopped")

	return runErr
}
