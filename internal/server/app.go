// Package server initializes and runs the identity server. It wires the
// database, repositories, password hasher, notifier, and the HTTP API, and
// handles graceful shutdown on OS signals.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/skurlov/identsvc/internal/logging"
	"github.com/skurlov/identsvc/internal/server/config"
	"github.com/skurlov/identsvc/internal/server/httpapi"
	"github.com/skurlov/identsvc/internal/server/notify"
	"github.com/skurlov/identsvc/internal/server/password"
	"github.com/skurlov/identsvc/internal/server/repositories/repomanager"
	"github.com/skurlov/identsvc/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	authService *services.AuthService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := repomanager.Open(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	hasher := password.NewArgon2()
	notifier := notify.NewSMTPNotifier(cfg)

	authService := services.NewAuthService(db, rm, hasher, notifier, logger, cfg)

	return &App{config: cfg, logger: logger, authService: authService}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewServer(app.config.EndpointAddr, app.logger, app.authService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

}
