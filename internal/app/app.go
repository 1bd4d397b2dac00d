package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/tournament-portal/internal/config"
	"github.com/riskibarqy/tournament-portal/internal/domain/event"
	"github.com/riskibarqy/tournament-portal/internal/infrastructure/account"
	"github.com/riskibarqy/tournament-portal/internal/infrastructure/blob"
	"github.com/riskibarqy/tournament-portal/internal/infrastructure/notify"
	"github.com/riskibarqy/tournament-portal/internal/infrastructure/scheduler"
	"github.com/riskibarqy/tournament-portal/internal/interfaces/httpapi"
	"github.com/riskibarqy/tournament-portal/internal/platform/cache"
	idgen "github.com/riskibarqy/tournament-portal/internal/platform/id"
	"github.com/riskibarqy/tournament-portal/internal/platform/logging"
	"github.com/riskibarqy/tournament-portal/internal/usecase"
)

// App owns the HTTP server and the background resources that must be
// released on shutdown.
type App struct {
	Server     *http.Server
	dispatcher *notify.Dispatcher
	reconciler *scheduler.Reconciler
	closeStore func() error
	logger     *logging.Logger
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	st, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a := &App{closeStore: closeStore, logger: logger}

	dispatcher, err := newDispatcher(ctx, cfg, logger)
	if err != nil {
		a.release()
		return nil, fmt.Errorf("build notification dispatcher: %w", err)
	}
	a.dispatcher = dispatcher

	tokens, err := account.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL, cfg.ResetTokenTTL)
	if err != nil {
		a.release()
		return nil, fmt.Errorf("build token service: %w", err)
	}

	ids := idgen.NewUUIDGenerator()
	blobs, err := blob.NewLocalStore(blob.LocalConfig{
		Dir:        cfg.UploadDir,
		PublicPath: cfg.UploadPublicPath,
		MaxBytes:   cfg.UploadMaxBytes,
	}, ids)
	if err != nil {
		a.release()
		return nil, fmt.Errorf("build upload store: %w", err)
	}

	var sportCache *cache.Store
	if cfg.CacheEnabled {
		sportCache = cache.NewStore(cfg.CacheTTL)
	}

	calendar := event.NewCalendar(cfg.Location)
	services := httpapi.Services{
		Auth:      usecase.NewAuthService(st, account.NewBcryptHasher(cfg.BcryptCost), tokens, ids, dispatcher, cfg.FrontendBaseURL, logger),
		Events:    usecase.NewEventService(st, calendar, ids, dispatcher, logger),
		Sports:    usecase.NewSportService(st, sportCache, ids, logger),
		Venues:    usecase.NewVenueService(st, ids),
		Teams:     usecase.NewTeamService(st, calendar, blobs, ids, dispatcher, logger),
		Matches:   usecase.NewMatchService(st, calendar, ids, dispatcher, logger),
		Standings: usecase.NewStandingsService(st, ids, logger),
	}

	if cfg.AdminEmail != "" {
		created, err := services.Auth.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			a.release()
			return nil, fmt.Errorf("ensure bootstrap admin: %w", err)
		}
		if created {
			logger.Info("bootstrap admin created", "email", cfg.AdminEmail)
		}
	}

	if cfg.ReconcilerEnabled {
		reconciler, err := scheduler.NewReconciler(services.Events, cfg.ReconcilerInterval, logger)
		if err != nil {
			a.release()
			return nil, fmt.Errorf("build registration reconciler: %w", err)
		}
		a.reconciler = reconciler
	}

	handler := httpapi.NewHandler(services, st, calendar, cfg.UploadMaxBytes, logger)
	router := httpapi.NewRouter(handler, tokens, logger, httpapi.RouterConfig{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		UploadDir:          blobs.Dir(),
		UploadPublicPath:   blobs.PublicPath(),
	})

	a.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return a, nil
}

// Start launches background jobs. The HTTP server is started by the caller.
func (a *App) Start() {
	if a.reconciler != nil {
		a.reconciler.Start()
	}
}

// Shutdown stops the server first so no new notifications are queued, then
// drains the dispatcher and closes the store.
func (a *App) Shutdown(ctx context.Context) error {
	var firstErr error
	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			firstErr = err
		}
	}
	if a.reconciler != nil {
		if err := a.reconciler.Stop(); err != nil {
			a.logger.Warn("stop registration reconciler", "error", err)
		}
	}
	a.release()
	return firstErr
}

func (a *App) release() {
	if a.dispatcher != nil {
		timeout := 10 * time.Second
		if err := a.dispatcher.Close(timeout); err != nil {
			a.logger.Warn("close notification dispatcher", "error", err)
		}
		a.dispatcher = nil
	}
	if a.closeStore != nil {
		if err := a.closeStore(); err != nil {
			a.logger.Warn("close store", "error", err)
		}
		a.closeStore = nil
	}
}
