package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gitea.com/go-chi/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/blogem/registry-api/authenticator"
	"github.com/blogem/registry-api/config"
	"github.com/blogem/registry-api/controllers"
	"github.com/blogem/registry-api/database"
	authmiddleware "github.com/blogem/registry-api/middleware"
	"github.com/blogem/registry-api/models"
	"github.com/blogem/registry-api/repositories"
	"github.com/blogem/registry-api/services"
)

func main() {
	if err := run(); err != nil {
		slog.Error("registry-api stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := config.NewLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.Initialize(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	repos := repositories.NewRepositories(db)

	// Initialize services
	srvs := services.NewServices(db, repos)

	// Initialize controllers
	schemas, err := models.NewSchemas()
	if err != nil {
		return fmt.Errorf("failed to compile request schemas: %w", err)
	}
	ctrl := controllers.NewControllers(srvs, schemas, db)

	// Initialize OpenID Connect provider when configured
	var auth authenticator.Provider
	if cfg.Auth.Enabled() {
		auth, err = authenticator.NewOpenIDProvider(ctx, authenticator.Config{
			IssuerURL:    cfg.Auth.IssuerURL,
			ClientID:     cfg.Auth.ClientID,
			ClientSecret: cfg.Auth.ClientSecret,
			RedirectURL:  cfg.Auth.CallbackURL,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize OpenID provider: %w", err)
		}
	} else {
		logger.Warn("authentication disabled, mutations are recorded as anonymous")
	}

	// Set up router
	r, err := setupRouter(ctx, cfg, logger, ctrl, auth)
	if err != nil {
		return fmt.Errorf("failed to setup router: %w", err)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("registry-api starting",
			slog.String("addr", srv.Addr),
			slog.String("driver", cfg.Database.Driver),
			slog.Bool("auth", auth != nil),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// setupRouter configures all routes. Mutating routes and the audit log
// require a signed-in user when auth is non-nil.
func setupRouter(ctx context.Context, cfg *config.Config, logger *slog.Logger, ctrl *controllers.Controllers, auth authenticator.Provider) (*chi.Mux, error) {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RealIP)
	r.Use(authmiddleware.RequestID)
	r.Use(authmiddleware.RequestLogger(logger))
	r.Use(authmiddleware.Recoverer(logger))
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	if cfg.RateLimit.RPS > 0 {
		r.Use(authmiddleware.NewRateLimiter(ctx, cfg.RateLimit.RPS, cfg.RateLimit.Burst).Middleware)
	}

	// Session middleware
	sessionHandler, err := session.Sessioner(session.Options{
		Provider:       "memory",
		ProviderConfig: "",
		CookieName:     "registry_session",
		Secure:         cfg.Auth.UseHTTPS,
		Gclifetime:     3600,
		Maxlifetime:    3600,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}
	r.Use(sessionHandler)
	r.Use(authmiddleware.AuditActor)

	protect := func(r chi.Router) {
		if auth != nil {
			r.Use(authmiddleware.RequireAuth)
		}
	}

	// PUBLIC ROUTES
	r.Get("/", ctrl.Index.Index)
	r.Get("/health", ctrl.Index.Health)
	if auth != nil {
		r.Get("/login", ctrl.Auth.Login(auth))
		r.Get("/callback", ctrl.Auth.Callback(auth))
		r.Get("/logout", ctrl.Auth.Logout)
	}

	// Record routes, one block per kind
	for _, rc := range ctrl.Records {
		r.Route(rc.Path(), func(r chi.Router) {
			r.Get("/", rc.List)
			r.Get("/{id}", rc.Get)

			r.Group(func(r chi.Router) {
				protect(r)
				r.Post("/", rc.Create)
				r.Put("/{id}", rc.Update)
				r.Patch("/{id}", rc.Update)
				r.Delete("/{id}", rc.Delete)
			})
		})
	}

	// Audit log
	r.Route("/logs", func(r chi.Router) {
		protect(r)
		r.Get("/", ctrl.Audit.List)
		r.Get("/{id}", ctrl.Audit.Get)
	})

	return r, nil
}
