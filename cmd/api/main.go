package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/ryankolean/rarefindtalent/internal/auth"
	"github.com/ryankolean/rarefindtalent/internal/clientstate"
	"github.com/ryankolean/rarefindtalent/internal/config"
	"github.com/ryankolean/rarefindtalent/internal/database"
	"github.com/ryankolean/rarefindtalent/internal/form"
	"github.com/ryankolean/rarefindtalent/internal/handler"
	"github.com/ryankolean/rarefindtalent/internal/mailer"
	middlewarepkg "github.com/ryankolean/rarefindtalent/internal/middleware"
	"github.com/ryankolean/rarefindtalent/internal/notify"
	"github.com/ryankolean/rarefindtalent/internal/repository"
	"github.com/ryankolean/rarefindtalent/internal/router"
	"github.com/ryankolean/rarefindtalent/internal/service"
	"github.com/ryankolean/rarefindtalent/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer pool.Close()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	usersRepo := repository.NewPGXUsersRepository(pool)
	inquiriesRepo := repository.NewPGXInquiriesRepository(pool)
	subscribersRepo := repository.NewPGXSubscribersRepository(pool)

	state := clientStore(cfg.StatePath)

	// Inquiries go to the local database unless a hosted store is configured.
	var creator store.Creator = inquiriesRepo
	if cfg.StoreURL != "" {
		creator = store.NewRESTClient(nil, cfg.StoreURL, cfg.StoreAnonKey)
	}

	httpClient := &http.Client{Timeout: cfg.Submission.NotifyTimeout}
	var notifier form.Notifier
	if cfg.NotifyURL != "" {
		notifier = notify.NewDispatcher(httpClient, cfg.NotifyURL, cfg.NotifyAuthKey)
	}

	var mailSender mailer.Sender
	if cfg.ResendAPIKey != "" {
		mailSender = mailer.NewResendClient(httpClient, cfg.ResendAPIKey)
	}

	authService := service.NewAuthService(usersRepo, jwtManager)
	pricingService := service.NewPricingService()

	handlers := router.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Inquiries:  handler.NewInquiryHandler(creator, notifier, inquiriesRepo, state, cfg.Submission),
		Newsletter: handler.NewNewsletterHandler(subscribersRepo),
		Pricing:    handler.NewPricingHandler(pricingService),
		Notify:     handler.NewNotifyHandler(mailSender, cfg.FromEmail, cfg.OwnerEmail),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, jwtManager, handlers)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

// clientStore picks the draft/quota backend: file-backed when STATE_PATH is
// set so windows survive restarts, in-memory otherwise.
func clientStore(path string) clientstate.Store {
	if path == "" {
		return clientstate.NewMemoryStore()
	}
	store, err := clientstate.NewFileStore(path)
	if err != nil {
		log.Printf("falling back to in-memory client state: %v", err)
		return clientstate.NewMemoryStore()
	}
	return store
}
