// Package server initializes and runs the document broker: it wires the
// storage root, token service, session builder and callback processor
// together behind the HTTP API and handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/docbridge/internal/callback"
	"github.com/dmitrijs2005/docbridge/internal/logging"
	"github.com/dmitrijs2005/docbridge/internal/server/config"
	"github.com/dmitrijs2005/docbridge/internal/server/httpapi"
	"github.com/dmitrijs2005/docbridge/internal/session"
	"github.com/dmitrijs2005/docbridge/internal/storage"
	"github.com/dmitrijs2005/docbridge/internal/token"
)

type App struct {
	config *config.Config
	logger logging.Logger
	api    *httpapi.Server
}

func NewApp(c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	store, err := storage.New(c.StorageRoot, c.AllowedFileTypes, c.MaxUploadSize)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	tokens := token.NewService(c.SecretKey, c.TokenExpiry)

	sessions := session.NewBuilder(store, tokens, session.Options{
		BaseURL: c.BackendBaseURL,
		Lang:    c.EditorLang,
	}, logger)

	fetcher := callback.NewHTTPFetcher(c.FetchTimeout)
	processor := callback.NewProcessor(tokens, store, fetcher, session.DefaultFileType, logger)

	api := httpapi.NewServer(store, sessions, processor, c.DocumentServerURL, c.MaxUploadSize, logger)

	return &App{config: c, logger: logger, api: api}, nil
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

	srv := &http.Server{
		Addr:              app.config.EndpointAddrHTTP,
		Handler:           app.api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "http server shutdown error", "err", err.Error())
		}
	}()

	app.logger.Info(ctx, "http server listening", "addr", app.config.EndpointAddrHTTP)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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
