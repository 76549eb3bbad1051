package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"streamhub/config"
	"streamhub/handlers"
	"streamhub/internal/logging"
	"streamhub/internal/store"
	"streamhub/models"
	"streamhub/render"
	"streamhub/services/catalog"
	"streamhub/services/notify"
	"streamhub/services/playback"
	"streamhub/services/portal"
	"streamhub/services/sessions"
	"streamhub/services/sports"
	"streamhub/services/watchlist"
	"streamhub/utils"
	"streamhub/utils/filter"
)

const shutdownTimeout = 10 * time.Second

var globalFlags = []cli.Flag{
	&cli.StringFlag{Name: "config", Value: "streamhub.yaml", Usage: "settings file", EnvVars: []string{"STREAMHUB_CONFIG"}},
	&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
	&cli.StringFlag{Name: "log-file", Usage: "also write JSON logs to this rotated file"},
}

func main() {
	app := &cli.App{
		Name:  "streamhub",
		Usage: "StreamHub movie and live sports portal",
		Flags: globalFlags,
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Serve the portal",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Usage: "listen address"},
					&cli.BoolFlag{Name: "secure-cookies", Usage: "mark the session cookie Secure"},
				},
				Action: serve,
			},
			{
				Name:      "dump",
				Usage:     "Print one catalog listing as JSON",
				ArgsUsage: "<featured|trending|discover|search>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "page", Value: 1},
					&cli.StringFlag{Name: "genre"},
					&cli.StringFlag{Name: "year"},
					&cli.StringFlag{Name: "query"},
				},
				Action: dump,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadSettings reads .env, the settings file and the environment, then applies
// global flags. A bad settings file or override does not fail: defaults are
// used and the problem is returned as configErr for the caller to log.
func loadSettings(c *cli.Context) (settings config.Settings, configErr error, err error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return config.Settings{}, nil, fmt.Errorf("load .env: %w", err)
	}

	adapter := config.NewConfigAdapter(config.NewManager(c.String("config")), nil)
	settings = adapter.GetConfig()
	configErr = adapter.LastError()

	if v := c.String("log-level"); v != "" {
		settings.Log.Level = v
	}
	if v := c.String("log-file"); v != "" {
		settings.Log.File = v
	}
	return settings, configErr, nil
}

// newLogger builds the logger and reports a settings problem through it.
func newLogger(settings config.Settings, configErr error) (*zap.Logger, error) {
	logger, err := logging.New(settings.Log)
	if err != nil {
		return nil, err
	}
	if configErr != nil {
		logger.Warn("settings unusable, continuing with defaults", zap.Error(configErr))
	}
	return logger, nil
}

func serve(c *cli.Context) error {
	settings, configErr, err := loadSettings(c)
	if err != nil {
		return err
	}
	if v := c.String("addr"); v != "" {
		settings.Server.Addr = v
	}

	logger, err := newLogger(settings, configErr)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	kv, err := store.Open(settings.Storage, logger)
	if err != nil {
		return err
	}
	defer kv.Close()

	httpClient := &http.Client{Timeout: settings.Catalog.Timeout}
	loader := catalog.NewLoader(catalog.NewClient(settings.Catalog, httpClient, logger), logger)
	hub := notify.NewHub(logger)
	watchlistSvc := watchlist.NewService(kv, hub, logger)
	playbackSvc := playback.NewService(settings.Player, kv, logger)

	p := portal.New(loader, sports.NewService(nil, logger), watchlistSvc, playbackSvc, portal.Options{
		Images:   render.Images{Base: settings.Catalog.ImageBaseURL, Proxy: settings.Catalog.ProxyImages},
		Language: settings.Catalog.Language,
	}, logger)

	renderer, err := render.New()
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	visitors := sessions.NewManager(settings.Server.SessionTTL, p.NewState)
	visitors.SetSecureCookies(c.Bool("secure-cookies"))

	routes := handlers.Routes{
		Pages:         handlers.NewPagesHandler(p, renderer, visitors, logger),
		Catalog:       handlers.NewCatalogHandler(loader),
		Watchlist:     handlers.NewWatchlistHandler(p, watchlistSvc, visitors, logger),
		Playback:      handlers.NewPlaybackHandler(playbackSvc, visitors, logger),
		Debug:         handlers.NewDebugHandler(visitors, logger),
		Notifications: handlers.NewNotificationsHandler(hub, visitors),
		Admin:         handlers.NewAdminHandler(visitors, hub),
	}
	if settings.Catalog.ProxyImages {
		routes.Images = handlers.NewImageHandler(settings.Catalog.ImageBaseURL, httpClient, logger)
	}

	router := utils.NewRouter()
	handlers.Register(router, routes)

	var accessLog io.Writer = os.Stdout
	if settings.Log.AccessFile != "" {
		w := logging.RotatingWriter(settings.Log.AccessFile, settings.Log)
		defer w.Close()
		accessLog = w
	}

	var handler http.Handler = router
	handler = utils.CORS(settings.Server.AllowedOrigins)(handler)
	handler = gorillahandlers.CombinedLoggingHandler(accessLog, handler)
	handler = gorillahandlers.RecoveryHandler(
		gorillahandlers.RecoveryLogger(logging.RecoveryLogger{Logger: logger}),
	)(handler)

	srv := &http.Server{
		Addr:              settings.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// dump queries the provider directly, so failures surface instead of the fallback list.
func dump(c *cli.Context) error {
	category := models.Category(c.Args().First())
	if !category.Valid() {
		return fmt.Errorf("unknown category %q", c.Args().First())
	}

	settings, configErr, err := loadSettings(c)
	if err != nil {
		return err
	}
	logger, err := newLogger(settings, configErr)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	client := catalog.NewClient(settings.Catalog, &http.Client{Timeout: settings.Catalog.Timeout}, logger)
	filters := filter.Discover(models.Filters{Genre: c.String("genre"), Year: c.String("year")})
	filters.Query = c.String("query")

	items, err := client.List(c.Context, catalog.Query{Category: category, Page: c.Int("page"), Filters: filters})
	if err != nil {
		return err
	}
	if limit := catalog.Cap(category); limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}
