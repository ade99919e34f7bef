package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/liut/cryptopulse/htdocs"
	"github.com/liut/cryptopulse/pkg/services/backend"
	"github.com/liut/cryptopulse/pkg/services/dashboard"
	"github.com/liut/cryptopulse/pkg/services/stores"
	"github.com/liut/cryptopulse/pkg/settings"
	"github.com/liut/cryptopulse/pkg/web"
)

func main() {
	app := &cli.App{
		Name:    "cryptopulse",
		Usage:   "crypto analysis dashboard",
		Version: settings.Current.Version,
		Before: func(c *cli.Context) error {
			initLogger()
			return nil
		},
		Action: runWeb,
		Commands: []*cli.Command{
			{
				Name:   "web",
				Usage:  "run the dashboard http server",
				Action: runWeb,
			},
			{
				Name:  "usage",
				Usage: "show usage of environment settings",
				Action: func(c *cli.Context) error {
					return settings.Usage()
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		zap.S().Infow("run fail", "err", err)
		os.Exit(1)
	}
}

func initLogger() {
	var zlogger *zap.Logger
	if settings.InDevelop() {
		zlogger, _ = zap.NewDevelopment()
	} else {
		zlogger, _ = zap.NewProduction()
	}
	zap.ReplaceGlobals(zlogger)
}

func runWeb(c *cli.Context) error {
	sugar := zap.S()
	cfg := settings.Current

	preset, err := stores.LoadPreset()
	if err != nil {
		sugar.Infow("preset not loaded, use defaults", "err", err)
	}
	bc := backend.New(cfg.BackendURL,
		backend.WithTimeout(cfg.BackendTimeout),
		backend.WithSurveyTimeout(cfg.SurveyTimeout),
	)
	sugar.Infow("backend", "url", bc.BaseURL())

	srv, err := web.New(web.Config{
		Addr:       cfg.HTTPListen,
		Debug:      settings.InDevelop(),
		Docs:       htdocs.FS(),
		Store:      stores.Sgt(),
		Controller: dashboard.New(bc, preset.DefaultTicker),
		Preset:     preset,
		Cookie: web.CookieConfig{
			Name:   cfg.CookieName,
			Path:   cfg.CookiePath,
			Domain: cfg.CookieDomain,
			MaxAge: cfg.CookieMaxAge,
		},
		RateLimit: cfg.RateLimit,
		Version:   cfg.Version,
	})
	if err != nil {
		return err
	}

	idleClosed := make(chan struct{})
	ctx := context.Background()
	go func() {
		quit := make(chan os.Signal, 2)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		sugar.Info("shuting down server...")
		sctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := srv.Stop(sctx); err != nil {
			sugar.Infow("server shutdown:", "err", err)
		}
		close(idleClosed)
	}()

	if err := srv.Serve(ctx); err != nil {
		sugar.Infow("serve fail", "err", err)
		return err
	}

	<-idleClosed
	return nil
}
