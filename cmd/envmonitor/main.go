package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aouyang1/go-envmonitor"
	"github.com/aouyang1/go-envmonitor/catalog"
	"github.com/aouyang1/go-envmonitor/config"
	"github.com/aouyang1/go-envmonitor/dataset"
	"github.com/aouyang1/go-envmonitor/forecast"
	"github.com/aouyang1/go-envmonitor/logging"
	"github.com/aouyang1/go-envmonitor/server"
	"github.com/aouyang1/go-envmonitor/store"
	"github.com/gin-gonic/gin"
	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel, cfg.Environment)
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	if p := startProfile(cfg.Profile); p != nil {
		defer p.Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Error("envmonitor stopped")
		stop()
		os.Exit(1)
	}
}

func startProfile(cfg config.ProfileConfig) interface{ Stop() } {
	switch cfg.Mode {
	case "cpu":
		return profile.Start(profile.CPUProfile, profile.ProfilePath(cfg.Path), profile.NoShutdownHook)
	case "mem":
		return profile.Start(profile.MemProfile, profile.ProfilePath(cfg.Path), profile.NoShutdownHook)
	default:
		return nil
	}
}

func run(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	table, err := dataset.Load(cfg.Data.Path, &dataset.Options{Location: cfg.Location()})
	if err != nil {
		return err
	}
	overview := table.Overview()
	log.WithFields(logrus.Fields{
		"path":  cfg.Data.Path,
		"rows":  overview.Rows,
		"start": overview.Start,
		"end":   overview.End,
	}).Info("historical data loaded")

	cat := catalog.Default()
	for _, name := range cat.Names() {
		if !table.HasColumn(name) {
			log.WithField("parameter", name).Warn("parameter has no column in historical data")
		}
	}

	models := store.New(cfg.Models.Dir, &store.Options{
		Naming: store.Naming{
			Separator: cfg.Models.Separator,
			Suffix:    cfg.Models.Suffix,
			Extension: cfg.Models.Extension,
		},
		Cache:  cfg.Models.Cache,
		Logger: log,
	})
	var missing int
	for _, name := range cat.Names() {
		if !models.Exists(name) {
			missing++
		}
	}
	log.WithFields(logrus.Fields{
		"dir":     models.Dir(),
		"missing": missing,
	}).Info("model store ready")

	engine := forecast.New(table, models, cat, &forecast.Options{
		Step:   cfg.StepDuration(),
		Logger: log,
	})

	dash := envmonitor.New(engine, cat, envmonitor.NewSelection(), &envmonitor.Options{
		Horizon:            cfg.Forecast.Horizon,
		ProjectToTarget:    cfg.Prediction.ProjectToTarget,
		MaxProjectionSteps: cfg.Prediction.MaxProjectionSteps,
		PanelHeight:        cfg.Chart.PanelHeight,
		Logger:             log,
	})

	srv, err := server.New(dash, engine, models, table, &server.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Developer: server.Developer{
			Name:        cfg.Developer.Name,
			Affiliation: cfg.Developer.Affiliation,
			Phone:       cfg.Developer.Phone,
			Email:       cfg.Developer.Email,
			LinkedIn:    cfg.Developer.LinkedIn,
			GitHub:      cfg.Developer.GitHub,
		},
		Location: cfg.Location(),
		Logger:   log,
	})
	if err != nil {
		return err
	}
	return srv.Run(ctx, fmt.Sprintf(":%d", cfg.Server.Port))
}
