// Package server exposes the dashboard as html pages and a JSON API.
package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/aouyang1/go-envmonitor"
	"github.com/aouyang1/go-envmonitor/dataset"
	"github.com/aouyang1/go-envmonitor/logging"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templateFS embed.FS

const shutdownTimeout = 10 * time.Second

var templateFuncs = template.FuncMap{
	"contains": func(list []string, s string) bool {
		for _, v := range list {
			if v == s {
				return true
			}
		}
		return false
	},
	"datetime": func(t time.Time) string {
		return t.Format("2006-01-02 15:04:05")
	},
}

// ModelIndex reports whether a parameter has a persisted model.
type ModelIndex interface {
	Exists(parameter string) bool
}

// HistoryOverview summarizes the loaded historical table.
type HistoryOverview interface {
	Overview() dataset.Overview
}

// Developer is shown on the developer page.
type Developer struct {
	Name        string
	Affiliation string
	Phone       string
	Email       string
	LinkedIn    string
	GitHub      string
}

type Options struct {
	AllowedOrigins []string
	Developer      Developer

	// Location is used to interpret the date and time submitted on the prediction form.
	Location *time.Location
	Logger   logrus.FieldLogger
}

func NewDefaultOptions() *Options {
	return &Options{
		Location: time.UTC,
	}
}

type Server struct {
	dashboard *envmonitor.Dashboard
	engine    envmonitor.SeriesForecaster
	models    ModelIndex
	history   HistoryOverview
	opt       *Options
	log       logrus.FieldLogger
	router    *gin.Engine
}

// New wires the routes. models and history are optional.
func New(dashboard *envmonitor.Dashboard, engine envmonitor.SeriesForecaster, models ModelIndex, history HistoryOverview, opt *Options) (*Server, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	if opt.Location == nil {
		opt.Location = time.UTC
	}
	log := opt.Logger
	if log == nil {
		log = logging.Discard()
	}

	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		dashboard: dashboard,
		engine:    engine,
		models:    models,
		history:   history,
		opt:       opt,
		log:       log.WithField("component", "server"),
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.log))
	r.SetHTMLTemplate(tmpl)

	r.GET("/health", s.health)

	r.GET("/", s.about)
	r.GET("/developer", s.developer)
	r.GET("/prediction", s.predictionForm)
	r.POST("/prediction", s.predict)
	r.GET("/graph", s.graphForm)
	r.POST("/graph", s.graph)

	v1 := r.Group("/api/v1")
	if mw, ok := corsMiddleware(opt.AllowedOrigins); ok {
		v1.Use(mw)
	}
	{
		v1.GET("/parameters", s.listParameters)
		v1.POST("/predictions", s.createPredictions)
		v1.GET("/forecast", s.getForecast)
	}

	s.router = r
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
