package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aouyang1/go-envmonitor"
	"github.com/aouyang1/go-envmonitor/catalog"
	"github.com/aouyang1/go-envmonitor/dataset"
	"github.com/aouyang1/go-envmonitor/forecast"
	"github.com/aouyang1/go-envmonitor/store"
	"github.com/aouyang1/go-envmonitor/timedataset"
	"github.com/gin-gonic/gin"
)

const (
	noParametersWarning = "Please select at least one parameter to forecast."
	noGraphsWarning     = "No parameters selected for graphs."
	maxAPIHorizon       = 10080
)

var (
	dateLayouts = []string{"2006-01-02"}
	timeLayouts = []string{"15:04", "15:04:05"}
)

type parameterOption struct {
	catalog.Parameter
	ModelAvailable bool `json:"model_available"`
}

type predictionFormData struct {
	SelectAll  bool     `form:"select_all"`
	Parameters []string `form:"parameters"`
	Date       string   `form:"date"`
	Time       string   `form:"time"`
}

type historyResponse struct {
	T []time.Time `json:"time"`
	Y []float64   `json:"values"`
}

type forecastResponse struct {
	Parameter string            `json:"parameter"`
	History   historyResponse   `json:"history"`
	Forecast  *forecast.Results `json:"forecast"`
}

func (s *Server) parameterOptions() []parameterOption {
	params := s.dashboard.Catalog().Parameters()
	res := make([]parameterOption, 0, len(params))
	for _, p := range params {
		res = append(res, parameterOption{
			Parameter:      p,
			ModelAvailable: s.models != nil && s.models.Exists(p.Name),
		})
	}
	return res
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) about(c *gin.Context) {
	data := gin.H{
		"Section":    "about",
		"Parameters": s.dashboard.Catalog().Parameters(),
	}
	if s.history != nil {
		data["Overview"] = s.history.Overview()
	}
	c.HTML(http.StatusOK, "about.html", data)
}

func (s *Server) developer(c *gin.Context) {
	c.HTML(http.StatusOK, "developer.html", gin.H{
		"Section":   "developer",
		"Developer": s.opt.Developer,
	})
}

func (s *Server) renderPredictionPage(c *gin.Context, status int, form predictionFormData, summary *envmonitor.Summary, warning string) {
	now := time.Now().In(s.opt.Location)
	if form.Date == "" {
		form.Date = now.Format("2006-01-02")
	}
	if form.Time == "" {
		form.Time = now.Format("15:04")
	}
	c.HTML(status, "prediction.html", gin.H{
		"Section":    "prediction",
		"Parameters": s.parameterOptions(),
		"Form":       form,
		"Summary":    summary,
		"Warning":    warning,
	})
}

// predictionForm always renders a clean form.
func (s *Server) predictionForm(c *gin.Context) {
	s.renderPredictionPage(c, http.StatusOK, predictionFormData{}, nil, "")
}

func (s *Server) predict(c *gin.Context) {
	var form predictionFormData
	if err := c.ShouldBind(&form); err != nil {
		s.renderPredictionPage(c, http.StatusBadRequest, form, nil, err.Error())
		return
	}

	target, err := parseTarget(form.Date, form.Time, s.opt.Location)
	if err != nil {
		s.renderPredictionPage(c, http.StatusBadRequest, form, nil, err.Error())
		return
	}

	summary, err := s.dashboard.Predict(envmonitor.PredictionRequest{
		Parameters: form.Parameters,
		SelectAll:  form.SelectAll,
		Target:     target,
	})
	if errors.Is(err, envmonitor.ErrNoParameters) {
		s.renderPredictionPage(c, http.StatusBadRequest, form, nil, noParametersWarning)
		return
	}
	if err != nil {
		_ = c.Error(err)
		s.renderPredictionPage(c, http.StatusInternalServerError, form, nil, err.Error())
		return
	}
	s.renderPredictionPage(c, http.StatusOK, form, summary, "")
}

func (s *Server) graphForm(c *gin.Context) {
	selected, ok := s.dashboard.Selection().Get()
	c.HTML(http.StatusOK, "graph.html", gin.H{
		"Section":  "graph",
		"Selected": selected,
		"Fallback": !ok,
	})
}

func (s *Server) graph(c *gin.Context) {
	page, err := s.dashboard.Graphs(nil)
	if errors.Is(err, envmonitor.ErrNoParameters) {
		c.HTML(http.StatusBadRequest, "graph.html", gin.H{
			"Section": "graph",
			"Warning": noGraphsWarning,
		})
		return
	}
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, err.Error())
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := page.Render(c.Writer); err != nil {
		_ = c.Error(err)
	}
}

func (s *Server) listParameters(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"parameters": s.parameterOptions()})
}

func (s *Server) createPredictions(c *gin.Context) {
	var req envmonitor.PredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := s.dashboard.Predict(req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) getForecast(c *gin.Context) {
	parameter := c.Query("parameter")
	if parameter == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": envmonitor.ErrNoParameters.Error()})
		return
	}

	horizon := s.dashboard.Options().Horizon
	if raw := c.Query("horizon"); raw != "" {
		h, err := strconv.Atoi(raw)
		if err != nil || h <= 0 || h > maxAPIHorizon {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("horizon must be an integer between 1 and %d", maxAPIHorizon),
			})
			return
		}
		horizon = h
	}

	res, history, err := s.engine.Forecast(parameter, horizon)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, forecastResponse{
		Parameter: parameter,
		History:   newHistoryResponse(history),
		Forecast:  res,
	})
}

func newHistoryResponse(td *timedataset.TimeDataset) historyResponse {
	if td == nil {
		return historyResponse{T: []time.Time{}, Y: []float64{}}
	}
	return historyResponse{T: td.T, Y: td.Y}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, envmonitor.ErrNoParameters),
		errors.Is(err, forecast.ErrInvalidHorizon):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrUnknownParameter),
		errors.Is(err, dataset.ErrUnknownColumn),
		errors.Is(err, store.ErrModelNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// parseTarget combines the submitted date and time. Both empty means now.
func parseTarget(date, clock string, loc *time.Location) (time.Time, error) {
	date, clock = strings.TrimSpace(date), strings.TrimSpace(clock)
	if date == "" && clock == "" {
		return time.Time{}, nil
	}
	now := time.Now().In(loc)
	if date == "" {
		date = now.Format(dateLayouts[0])
	}
	if clock == "" {
		clock = now.Format(timeLayouts[0])
	}
	for _, dl := range dateLayouts {
		for _, tl := range timeLayouts {
			if t, err := time.ParseInLocation(dl+" "+tl, date+" "+clock, loc); err == nil {
				return t, nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q or time %q", date, clock)
}
