package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the metrics surface used by services.
type Recorder interface {
	RecipeCreated()
	RecipeDeleted()
	RatingRecorded(outcome string)
}

// Rating outcomes.
const (
	OutcomeAccepted     = "accepted"
	OutcomeAlreadyRated = "already_rated"
	OutcomeNotFound     = "not_found"
	OutcomeInvalid      = "invalid"
	OutcomeError        = "error"
)

// Collector records recipe and HTTP metrics on a prometheus registry.
type Collector struct {
	recipesCreated prometheus.Counter
	recipesDeleted prometheus.Counter
	ratings        *prometheus.CounterVec
	httpLatency    *prometheus.HistogramVec
}

var _ Recorder = (*Collector)(nil)

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		recipesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "recipebox_recipes_created_total",
			Help: "Recipes created.",
		}),
		recipesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "recipebox_recipes_deleted_total",
			Help: "Recipes deleted.",
		}),
		ratings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recipebox_ratings_total",
			Help: "Rating attempts by outcome.",
		}, []string{"outcome"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "recipebox_http_request_duration_seconds",
			Help:    "Latency of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(c.recipesCreated, c.recipesDeleted, c.ratings, c.httpLatency)
	return c
}

func (c *Collector) RecipeCreated() { c.recipesCreated.Inc() }

func (c *Collector) RecipeDeleted() { c.recipesDeleted.Inc() }

func (c *Collector) RatingRecorded(outcome string) {
	c.ratings.WithLabelValues(outcome).Inc()
}

// Middleware observes request latency labelled by the matched route.
func (c *Collector) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			err := next(ctx)

			status := ctx.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			route := ctx.Path()
			if route == "" {
				route = "unmatched"
			}
			c.httpLatency.WithLabelValues(ctx.Request().Method, route, strconv.Itoa(status)).
				Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards every metric.
type Nop struct{}

func (Nop) RecipeCreated()        {}
func (Nop) RecipeDeleted()        {}
func (Nop) RatingRecorded(string) {}
