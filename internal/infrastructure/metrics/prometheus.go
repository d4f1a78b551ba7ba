// Package metrics contadores Prometheus del negocio y de HTTP.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/vendofy-api/internal/application/ports"
)

var _ ports.Metrics = (*Prometheus)(nil)

// Prometheus registro propio (no el global) con los contadores de Vendofy.
type Prometheus struct {
	registry      *prometheus.Registry
	transitions   *prometheus.CounterVec
	notifications *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// New crea el registro con métricas de proceso y Go incluidas.
func New() *Prometheus {
	reg := prometheus.NewRegistry()
	p := &Prometheus{
		registry: reg,
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vendofy",
			Name:      "order_transitions_total",
			Help:      "Pedidos que pasaron por cada transición del ciclo de vida",
		}, []string{"transition"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vendofy",
			Name:      "notifications_total",
			Help:      "Intentos de notificación por correo",
		}, []string{"kind", "result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vendofy",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Peticiones HTTP por ruta y código",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vendofy",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duración de las peticiones HTTP",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(
		p.transitions,
		p.notifications,
		p.httpRequests,
		p.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return p
}

// OrderTransition suma n pedidos a la transición.
func (p *Prometheus) OrderTransition(transition string, n int) {
	p.transitions.WithLabelValues(transition).Add(float64(n))
}

// Notification cuenta un intento de envío.
func (p *Prometheus) Notification(kind, result string) {
	p.notifications.WithLabelValues(kind, result).Inc()
}

// Registry expone el registro (tests).
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }

// Handler endpoint /metrics para Fiber.
func (p *Prometheus) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{}))
}

// HTTPHandler versión net/http del endpoint.
func (p *Prometheus) HTTPHandler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Middleware mide cada petición usando la ruta registrada (no la URL) como etiqueta.
func (p *Prometheus) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		route := c.Route().Path
		p.httpRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		p.httpDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}
