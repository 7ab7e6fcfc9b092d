package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sqlrunner/internal/logging"
)

const (
	OutcomeOK         = "ok"
	OutcomeInvalid    = "invalid"
	OutcomeRestricted = "restricted"
	OutcomeFailed     = "failed"
)

var (
	Registry = prometheus.NewRegistry()

	queriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sqlrunner",
		Name:      "queries_total",
		Help:      "Query requests by outcome.",
	}, []string{"outcome"})

	queryDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "sqlrunner",
		Name:      "query_duration_seconds",
		Help:      "Time spent in the database for queries that reached it.",
		Buckets:   prometheus.DefBuckets,
	})
)

func init() {
	Registry.MustRegister(queriesTotal, queryDuration)
}

func ObserveOutcome(outcome string) {
	queriesTotal.WithLabelValues(outcome).Inc()
}

func ObserveDuration(d time.Duration) {
	queryDuration.Observe(d.Seconds())
}

// Server exposes the registry on its own listener, away from the query
// endpoint which owns every path.
type Server struct {
	server *http.Server
}

func NewServer(addr string) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
	return &Server{server: &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}}
}

func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) StartAsync() {
	log := logging.New("metrics")
	go func() {
		log.Info().Str("addr", s.server.Addr).Msg("metrics listener started")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics listener failed")
		}
	}()
}

func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
