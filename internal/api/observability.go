package api

import (
	"log"
	"net"
	"net/http"
	"net/http/pprof"
	"strconv"
	"time"

	"sports-arena/internal/game"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics with bounded cardinality (no per-object labels)
var (
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arena_tick_duration_seconds",
		Help:    "Time spent in one simulation tick",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.02, 0.05},
	})

	objectCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arena_objects",
		Help: "Live objects in the arena",
	})

	duplicateCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arena_duplicates",
		Help: "Live expiring duplicates",
	})

	eventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_events_total",
		Help: "Gameplay events emitted",
	})

	connectionRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connection_rejected_total",
		Help: "Requests and connections rejected by rate limit, origin or auth checks",
	}, []string{"reason"}) // Bounded: "rate_limit", "origin", "auth", "ws_total_limit", "ws_ip_limit"

	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"}) // endpoint is the route pattern, not the URL

	requestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "endpoint", "status"})

	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "websocket_connections_active",
		Help: "Currently active WebSocket connections",
	})

	wsMessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "websocket_messages_total",
		Help: "Total WebSocket messages broadcast",
	})
)

// ObservabilityConfig configures the debug server
type ObservabilityConfig struct {
	ListenAddr    string // Empty disables the server
	AllowExternal bool   // Permit a non-loopback ListenAddr
	BasicAuthUser string
	BasicAuthPass string
}

// DebugHandler serves pprof, Prometheus metrics and a health check.
func DebugHandler(cfg ObservabilityConfig) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if cfg.BasicAuthUser != "" {
		return basicAuthMiddleware(cfg.BasicAuthUser, cfg.BasicAuthPass, mux)
	}
	return mux
}

// StartDebugServer starts the internal observability server in the background.
// pprof must not be reachable from outside, so non-loopback addresses are
// rewritten unless AllowExternal is set.
func StartDebugServer(cfg ObservabilityConfig) {
	if cfg.ListenAddr == "" {
		log.Println("📊 Debug server disabled")
		return
	}
	if !cfg.AllowExternal && !isLoopback(cfg.ListenAddr) {
		_, port, err := net.SplitHostPort(cfg.ListenAddr)
		if err != nil {
			port = "6060"
		}
		log.Println("⚠️ Debug server forced to localhost")
		cfg.ListenAddr = net.JoinHostPort("127.0.0.1", port)
	}

	go func() {
		log.Printf("📊 Debug server starting on %s", cfg.ListenAddr)
		log.Printf("   - pprof:   http://%s/debug/pprof/", cfg.ListenAddr)
		log.Printf("   - metrics: http://%s/metrics", cfg.ListenAddr)

		if err := http.ListenAndServe(cfg.ListenAddr, DebugHandler(cfg)); err != nil {
			log.Printf("⚠️ Debug server error: %v", err)
		}
	}()
}

func isLoopback(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func basicAuthMiddleware(user, pass string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || !tokenEqual(u, user) || !tokenEqual(p, pass) {
			w.Header().Set("WWW-Authenticate", `Basic realm="debug"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ObserveTick records one finished tick. Pass it to Engine.SetTickObserver.
func ObserveTick(s game.TickStats) {
	tickDuration.Observe(s.Duration.Seconds())
	objectCount.Set(float64(s.Objects))
	duplicateCount.Set(float64(s.Duplicates))
	eventsTotal.Add(float64(s.Events))
}

// RecordConnectionRejected increments the rejection counter
func RecordConnectionRejected(reason string) {
	connectionRejected.WithLabelValues(reason).Inc()
}

// RecordRequest records HTTP request metrics
func RecordRequest(method, endpoint string, status int, duration time.Duration) {
	requestLatency.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	requestTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
}

// UpdateWSConnections updates WebSocket connection count
func UpdateWSConnections(count int) {
	wsConnectionsActive.Set(float64(count))
}

// IncrementWSMessages increments WebSocket message counter
func IncrementWSMessages() {
	wsMessagesTotal.Inc()
}

// metricsMiddleware labels requests by chi route pattern after routing.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		pattern := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				pattern = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		RecordRequest(r.Method, pattern, status, time.Since(start))
	})
}
