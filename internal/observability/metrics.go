package observability

import (
	"context"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/lifelog-backend/internal/pkg/logger"
)

type Metrics struct {
	apiRequests  *CounterVec
	apiLatency   *HistogramVec
	apiInflight  *Gauge
	apiReqTotal  *Counter
	apiReqError  *Counter
	llmRequests  *CounterVec
	llmLatency   *HistogramVec
	gateItems    *CounterVec
	gateCommits  *CounterVec
	prefOutcomes *CounterVec
	prefAdjusts  *CounterVec
	contextReads *CounterVec
	storeOps     *CounterVec
	storeLatency *HistogramVec
	storeSignals *CounterVec
	dbUp         *Gauge
	dbOpenConns  *Gauge
	redisUp      *Gauge
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	v := strings.TrimSpace(os.Getenv("METRICS_ENABLED"))
	if v == "" {
		return false
	}
	return strings.EqualFold(v, "true") || v == "1" || strings.EqualFold(v, "yes")
}

// Current is nil until Init ran with metrics enabled; every method tolerates a nil receiver.
func Current() *Metrics {
	return instance
}

func scrapeInterval() time.Duration {
	v := strings.TrimSpace(os.Getenv("METRICS_SCRAPE_INTERVAL_SECONDS"))
	if v == "" {
		return 10 * time.Second
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 10 * time.Second
	}
	return time.Duration(n) * time.Second
}

func Init(log *logger.Logger) *Metrics {
	if !Enabled() {
		return nil
	}
	initOnce.Do(func() {
		instance = newMetrics()
		if log != nil {
			log.Info("metrics initialized")
		}
	})
	return instance
}

// New returns a registry that is not installed as Current.
func New() *Metrics { return newMetrics() }

func newMetrics() *Metrics {
	return &Metrics{
		apiRequests:  NewCounterVec("lifelog_api_requests_total", "API requests", []string{"method", "route", "status"}),
		apiLatency:   NewHistogramVec("lifelog_api_request_duration_seconds", "API request latency", []string{"method", "route", "status"}, nil),
		apiInflight:  NewGauge("lifelog_api_inflight_requests", "In-flight API requests"),
		apiReqTotal:  NewCounter("lifelog_api_requests_all_total", "All API requests"),
		apiReqError:  NewCounter("lifelog_api_requests_error_total", "API requests answered with 5xx"),
		llmRequests:  NewCounterVec("lifelog_llm_requests_total", "LLM extraction calls", []string{"model", "status"}),
		llmLatency:   NewHistogramVec("lifelog_llm_request_duration_seconds", "LLM extraction latency", []string{"model", "status"}, []float64{0.5, 1, 2, 5, 10, 30, 60}),
		gateItems:    NewCounterVec("lifelog_gate_items_total", "Extracted items by gate outcome", []string{"type", "outcome"}),
		gateCommits:  NewCounterVec("lifelog_gate_commits_total", "Gate commit calls", []string{"result"}),
		prefOutcomes: NewCounterVec("lifelog_suggestion_outcomes_total", "Recorded suggestion outcomes", []string{"type", "action"}),
		prefAdjusts:  NewCounterVec("lifelog_threshold_adjustments_total", "Threshold auto-adjust decisions", []string{"reason"}),
		contextReads: NewCounterVec("lifelog_context_reads_total", "Context aggregation sub-reads", []string{"slice", "status"}),
		storeOps:     NewCounterVec("lifelog_store_operations_total", "Transactional store writes", []string{"op", "status"}),
		storeLatency: NewHistogramVec("lifelog_store_operation_duration_seconds", "Transactional store write latency", []string{"op"}, nil),
		storeSignals: NewCounterVec("lifelog_store_signals_total", "Store conflicts and retryable failures", []string{"op", "signal"}),
		dbUp:         NewGauge("lifelog_db_up", "Database reachable"),
		dbOpenConns:  NewGauge("lifelog_db_open_connections", "Open database connections"),
		redisUp:      NewGauge("lifelog_redis_up", "Redis reachable"),
	}
}

func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           http.HandlerFunc(m.WriteHTTP),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if log != nil {
				log.Error("metrics server failed", "error", err, "addr", addr)
			}
		}
	}()
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

type promWriter interface {
	WritePrometheus(w io.Writer) error
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range []promWriter{
		m.apiRequests, m.apiLatency, m.apiInflight, m.apiReqTotal, m.apiReqError,
		m.llmRequests, m.llmLatency,
		m.gateItems, m.gateCommits,
		m.prefOutcomes, m.prefAdjusts,
		m.contextReads,
		m.storeOps, m.storeLatency, m.storeSignals,
		m.dbUp, m.dbOpenConns, m.redisUp,
	} {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route, status)
	m.apiReqTotal.Inc()
	if isServerErrorStatus(status) {
		m.apiReqError.Inc()
	}
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveLLMRequest(model, status string, dur time.Duration) {
	if m == nil {
		return
	}
	model = strings.TrimSpace(model)
	if model == "" {
		model = "unknown"
	}
	m.llmRequests.Inc(model, status)
	if dur > 0 {
		m.llmLatency.Observe(dur.Seconds(), model, status)
	}
}

// ObserveGateItem counts one extracted item; outcome is "saved" or an error category.
func (m *Metrics) ObserveGateItem(itemType, outcome string) {
	if m == nil {
		return
	}
	m.gateItems.Inc(itemType, outcome)
}

func (m *Metrics) ObserveGateCommit(saved, failed int) {
	if m == nil {
		return
	}
	switch {
	case saved > 0 && failed > 0:
		m.gateCommits.Inc("partial")
	case failed > 0:
		m.gateCommits.Inc("failed")
	case saved > 0:
		m.gateCommits.Inc("saved")
	default:
		m.gateCommits.Inc("empty")
	}
}

func (m *Metrics) IncSuggestionOutcome(itemType, action string) {
	if m == nil {
		return
	}
	m.prefOutcomes.Inc(itemType, action)
}

func (m *Metrics) IncThresholdAdjustment(reason string) {
	if m == nil {
		return
	}
	m.prefAdjusts.Inc(reason)
}

func (m *Metrics) IncContextRead(slice string, ok bool) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "failed"
	}
	m.contextReads.Inc(slice, status)
}

func (m *Metrics) ObserveStoreOperation(op, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.storeOps.Inc(op, status)
	m.storeLatency.Observe(dur.Seconds(), op)
}

func (m *Metrics) IncStoreSignal(op, signal string) {
	if m == nil {
		return
	}
	m.storeSignals.Inc(op, signal)
}

func (m *Metrics) StartPostgresCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		if log != nil {
			log.Warn("db metrics collector disabled", "error", err)
		}
		return
	}
	go func() {
		t := time.NewTicker(scrapeInterval())
		defer t.Stop()
		for {
			pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			if err := sqlDB.PingContext(pingCtx); err != nil {
				m.dbUp.Set(0)
			} else {
				m.dbUp.Set(1)
			}
			cancel()
			m.dbOpenConns.Set(float64(sqlDB.Stats().OpenConnections))
			select {
			case <-ctx.Done():
				return
			case <-t.C:
			}
		}
	}()
}

func (m *Metrics) StartRedisCollector(ctx context.Context, rdb *redis.Client) {
	if m == nil || rdb == nil {
		return
	}
	go func() {
		t := time.NewTicker(scrapeInterval())
		defer t.Stop()
		for {
			pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			if err := rdb.Ping(pingCtx).Err(); err != nil {
				m.redisUp.Set(0)
			} else {
				m.redisUp.Set(1)
			}
			cancel()
			select {
			case <-ctx.Done():
				return
			case <-t.C:
			}
		}
	}()
}
