package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus-метрик сервиса.
// Регистрируется в глобальном registry, отдается через promhttp.
type Metrics struct {
	// QueryDuration длительность SQL-запросов по типам операций
	QueryDuration *prometheus.HistogramVec

	// DBConnections состояние пула соединений с БД
	DBConnections *prometheus.GaugeVec

	// TxRetries количество повторов сериализуемых транзакций
	TxRetries *prometheus.CounterVec
}

// New создает и регистрирует метрики сервиса
func New(service string) *Metrics {
	m := &Metrics{
		QueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "db_query_duration_seconds",
				Help:    "Duration of database queries",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "operation"},
		),
		DBConnections: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "db_connections",
				Help: "Database connection pool state",
			},
			[]string{"service", "state"},
		),
		TxRetries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "db_tx_retries_total",
				Help: "Number of serializable transaction retries",
			},
			[]string{"service"},
		),
	}

	prometheus.MustRegister(m.QueryDuration, m.DBConnections, m.TxRetries)
	return m
}

// ObserveQueryDuration записывает длительность запроса
func (m *Metrics) ObserveQueryDuration(service, operation string, seconds float64) {
	m.QueryDuration.WithLabelValues(service, operation).Observe(seconds)
}

// SetDBConnections записывает состояние пула соединений
func (m *Metrics) SetDBConnections(service, state string, value float64) {
	m.DBConnections.WithLabelValues(service, state).Set(value)
}

// IncTxRetries увеличивает счетчик повторов транзакций
func (m *Metrics) IncTxRetries(service string) {
	m.TxRetries.WithLabelValues(service).Inc()
}
