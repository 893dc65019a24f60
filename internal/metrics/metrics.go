// Package metrics содержит счётчики Prometheus для операций аутентификации
// и реконсиляции. Экспонируются через /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics объединяет доменные счётчики сервиса.
type Metrics struct {
	// Попытки входа по исходу: success | invalid_credentials | error.
	LoginAttempts *prometheus.CounterVec

	// Записи реконсиляции по результату: synced | failed.
	ReconcileRecords *prometheus.CounterVec

	// Полные запуски реконсиляции по исходу: completed | vendor_not_found | error.
	ReconcileRuns *prometheus.CounterVec
}

// New создаёт и регистрирует все счётчики сервиса.
func New() *Metrics {
	return &Metrics{
		LoginAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "compliance_portal_login_attempts_total",
			Help: "Total login attempts by outcome",
		}, []string{"outcome"}),

		ReconcileRecords: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "compliance_portal_reconcile_records_total",
			Help: "Total checklist records processed by reconciliation, by result",
		}, []string{"result"}),

		ReconcileRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "compliance_portal_reconcile_runs_total",
			Help: "Total reconciliation runs by outcome",
		}, []string{"outcome"}),
	}
}

// ObserveLogin учитывает исход попытки входа.
func (m *Metrics) ObserveLogin(outcome string) {
	if m != nil {
		m.LoginAttempts.WithLabelValues(outcome).Inc()
	}
}

// ObserveReconcileRecord учитывает результат обработки одной записи.
func (m *Metrics) ObserveReconcileRecord(result string) {
	if m != nil {
		m.ReconcileRecords.WithLabelValues(result).Inc()
	}
}

// ObserveReconcileRun учитывает исход полного запуска реконсиляции.
func (m *Metrics) ObserveReconcileRun(outcome string) {
	if m != nil {
		m.ReconcileRuns.WithLabelValues(outcome).Inc()
	}
}
