package metrics

import (
	"context"
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/GlebRadaev/freelancehub/internal/domain"
)

const namespace = "freelancehub"

const (
	ResultOK                  = "ok"
	ResultInsufficientBalance = "insufficient_balance"
	ResultRefused             = "refused"
	ResultCanceled            = "canceled"
	ResultError               = "error"
)

// Metrics holds the marketplace counters exposed on /metrics.
type Metrics struct {
	consumes    *prometheus.CounterVec
	transitions *prometheus.CounterVec
	expired     *prometheus.CounterVec
}

var (
	defaultOnce sync.Once
	defaultSet  *Metrics
)

// Default returns the process-wide set registered on the default registerer.
func Default() *Metrics {
	defaultOnce.Do(func() {
		defaultSet = New(prometheus.DefaultRegisterer)
	})
	return defaultSet
}

func New(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		consumes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "consume_total",
			Help:      "Ledger consume attempts by kind and result.",
		}, []string{"kind", "result"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "contract",
			Name:      "transitions_total",
			Help:      "Contract transition attempts by operation and result.",
		}, []string{"op", "result"}),
		expired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "expired_amount_total",
			Help:      "Amount that stopped being spendable because entries expired.",
		}, []string{"kind"}),
	}
	registerer.MustRegister(m.consumes, m.transitions, m.expired)
	return m
}

// Classify maps an operation error onto a low-cardinality result label.
func Classify(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, domain.ErrInsufficientBalance):
		return ResultInsufficientBalance
	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrInvalidInput):
		return ResultRefused
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ResultCanceled
	}
	return ResultError
}

func (m *Metrics) ObserveConsume(kind domain.LedgerKind, err error) {
	m.consumes.WithLabelValues(string(kind), Classify(err)).Inc()
}

func (m *Metrics) ObserveTransition(op string, err error) {
	m.transitions.WithLabelValues(op, Classify(err)).Inc()
}

func (m *Metrics) AddExpired(kind domain.LedgerKind, amount int64) {
	if amount <= 0 {
		return
	}
	m.expired.WithLabelValues(string(kind)).Add(float64(amount))
}
