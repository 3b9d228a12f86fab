// File: internal/infra/metrics/metrics.go
package metrics

import (
	"strconv"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	codesIssued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "access_codes_issued_total",
			Help: "One-time codes issued, by result (ok/denied).",
		},
		[]string{"result"},
	)

	codesRedeemed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "access_codes_redeemed_total",
			Help: "Redemption attempts, by result (ok/invalid/used/expired/error).",
		},
		[]string{"result"},
	)

	sessionsValidated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sessions_validated_total",
			Help: "Session validations, by result (ok/invalid/expired).",
		},
		[]string{"result"},
	)

	paymentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_total",
			Help: "Payment transitions by status (pending/approved/rejected).",
		},
		[]string{"status"},
	)

	subscriptionExtensions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscription_extensions_total",
			Help: "Subscription extensions by granted month count.",
		},
		[]string{"months"},
	)

	remindersSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "expiry_reminders_sent_total",
			Help: "Expiry reminders delivered.",
		},
	)
)

// MustRegister registers collectors with the default registry (idempotent).
func MustRegister() {
	once.Do(func() {
		prometheus.MustRegister(
			codesIssued, codesRedeemed, sessionsValidated,
			paymentsTotal, subscriptionExtensions, remindersSent,
		)
	})
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func IncCodeIssued(result string) {
	codesIssued.WithLabelValues(norm(result)).Inc()
}

func IncCodeRedeemed(result string) {
	codesRedeemed.WithLabelValues(norm(result)).Inc()
}

func IncSessionValidated(result string) {
	sessionsValidated.WithLabelValues(norm(result)).Inc()
}

func IncPayment(status string) {
	paymentsTotal.WithLabelValues(norm(status)).Inc()
}

func IncSubscriptionExtended(months int) {
	subscriptionExtensions.WithLabelValues(strconv.Itoa(months)).Inc()
}

func IncReminderSent() {
	remindersSent.Inc()
}
