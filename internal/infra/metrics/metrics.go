package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	broadcastMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "broadcast_messages_total",
			Help: "Per-recipient broadcast outcomes (sent/failed/skipped).",
		},
		[]string{"outcome"},
	)

	broadcastRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "broadcast_runs_total",
			Help: "Completed broadcast passes by trigger (admin/promo).",
		},
		[]string{"trigger"},
	)

	membershipChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "membership_checks_total",
			Help: "Channel membership verifications by result (member/denied/error).",
		},
		[]string{"result"},
	)

	adminRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_requests_total",
			Help: "Admin API requests by status (authorized/unauthorized).",
		},
		[]string{"status"},
	)

	registeredUsers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "registered_users",
			Help: "Current size of the user registry.",
		},
	)
)

// MustRegister registers collectors with the default registry (idempotent).
func MustRegister() {
	once.Do(func() {
		prometheus.MustRegister(
			broadcastMessages,
			broadcastRuns,
			membershipChecks,
			adminRequests,
			registeredUsers,
		)
	})
}

func IncBroadcastMessage(outcome string) { broadcastMessages.WithLabelValues(outcome).Inc() }
func IncBroadcastRun(trigger string)     { broadcastRuns.WithLabelValues(trigger).Inc() }
func IncMembershipCheck(result string)   { membershipChecks.WithLabelValues(result).Inc() }
func IncAdminRequest(status string)      { adminRequests.WithLabelValues(status).Inc() }
func SetRegisteredUsers(n int)           { registeredUsers.Set(float64(n)) }
