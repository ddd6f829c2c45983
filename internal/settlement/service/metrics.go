package service

import (
	"github.com/damoang/payout-ledger/internal/settlement/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	settlementsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settlements_created_total",
			Help: "Settlement creation attempts by outcome (created, replayed, rejected)",
		},
		[]string{"outcome"},
	)

	settlementTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settlement_transitions_total",
			Help: "Settlement status transitions by action and result code",
		},
		[]string{"action", "result"},
	)

	policyChanges = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "commission_policy_versions_created_total",
			Help: "Number of commission policy versions appended",
		},
	)
)

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return domain.CodeOf(err)
}
