package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	assignmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bed_assignments_total",
		Help: "Bed assignment attempts by outcome.",
	}, []string{"outcome"})

	aiRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ai_runs_total",
		Help: "AI scorer runs by final status.",
	}, []string{"status"})

	actionableRecommendations = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "actionable_recommendations",
		Help: "Recommendations left after the last reconciliation.",
	})

	intakeSubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "intake_submissions_total",
		Help: "Intake submissions by outcome.",
	}, []string{"outcome"})
)
