package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics exposes the battle engine's prometheus instruments. All
// methods tolerate a nil receiver so callers never guard.
type EngineMetrics struct {
	votes          *prometheus.CounterVec
	battlesCreated prometheus.Counter
	awardsGranted  prometheus.Counter
	jobRuns        *prometheus.CounterVec
	jobErrors      *prometheus.CounterVec
	rolloverRaces  prometheus.Counter
}

func NewEngineMetrics(reg prometheus.Registerer) (*EngineMetrics, error) {
	m := &EngineMetrics{
		votes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "beerduel_votes_total",
			Help: "Vote attempts by outcome.",
		}, []string{"status"}),
		battlesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "beerduel_battles_created_total",
			Help: "Daily battles created.",
		}),
		awardsGranted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "beerduel_weekly_awards_total",
			Help: "Weekly awards granted.",
		}),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "beerduel_rollover_job_runs_total",
			Help: "Rollover job executions.",
		}, []string{"job"}),
		jobErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "beerduel_rollover_job_errors_total",
			Help: "Rollover job failures.",
		}, []string{"job", "reason"}),
		rolloverRaces: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "beerduel_rollover_conflicts_total",
			Help: "Weekly rollovers lost to a concurrent runner.",
		}),
	}

	for _, collector := range []prometheus.Collector{
		m.votes, m.battlesCreated, m.awardsGranted, m.jobRuns, m.jobErrors, m.rolloverRaces,
	} {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *EngineMetrics) RecordVote(status string) {
	if m == nil {
		return
	}
	m.votes.WithLabelValues(status).Inc()
}

func (m *EngineMetrics) IncBattleCreated() {
	if m == nil {
		return
	}
	m.battlesCreated.Inc()
}

func (m *EngineMetrics) IncAwardGranted() {
	if m == nil {
		return
	}
	m.awardsGranted.Inc()
}

func (m *EngineMetrics) IncJobRun(job string) {
	if m == nil {
		return
	}
	m.jobRuns.WithLabelValues(job).Inc()
}

func (m *EngineMetrics) IncJobError(job, reason string) {
	if m == nil {
		return
	}
	m.jobErrors.WithLabelValues(job, reason).Inc()
}

func (m *EngineMetrics) IncRolloverConflict() {
	if m == nil {
		return
	}
	m.rolloverRaces.Inc()
}
