package metrics

import (
	"github.com/sirupsen/logrus"

	"nutri-meal-planner/internal/shared"
)

// Recorder fans generation results out to the usage store and the
// Prometheus collectors. Either may be nil.
type Recorder struct {
	store      *Store
	collectors *Collectors
}

func NewRecorder(store *Store, collectors *Collectors) *Recorder {
	return &Recorder{store: store, collectors: collectors}
}

// RecordGeneration records one LLM call.
func (r *Recorder) RecordGeneration(meta shared.AgentMeta, err error) {
	if r.collectors != nil {
		r.collectors.ObserveGeneration(meta.AgentName, Outcome(err), meta.Latency)
		r.collectors.ObserveTokens(meta.AgentName, meta.Usage)
	}
	if r.store != nil {
		if recErr := r.store.RecordMeta(meta, err == nil); recErr != nil {
			logrus.WithError(recErr).WithField("operation", meta.AgentName).Warn("failed to record generation metric")
		}
	}
}
