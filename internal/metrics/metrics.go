// Package metrics provides Prometheus counters for the chat inspection
// engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds the engine's Prometheus collectors.
type Recorder struct {
	inboundTotal   prometheus.Counter
	repliesTotal   prometheus.Counter
	commitsTotal   *prometheus.CounterVec
	commitFailures *prometheus.CounterVec
	recoveryTotal  prometheus.Counter
}

// NewRecorder creates a Recorder registered against reg. Passing a fresh
// registry per test avoids duplicate-registration panics.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		inboundTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "chat_inbound_messages_total",
			Help: "Total inbound chat messages received",
		}),
		repliesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "chat_replies_total",
			Help: "Total replies sent back to the messaging channel",
		}),
		commitsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_commits_total",
			Help: "Total durable commits by entry kind",
		}, []string{"kind"}),
		commitFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_commit_failures_total",
			Help: "Total failed durable commits by entry kind",
		}, []string{"kind"}),
		recoveryTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "chat_recovery_routes_total",
			Help: "Total messages routed to the recovery handler",
		}),
	}
}

// Inbound counts one received message.
func (r *Recorder) Inbound() { r.inboundTotal.Inc() }

// Reply counts one outbound reply.
func (r *Recorder) Reply() { r.repliesTotal.Inc() }

// Commit counts one successful durable commit of the given kind
// ("task" or "location").
func (r *Recorder) Commit(kind string) { r.commitsTotal.WithLabelValues(kind).Inc() }

// CommitFailure counts one failed durable commit of the given kind.
func (r *Recorder) CommitFailure(kind string) { r.commitFailures.WithLabelValues(kind).Inc() }

// Recovery counts one message handled by the recovery path.
func (r *Recorder) Recovery() { r.recoveryTotal.Inc() }
