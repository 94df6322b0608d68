package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Business Metrics
var (
	UsersRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameUsersRegistered,
			Help: HelpTextUsersRegistered,
		},
	)

	ItemsCrafted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameItemsCrafted,
			Help: HelpTextItemsCrafted,
		},
		[]string{LabelBlueprint, LabelItem},
	)

	StacksAdded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameStacksAdded,
			Help: HelpTextStacksAdded,
		},
		[]string{LabelItem},
	)

	StacksRemoved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameStacksRemoved,
			Help: HelpTextStacksRemoved,
		},
		[]string{LabelItem},
	)

	MessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameMessagesSent,
			Help: HelpTextMessagesSent,
		},
	)

	AttachmentsDetached = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameAttachmentsDetached,
			Help: HelpTextAttachmentsDetached,
		},
	)

	VotesSpent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameVotesSpent,
			Help: HelpTextVotesSpent,
		},
	)

	FriendRequests = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameFriendRequests,
			Help: HelpTextFriendRequests,
		},
	)
)
