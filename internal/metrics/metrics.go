package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	GroupMessagesSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scsp_group_messages_sent_total",
		Help: "Total group chat messages sent.",
	})
	FriendMessagesSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scsp_friend_messages_sent_total",
		Help: "Total friend messages sent.",
	})

	EchoBackfilled = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scsp_echo_backfilled_total",
		Help: "Total sends whose ordinal was recovered from the echo notification.",
	})
	EchoTimeouts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scsp_echo_timeout_total",
		Help: "Total sends that gave up waiting for the echo notification.",
	})

	NotificationsDispatched = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scsp_notifications_dispatched_total",
		Help: "Total notifications handed to a registered handler.",
	})
	HandlerFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scsp_handler_failures_total",
		Help: "Total handler errors that stopped a dispatch loop.",
	})
	StreamFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scsp_stream_failures_total",
		Help: "Total notification stream failures.",
	})
)

func Register() {
	prometheus.MustRegister(
		GroupMessagesSent, FriendMessagesSent,
		EchoBackfilled, EchoTimeouts,
		NotificationsDispatched, HandlerFailures, StreamFailures,
	)
}
