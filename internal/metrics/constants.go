package metrics

// Metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"

	MetricNameUsersRegistered     = "users_registered_total"
	MetricNameItemsCrafted        = "items_crafted_total"
	MetricNameStacksAdded         = "inventory_items_added_total"
	MetricNameStacksRemoved       = "inventory_items_removed_total"
	MetricNameMessagesSent        = "messages_sent_total"
	MetricNameAttachmentsDetached = "attachments_detached_total"
	MetricNameVotesSpent          = "votes_spent_total"
	MetricNameFriendRequests      = "friend_requests_total"
)

// Help texts
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latencies in seconds"
	HelpTextHTTPRequestsInFlight = "Number of HTTP requests currently being served"

	HelpTextUsersRegistered     = "Total number of registered users"
	HelpTextItemsCrafted        = "Total number of items crafted from blueprints"
	HelpTextStacksAdded         = "Total number of items added to inventories"
	HelpTextStacksRemoved       = "Total number of items removed from inventories"
	HelpTextMessagesSent        = "Total number of messages sent"
	HelpTextAttachmentsDetached = "Total number of attachments detached into inventories"
	HelpTextVotesSpent          = "Total number of votes spent"
	HelpTextFriendRequests      = "Total number of friend requests sent"
)

// Label names
const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelItem      = "item"
	LabelBlueprint = "blueprint"
)

// HTTPLatencyBuckets are tuned for a local-network game backend:
// most requests finish in single-digit milliseconds.
var HTTPLatencyBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}
