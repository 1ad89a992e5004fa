package redisq

import "time"

// Request paths
const (
	ListenPath      = "/listen.php"
	KillmailPathFmt = "/killmails/%d/%s/"

	QueryQueueID    = "queueID"
	QueryTTW        = "ttw"
	QueryDatasource = "datasource"
	DatasourceTQ    = "tranquility"
)

// Client limits
const (
	// MaxRedirects caps redirect hops per request
	MaxRedirects = 10

	// PollTimeoutSlack is added to ttw for the long-poll request timeout
	PollTimeoutSlack = 10 * time.Second

	// DefaultRetryAfter applies when a 429 carries no usable Retry-After header
	DefaultRetryAfter = 10 * time.Second

	// Detail cache sizing
	DetailCacheSize = 2048
	DetailCacheTTL  = 30 * time.Minute

	// maxErrorBody bounds how much of an error body is read for logging
	maxErrorBody = 512
)

// Error messages
const (
	ErrMsgBuildRequestFailed = "failed to build request: %w"
	ErrMsgDecodeFailed       = "failed to decode queue response: %w"
	ErrMsgTooManyRedirects   = "stopped after %d redirects"
	ErrMsgUnexpectedStatus   = "unexpected status %d"
	ErrMsgDetailStatus       = "%w: status %d"
	ErrMsgDetailRequest      = "%w: %v"
	ErrMsgMissingHash        = "%w: package %d has no hash"
)

// Log messages
const (
	LogMsgRateLimited       = "Queue rate limited, sleeping"
	LogMsgPollBackoff       = "Queue poll failed, backing off"
	LogMsgDetailUnavailable = "Killmail detail unavailable, skipping"
	LogMsgDetailCacheHit    = "Killmail detail served from cache"
)
