package config

import "time"

// Database connection pool settings
const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 5 * time.Minute
)

// HTTP server timeouts
const (
	ServerRequestTimeout  = 60 * time.Second
	ServerReadTimeout     = 15 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Database ping timeout for health checks
const DBPingTimeout = 5 * time.Second

// Connectivity probe against the realtime store must settle within this bound.
const ProbeTimeout = 5 * time.Second

// Per-call bound on realtime store reads and writes.
const RealtimeOpTimeout = 5 * time.Second

// Session lookups in the auth middleware are bounded; a lookup that exceeds
// this is treated as anonymous rather than left hanging.
const AuthCheckTimeout = 8 * time.Second

// Attachment uploads larger than this are rejected before any storage call.
const MaxAttachmentSize = 10 << 20 // 10MB

// Slack on top of MaxAttachmentSize for multipart framing and form fields.
const MultipartOverhead = 64 << 10

// Background job intervals
const (
	CleanupJobInterval = 5 * time.Minute
	ProbeJobInterval   = 30 * time.Second
)

// Stream tickets authenticate one SSE/WebSocket dial and expire quickly.
const StreamTicketTTL = 60 * time.Second

// Default rate limiting
const DefaultRateLimitPerMin = 60
