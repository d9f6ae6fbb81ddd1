package config

const (
	// DefaultTimeout is the per-connect budget in milliseconds
	DefaultTimeout = 500
	// DefaultConcurrency is the probe worker pool size
	DefaultConcurrency = 100
	// DefaultLookupTimeout is the reverse DNS budget in milliseconds
	DefaultLookupTimeout = 2000
	// DefaultLookupConcurrency caps simultaneous reverse lookups
	DefaultLookupConcurrency = 16
)

const HTTPProxyEnv = "HTTP_PROXY"
