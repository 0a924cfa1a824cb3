package types

// Response statuses follow the API contract: "success" for 2xx, "fail" for
// client errors, "error" for server-side failures.
const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

// Envelope is the uniform response wrapper. Every payload carries a "status"
// key plus operation-specific keys ("message", "results", "user", "order", ...).
type Envelope map[string]any
