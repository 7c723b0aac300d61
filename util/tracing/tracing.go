package tracing

// Context carries per-request identifiers through handler and helper calls.
type Context struct {
	RequestID     string `json:"request_id"`
	RequestSource string `json:"request_source"`
}
