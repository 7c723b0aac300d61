package values

// Status strings returned in API responses. util.StatusCode maps each one
// to the HTTP status it represents.
const (
	Success        = "success"
	Created        = "created"
	Error          = "internal-error"
	BadRequestBody = "bad-request"
	Unprocessable  = "unprocessable"
	NotAllowed     = "not-allowed"
	Conflict       = "conflict"
	NotFound       = "not-found"
	NotAuthorised  = "not-authorised"
	TokenExpired   = "token-expired"
	BadGateway     = "bad-gateway"
)

// Request headers recognised by the tracing middleware.
const (
	HeaderRequestID     = "X-Request-Id"
	HeaderRequestSource = "X-Request-Source"
)

type contextKey string

// Context keys. Typed so nothing outside this module can collide with them.
const (
	ContextTracingKey  contextKey = "tracing-context"
	ContextUserIDKey   contextKey = "user-id"
	ContextUserRoleKey contextKey = "user-role"
)
