package domain

// Session is the identity reconstructed from a signed token on every
// request. All three fields are guaranteed to be plain strings; the
// resolver rejects tokens whose claims cannot be normalized to that shape.
type Session struct {
	UserID string
	Email  string
	Name   string
}

// RateLimitResult is the outcome of a single fixed-window limiter call.
type RateLimitResult struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   int64
}
