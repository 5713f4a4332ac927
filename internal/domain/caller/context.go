package caller

import "context"

// Source records where the caller identity was taken from
type Source string

const (
	SourceAuthorizer Source = "authorizer"
	SourceBearer     Source = "bearer"
	SourceHeader     Source = "header"
)

// Caller is the identity of the user behind a request
type Caller struct {
	UserID string
	Source Source
}

type contextKey struct{}

// WithCaller returns a copy of ctx carrying c
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// FromContext returns the caller stored by WithCaller
func FromContext(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(contextKey{}).(Caller)
	return c, ok && c.UserID != ""
}

// UserID returns the caller's user id, or "" when the request is anonymous
func UserID(ctx context.Context) string {
	c, _ := FromContext(ctx)
	return c.UserID
}
