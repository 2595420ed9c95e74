package tracker

import "context"

type contextKey struct{}

// NewContext returns a context carrying the coordinator, for call sites
// that cannot take an explicit *Coordinator parameter.
func NewContext(ctx context.Context, c *Coordinator) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// FromContext extracts the coordinator placed by NewContext.
func FromContext(ctx context.Context) (*Coordinator, bool) {
	c, ok := ctx.Value(contextKey{}).(*Coordinator)
	return c, ok
}
