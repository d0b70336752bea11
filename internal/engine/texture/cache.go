package texture

import "context"

// Resolver turns a request into a pending surface.
type Resolver interface {
	Resolve(ctx context.Context, req Request) *Pending
}

// Cache remembers the last request so the surface is only rebuilt when the
// texture source or overlay text actually changes.
type Cache struct {
	resolver Resolver
	key      Request
	pending  *Pending
}

// NewCache wraps a resolver.
func NewCache(r Resolver) *Cache {
	return &Cache{resolver: r}
}

// Get returns the pending surface for req. changed is true when a new
// resolve was started; the previous in-flight load is cancelled then.
func (c *Cache) Get(ctx context.Context, req Request) (p *Pending, changed bool) {
	if c.pending != nil && c.key == req {
		return c.pending, false
	}
	if c.pending != nil {
		c.pending.Cancel()
	}
	c.key = req
	c.pending = c.resolver.Resolve(ctx, req)
	return c.pending, true
}

// Reset cancels any in-flight load and forgets the cached request.
func (c *Cache) Reset() {
	if c.pending != nil {
		c.pending.Cancel()
	}
	c.pending = nil
	c.key = Request{}
}
