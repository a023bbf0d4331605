// Package kit holds the transport-agnostic plumbing shared by the HTTP
// and MCP surfaces: the endpoint abstraction, middleware chaining, and
// the request-scoped context keys.
package kit

import "context"

// Endpoint is one logical operation, independent of the transport that
// invoked it. Both the HTTP handlers and the MCP tools decode into a
// typed request and delegate to the same endpoint.
type Endpoint func(ctx context.Context, req any) (any, error)

// Middleware wraps an endpoint with cross-cutting behaviour.
type Middleware func(Endpoint) Endpoint

// Chain composes middlewares so the first listed runs outermost.
func Chain(mws ...Middleware) Middleware {
	return func(next Endpoint) Endpoint {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}
