package middleware

import "github.com/imcgaunn/to-webp/pool"

// Chain wraps h so that the first middleware is the outermost.
func Chain(h pool.Handler, mws ...func(pool.Handler) pool.Handler) pool.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
