// Package revalidate collects the view paths a request has invalidated, so that the response can
// tell the front end which views to reload.
package revalidate

import (
	"context"
	"sync"
)

type contextKey struct{}

type collector struct {
	mu    sync.Mutex
	paths []string
	seen  map[string]bool
}

// WithCollector returns a copy of ctx that records marked paths.
func WithCollector(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, &collector{seen: make(map[string]bool)})
}

// Mark records that the views at paths are stale. Without a collector in ctx it does nothing.
func Mark(ctx context.Context, paths ...string) {
	c, ok := ctx.Value(contextKey{}).(*collector)
	if !ok {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range paths {
		if !c.seen[p] {
			c.seen[p] = true
			c.paths = append(c.paths, p)
		}
	}
}

// Paths returns the marked paths in the order they were first marked.
func Paths(ctx context.Context) []string {
	c, ok := ctx.Value(contextKey{}).(*collector)
	if !ok {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.paths...)
}
