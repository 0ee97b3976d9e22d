// Package ratelimit counts attempts per key inside a fixed window.
package ratelimit

import "context"

// Counter is a keyed attempt counter whose entries expire after a window.
type Counter interface {
	// Hit records an attempt and returns the number of attempts for key in
	// the current window, this one included.
	Hit(ctx context.Context, key string) (int, error)
	Reset(ctx context.Context, key string) error
}
