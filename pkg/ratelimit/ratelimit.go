package ratelimit

import (
	"context"
	"errors"
)

// ErrBackend is returned when the limiter store cannot be reached
var ErrBackend = errors.New("ratelimit: backend error")

// Limiter decides whether one more request for key fits in the current window
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
