package ratelimiting

import (
	e "aiexchange/internal/core/domain/errors"
	"aiexchange/internal/core/domain/logging"
	ratelimiter "aiexchange/internal/core/domain/rate_limiter"
	"aiexchange/internal/core/services"
	"context"
)

type hasRateLimitKey interface {
	GetRateLimitKey() string
}

type service[T hasRateLimitKey, S any] struct {
	log         logging.Logger
	rateLimiter ratelimiter.RateLimiter
	rateLimit   ratelimiter.Limit
	inner       services.Service[T, S]
}

// New wraps inner so that every run is counted against the key its input
// reports. Runs over the limit fail with ErrRateLimitExceeded and never reach inner.
func New[T hasRateLimitKey, S any](
	log logging.Logger,
	rateLimiter ratelimiter.RateLimiter,
	rateLimit ratelimiter.Limit,
	inner services.Service[T, S],
) services.Service[T, S] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if rateLimiter == nil {
		panic(e.NewNilArgumentError("rateLimiter"))
	}
	if inner == nil {
		panic(e.NewNilArgumentError("inner"))
	}
	return &service[T, S]{
		log:         log,
		rateLimiter: rateLimiter,
		rateLimit:   rateLimit,
		inner:       inner,
	}
}

func (s *service[T, S]) Run(ctx context.Context, input T) (result S, err error) {
	key := input.GetRateLimitKey()
	rate := s.rateLimiter.CheckLimit(ctx, key, s.rateLimit)
	if rate.IsAllowed {
		return s.inner.Run(ctx, input)
	}

	s.log.Warning(ctx, "Rate limit exceeded.", logging.Entry("key", key))
	return result, ratelimiter.ErrRateLimitExceeded
}
