// Package ratelimiter implements token bucket rate limiting for HTTP handlers.
//
// A Bucket pairs a Config with a Store. MemoryStore keeps state in process
// memory and RedisStore shares it between replicas using a Lua script, so
// refill, check and consume happen atomically on the server. Denied requests
// never consume tokens.
//
//	store := ratelimiter.NewRedisStore(client)
//	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity:       100,
//		RefillRate:     20,
//		RefillInterval: 10 * time.Second,
//	})
//	if err != nil {
//		return err
//	}
//	r.Use(ratelimiter.Middleware(limiter, ratelimiter.ByIP))
//
// Middleware sets X-RateLimit-Limit, X-RateLimit-Remaining and
// X-RateLimit-Reset on every limited response and Retry-After on 429s.
package ratelimiter
