// Package redis wraps github.com/redis/go-redis/v9 with the pieces the API
// needs: a retrying Connect, a readiness Healthcheck, and TokenRegistry, the
// store that makes refresh tokens revocable.
//
// # Usage
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    // fail fast
//	}
//	defer client.Close()
//
//	registry := redis.NewTokenRegistry(client)
//	_ = registry.Put(ctx, identityID, jti, 7*24*time.Hour)
//	ok, _ := registry.Exists(ctx, identityID, jti)
//	_ = registry.DeleteAll(ctx, identityID) // logout everywhere
//
// # Error Handling
//
// Connection problems are reported as ErrFailedToParseRedisConnString or
// ErrRedisNotReady joined with the underlying cause. Registry methods wrap
// client errors with a short description; absent entries are not errors.
package redis
