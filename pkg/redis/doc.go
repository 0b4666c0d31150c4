// Package redis connects to a Redis server with retry and exposes a
// healthcheck probe. The notifier uses Redis as the broadcast transport when
// push subscribers are spread across multiple instances.
//
// Configuration comes from REDIS_* environment variables via the Config
// struct:
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    // terminate, the broadcast transport is unavailable
//	}
//	defer client.Close()
package redis
