package config

import "time"

const (
	// StoreFS keeps play-by-play documents under the assets directory.
	StoreFS = "fs"
	// StoreRedis keeps play-by-play documents in redis.
	StoreRedis = "redis"

	defaultPort            = "4000"
	defaultUpstreamTimeout = 10 * time.Second
	defaultWarmupInterval  = 30 * time.Second
)
