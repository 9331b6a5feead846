package testutil

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisLockPrefix = "dashboard:testutil:db_lock:"

// SetupTestRedis returns a client on an emptied logical database of the first reachable
// Redis in Env.RedisAddrs. Parallel test packages each reserve their own database.
func SetupTestRedis(t TB) *redis.Client {
	t.Helper()
	e := LoadEnv(t)

	addr, ok := dialRedis(t, e.RedisAddrs)
	if !ok {
		unavailable(t, e.RequireRedis || e.RequireInfra, "redis not available at %v", e.RedisAddrs)
		return nil
	}

	db := e.RedisDB
	if db < 0 {
		db = reserveRedisDB(t, addr)
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	t.Cleanup(func() { closeAndLog(t, "redis client", client) })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("flush redis db %d: %v", db, err)
	}
	return client
}

func dialRedis(t TB, addrs []string) (string, bool) {
	for _, addr := range addrs {
		c := redis.NewClient(&redis.Options{Addr: addr})
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		err := c.Ping(ctx).Err()
		cancel()
		closeAndLog(t, "redis dial client", c)
		if err == nil {
			return addr, true
		}
		t.Logf("redis not available at %s: %v", addr, err)
	}
	return "", false
}

// reserveRedisDB claims a database in 1..15 with a lock key in DB 0, released on cleanup.
func reserveRedisDB(t TB, addr string) int {
	meta := redis.NewClient(&redis.Options{Addr: addr, DB: 0})
	owner := fmt.Sprintf("%d:%d", os.Getpid(), time.Now().UnixNano())

	for i := 1; i <= 15; i++ {
		key := fmt.Sprintf("%s%d", redisLockPrefix, i)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		ok, err := meta.SetNX(ctx, key, owner, 30*time.Minute).Result()
		cancel()
		if err != nil || !ok {
			continue
		}
		t.Cleanup(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := meta.Del(ctx, key).Err(); err != nil {
				t.Logf("warning: failed to release redis db lock %s: %v", key, err)
			}
			closeAndLog(t, "redis meta client", meta)
		})
		return i
	}

	closeAndLog(t, "redis meta client", meta)
	t.Logf("no free redis db; sharing DB 1 at %s", addr)
	return 1
}
